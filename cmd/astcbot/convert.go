package main

import (
	"fmt"
	"os"

	"scristobal/astcbot/commands"

	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var (
		serverName string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "convert <id>",
		Short: "Download and convert one item without Telegram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			cfg, err := load(cmd.Flags())

			if err != nil {
				return err
			}

			server, err := commands.ParseServer(serverName)

			if err != nil {
				return err
			}

			validator, err := commands.NewValidator(cfg.ItemIDPattern)

			if err != nil {
				return err
			}

			inv, err := validator.Check(server, args[0])

			if err != nil {
				return err
			}

			p, err := newPipeline(cfg, nil)

			if err != nil {
				return err
			}

			png, err := p.Run(cmd.Context(), inv)

			if err != nil {
				return err
			}

			if output == "" {
				output = inv.ItemID + ".png"
			}

			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("can't write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", inv, output, len(png))

			return nil
		},
	}

	cmd.Flags().StringVarP(&serverName, "server", "s", "live", "item server: live or adv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, defaults to <id>.png")

	return cmd
}
