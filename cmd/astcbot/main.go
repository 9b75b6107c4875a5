// Package main is the entry point for the astcbot CLI.
package main

import (
	"fmt"
	"os"

	"scristobal/astcbot/config"

	"github.com/spf13/cobra"
)

// Set by ldflags at release time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "astcbot",
		Short:         "Telegram bot that converts Free Fire ASTC item icons to PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.BindCommonFlags(root.PersistentFlags())
	root.AddCommand(serveCmd(), convertCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "astcbot %s (commit: %s)\n", version, commit)
		},
	}
}
