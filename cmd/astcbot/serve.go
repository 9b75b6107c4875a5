package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scristobal/astcbot/commands"
	"scristobal/astcbot/config"
	"scristobal/astcbot/handlers"
	"scristobal/astcbot/logging"
	"scristobal/astcbot/metrics"
	"scristobal/astcbot/server"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and its HTTP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {

			cfg, err := load(cmd.Flags())

			if err != nil {
				return err
			}

			if err := cfg.RequireBotToken(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, cfg)
		},
	}
	config.BindServeFlags(cmd.Flags())
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {

	m := metrics.New()

	p, err := newPipeline(cfg, m)

	if err != nil {
		return err
	}

	validator, err := commands.NewValidator(cfg.ItemIDPattern)

	if err != nil {
		return err
	}

	gate := handlers.NewGate(cfg.AllowedChats)

	if gate.Open() {
		logging.Warn("ALLOWED_CHAT_IDS is empty, the bot answers every chat")
	}

	dispatcher := handlers.NewDispatcher(gate, validator, p, cfg.BotUsername)

	opts := []bot.Option{
		bot.WithDefaultHandler(dispatcher.HandlerFunc()),
		bot.WithErrorsHandler(func(err error) {
			logging.Error("telegram client error", "error", err)
		}),
	}

	if cfg.Mode == config.ModeWebhook {
		opts = append(opts, bot.WithSkipGetMe())
	}

	b, err := bot.New(cfg.BotToken, opts...)

	if err != nil {
		return fmt.Errorf("error creating bot: %w", err)
	}

	srv := server.New(server.Options{
		Port:        cfg.Port,
		WebhookPath: cfg.WebhookPath,
		Secret:      cfg.WebhookSecret,
		Metrics:     m.Handler(),
	}, func(ctx context.Context, update *models.Update) error {
		return dispatcher.Dispatch(ctx, b, update)
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(ctx)
	})

	switch cfg.Mode {
	case config.ModePolling:
		g.Go(func() error {
			return poll(ctx, b)
		})
	case config.ModeWebhook:
		g.Go(func() error {
			return register(ctx, b, cfg)
		})
	}

	logging.Info("bot online", "mode", cfg.Mode, "port", cfg.Port)

	return g.Wait()
}

// poll drops any registered webhook, which would otherwise block getUpdates,
// then long-polls until ctx is done.
func poll(ctx context.Context, b *bot.Bot) error {

	_, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{})

	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	logging.Info("listening to messages")

	b.Start(ctx)

	return nil
}

func register(ctx context.Context, b *bot.Bot, cfg *config.Config) error {

	if cfg.WebhookURL == "" {
		logging.Info("WEBHOOK_URL not set, assuming the webhook is registered elsewhere")
		return nil
	}

	_, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         cfg.WebhookURL,
		SecretToken: cfg.WebhookSecret,
	})

	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	logging.Info("webhook registered", "url", cfg.WebhookURL)

	return nil
}
