package handlers

import (
	"bytes"
	"context"
	"fmt"

	"scristobal/astcbot/commands"
	"scristobal/astcbot/failure"
	"scristobal/astcbot/logging"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	helpText = "🔥 Free Fire ASTC to PNG Converter 🔥\n\n" +
		"Commands:\n" +
		"/live <id> - Live server item\n" +
		"/adv <id> - Advance server item\n\n" +
		"Example: /live 710049001"

	restrictedText = "🚫 This bot only works in the authorized group."
)

func usageText(c commands.Command) string {
	return fmt.Sprintf("Please provide a valid item ID (e.g. %s 710049001)", string(c))
}

func caption(inv commands.Invocation) string {
	return fmt.Sprintf("✅ %s Server %s", inv.Server.Title(), inv.ItemID)
}

// failureText maps a pipeline error to the message the user sees.
func failureText(inv commands.Invocation, err error) string {
	switch failure.KindOf(err) {
	case failure.NotFound:
		return fmt.Sprintf("❌ Item %s not found on %s server", inv.ItemID, inv.Server.Title())
	case failure.Timeout:
		return fmt.Sprintf("⌛ Timeout processing %s, please try again", inv.ItemID)
	case failure.ConversionFailure:
		return fmt.Sprintf("⚠️ Could not convert item %s on %s server", inv.ItemID, inv.Server.Title())
	}

	if inv.ItemID == "" {
		return "⚠️ Something went wrong, please try again later"
	}

	return fmt.Sprintf("⚠️ Failed to process %s, please try again later", inv.ItemID)
}

func reply(ctx context.Context, s Sender, message *models.Message, text string) {

	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          message.Chat.ID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: message.ID, AllowSendingWithoutReply: true},
	})

	if err != nil {
		logging.Error("failed to send message", "chat", message.Chat.ID, "error", err)
	}
}

// respond sends the outcome of a pipeline run. A photo that Telegram refuses
// falls back to the generic failure text.
func respond(ctx context.Context, s Sender, message *models.Message, inv commands.Invocation, png []byte, err error) {

	if err != nil {
		reply(ctx, s, message, failureText(inv, err))
		return
	}

	_, err = s.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  message.Chat.ID,
		Caption: caption(inv),
		Photo: &models.InputFileUpload{
			Filename: inv.ItemID + ".png",
			Data:     bytes.NewReader(png),
		},
		ReplyParameters: &models.ReplyParameters{MessageID: message.ID, AllowSendingWithoutReply: true},
	})

	if err != nil {
		logging.Error("failed to send photo", "chat", message.Chat.ID, "item", inv.ItemID, "error", err)
		reply(ctx, s, message, failureText(inv, failure.New(failure.Unknown, "send", err)))
	}
}
