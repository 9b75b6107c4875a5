package handlers

import (
	"context"
	"fmt"

	"scristobal/astcbot/commands"
	"scristobal/astcbot/logging"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/xid"
)

// Sender is the part of *bot.Bot the handlers talk to.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

type processor interface {
	Run(ctx context.Context, inv commands.Invocation) ([]byte, error)
}

type Dispatcher struct {
	gate        *Gate
	validator   *commands.Validator
	processor   processor
	botUsername string
}

func NewDispatcher(gate *Gate, validator *commands.Validator, p processor, botUsername string) *Dispatcher {
	return &Dispatcher{
		gate:        gate,
		validator:   validator,
		processor:   p,
		botUsername: botUsername,
	}
}

// HandlerFunc adapts the dispatcher to the bot's polling loop.
func (d *Dispatcher) HandlerFunc() bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if err := d.Dispatch(ctx, b, update); err != nil {
			logging.Error("failed to handle update", "error", err)
		}
	}
}

// Dispatch handles one update to completion. Every recognized command ends in
// a reply; a panic is recovered, answered and returned as an error. Work runs
// detached from ctx cancellation so a caller hanging up still gets its reply.
func (d *Dispatcher) Dispatch(ctx context.Context, s Sender, update *models.Update) (err error) {

	ctx = context.WithoutCancel(ctx)

	var (
		replyTo *models.Message
		inv     commands.Invocation
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
			if replyTo != nil {
				replyAfterPanic(ctx, s, replyTo, inv)
			}
		}
	}()

	message, err := getMessage(update)

	if err != nil {
		logging.Debug("skipping update", "reason", err)
		return nil
	}

	command, args, ok := commands.Lookup(message.Text, d.botUsername)

	if !ok {
		return nil
	}

	replyTo = message

	reqID := xid.New().String()

	logging.Info("command received", "request", reqID, "command", string(command), "chat", message.Chat.ID, "user", username(message))

	if !d.gate.Allows(message) {
		logging.Warn("command from unauthorized chat", "request", reqID, "chat", message.Chat.ID)
		reply(ctx, s, message, restrictedText)
		return nil
	}

	switch command {
	case commands.Start, commands.Help:
		reply(ctx, s, message, helpText)
		return nil
	}

	inv, err = d.validator.Invocation(command, args)

	if err != nil {
		logging.Info("invalid item id", "request", reqID, "args", args)
		reply(ctx, s, message, usageText(command))
		return nil
	}

	_, err = s.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: message.Chat.ID,
		Action: models.ChatActionUploadPhoto,
	})

	if err != nil {
		logging.Debug("failed to send chat action", "request", reqID, "error", err)
	}

	png, err := d.processor.Run(ctx, inv)

	respond(ctx, s, message, inv, png, err)

	logging.Info("command handled", "request", reqID, "item", inv.ItemID, "ok", err == nil)

	return nil
}

// replyAfterPanic sends the generic failure text. A second panic is swallowed.
func replyAfterPanic(ctx context.Context, s Sender, message *models.Message, inv commands.Invocation) {

	defer func() {
		if r := recover(); r != nil {
			logging.Error("failed to reply after panic", "chat", message.Chat.ID, "panic", fmt.Sprint(r))
		}
	}()

	reply(ctx, s, message, failureText(inv, nil))
}

func getMessage(update *models.Update) (*models.Message, error) {

	if update == nil {
		return nil, fmt.Errorf("empty update")
	}

	if update.Message != nil {
		return update.Message, nil
	}

	return nil, fmt.Errorf("no message found in update")
}

func username(message *models.Message) string {
	if message.From == nil {
		return ""
	}
	return message.From.Username
}
