package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"scristobal/astcbot/commands"
	"scristobal/astcbot/failure"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentPhoto struct {
	caption  string
	filename string
	data     []byte
}

type fakeSender struct {
	mu       sync.Mutex
	texts    []string
	photos   []sentPhoto
	actions  []models.ChatAction
	photoErr error
}

func (s *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, params.Text)
	return &models.Message{}, nil
}

func (s *fakeSender) SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.photoErr != nil {
		return nil, s.photoErr
	}

	upload := params.Photo.(*models.InputFileUpload)
	data, _ := io.ReadAll(upload.Data)
	s.photos = append(s.photos, sentPhoto{caption: params.Caption, filename: upload.Filename, data: data})
	return &models.Message{}, nil
}

func (s *fakeSender) SendChatAction(_ context.Context, params *bot.SendChatActionParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, params.Action)
	return true, nil
}

type fakeProcessor struct {
	out    []byte
	err    error
	calls  []commands.Invocation
	panic  bool
	ctxErr error
}

func (p *fakeProcessor) Run(ctx context.Context, inv commands.Invocation) ([]byte, error) {
	if p.panic {
		panic("decoder exploded")
	}
	p.ctxErr = ctx.Err()
	p.calls = append(p.calls, inv)
	return p.out, p.err
}

const groupID int64 = -1002699301861

func newDispatcher(t *testing.T, p *fakeProcessor, allowed ...int64) *Dispatcher {
	t.Helper()

	v, err := commands.NewValidator(commands.DefaultIDPattern)
	require.NoError(t, err)

	return NewDispatcher(NewGate(allowed), v, p, "astc_bot")
}

func textUpdate(chatID int64, text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   10,
			Text: text,
			Chat: models.Chat{ID: chatID},
			From: &models.User{ID: 99, Username: "player"},
		},
	}
}

func TestDispatchLiveSuccess(t *testing.T) {
	p := &fakeProcessor{out: []byte("PNG")}
	s := &fakeSender{}

	err := newDispatcher(t, p).Dispatch(context.Background(), s, textUpdate(groupID, "/live 710049001"))

	require.NoError(t, err)
	require.Len(t, s.photos, 1)
	assert.Contains(t, s.photos[0].caption, "Live")
	assert.Contains(t, s.photos[0].caption, "710049001")
	assert.Equal(t, "710049001.png", s.photos[0].filename)
	assert.Equal(t, []byte("PNG"), s.photos[0].data)
	assert.Equal(t, []models.ChatAction{models.ChatActionUploadPhoto}, s.actions)
	assert.Empty(t, s.texts)
	assert.Equal(t, []commands.Invocation{{Server: commands.LiveServer, ItemID: "710049001"}}, p.calls)
}

func TestDispatchAdvanceUsesAdvanceServer(t *testing.T) {
	p := &fakeProcessor{out: []byte("PNG")}
	s := &fakeSender{}

	require.NoError(t, newDispatcher(t, p).Dispatch(context.Background(), s, textUpdate(groupID, "/adv@astc_bot 710049001")))

	require.Len(t, p.calls, 1)
	assert.Equal(t, commands.AdvanceServer, p.calls[0].Server)
	assert.Equal(t, "✅ Advance Server 710049001", s.photos[0].caption)
}

func TestDispatchInvalidIDsNeverReachThePipeline(t *testing.T) {

	const (
		liveUsage = "Please provide a valid item ID (e.g. /live 710049001)"
		advUsage  = "Please provide a valid item ID (e.g. /adv 710049001)"
	)

	tests := []struct {
		text     string
		expected string
	}{
		{"/live", liveUsage},
		{"/live abc", liveUsage},
		{"/live 12345", liveUsage},
		{"/adv 7100490011", advUsage},
		{"/adv 71004900১", advUsage},
		{"/live ../../etc/passwd", liveUsage},
	}

	for _, tt := range tests {
		p := &fakeProcessor{}
		s := &fakeSender{}

		require.NoError(t, newDispatcher(t, p).Dispatch(context.Background(), s, textUpdate(groupID, tt.text)))

		assert.Empty(t, p.calls, tt.text)
		assert.Empty(t, s.actions, tt.text)
		assert.Equal(t, []string{tt.expected}, s.texts, tt.text)
	}
}

func TestDispatchFailureReplies(t *testing.T) {

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"not found", failure.New(failure.NotFound, "fetch", nil), "❌ Item 710049001 not found on Live server"},
		{"timeout", failure.New(failure.Timeout, "fetch", nil), "⌛ Timeout processing 710049001, please try again"},
		{"conversion", failure.New(failure.ConversionFailure, "convert", nil), "⚠️ Could not convert item 710049001 on Live server"},
		{"unknown", errors.New("boom"), "⚠️ Failed to process 710049001, please try again later"},
	}

	for _, tt := range tests {
		p := &fakeProcessor{err: tt.err}
		s := &fakeSender{}

		require.NoError(t, newDispatcher(t, p).Dispatch(context.Background(), s, textUpdate(groupID, "/live 710049001")))

		assert.Empty(t, s.photos, tt.name)
		assert.Equal(t, []string{tt.expected}, s.texts, tt.name)
	}
}

func TestDispatchNotFoundNamesAdvanceServer(t *testing.T) {
	p := &fakeProcessor{err: failure.New(failure.NotFound, "fetch", nil)}
	s := &fakeSender{}

	require.NoError(t, newDispatcher(t, p).Dispatch(context.Background(), s, textUpdate(groupID, "/adv 710049001")))

	assert.Equal(t, []string{"❌ Item 710049001 not found on Advance server"}, s.texts)
}

func TestDispatchPhotoRejectedFallsBackToText(t *testing.T) {

	errs := []error{
		errors.New("Bad Request: PHOTO_INVALID_DIMENSIONS"),
		fmt.Errorf("error do request for method sendPhoto: %w", context.DeadlineExceeded),
	}

	for _, photoErr := range errs {
		p := &fakeProcessor{out: []byte("PNG")}
		s := &fakeSender{photoErr: photoErr}

		require.NoError(t, newDispatcher(t, p).Dispatch(context.Background(), s, textUpdate(groupID, "/live 710049001")))

		assert.Equal(t, []string{"⚠️ Failed to process 710049001, please try again later"}, s.texts, photoErr.Error())
	}
}

func TestDispatchGate(t *testing.T) {
	p := &fakeProcessor{out: []byte("PNG")}

	s := &fakeSender{}
	require.NoError(t, newDispatcher(t, p, groupID).Dispatch(context.Background(), s, textUpdate(12345, "/live 710049001")))
	assert.Equal(t, []string{restrictedText}, s.texts)
	assert.Empty(t, p.calls)

	s = &fakeSender{}
	require.NoError(t, newDispatcher(t, p, groupID).Dispatch(context.Background(), s, textUpdate(12345, "just chatting")))
	assert.Empty(t, s.texts)

	s = &fakeSender{}
	require.NoError(t, newDispatcher(t, p, groupID).Dispatch(context.Background(), s, textUpdate(groupID, "/live 710049001")))
	assert.Len(t, s.photos, 1)

	s = &fakeSender{}
	require.NoError(t, newDispatcher(t, p, 99).Dispatch(context.Background(), s, textUpdate(12345, "/live 710049001")))
	assert.Len(t, s.photos, 1, "allowed user in any chat")
}

func TestDispatchHelp(t *testing.T) {
	for _, text := range []string{"/start", "/help@astc_bot"} {
		s := &fakeSender{}
		require.NoError(t, newDispatcher(t, &fakeProcessor{}).Dispatch(context.Background(), s, textUpdate(groupID, text)))
		require.Len(t, s.texts, 1)
		assert.Contains(t, s.texts[0], "/live <id>")
	}
}

func TestDispatchIgnoresNonCommands(t *testing.T) {
	d := newDispatcher(t, &fakeProcessor{})
	s := &fakeSender{}

	require.NoError(t, d.Dispatch(context.Background(), s, nil))
	require.NoError(t, d.Dispatch(context.Background(), s, &models.Update{ID: 2}))
	require.NoError(t, d.Dispatch(context.Background(), s, textUpdate(groupID, "hello")))
	require.NoError(t, d.Dispatch(context.Background(), s, textUpdate(groupID, "/live@other_bot 710049001")))

	assert.Empty(t, s.texts)
	assert.Empty(t, s.photos)
}

func TestDispatchRecoversPanics(t *testing.T) {
	s := &fakeSender{}

	err := newDispatcher(t, &fakeProcessor{panic: true}).Dispatch(context.Background(), s, textUpdate(groupID, "/live 710049001"))

	assert.ErrorContains(t, err, "decoder exploded")
	assert.Equal(t, []string{"⚠️ Failed to process 710049001, please try again later"}, s.texts)
	assert.Empty(t, s.photos)
}

func TestDispatchAnswersAfterCallerHangsUp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProcessor{err: failure.New(failure.NotFound, "fetch", nil)}
	s := &fakeSender{}

	require.NoError(t, newDispatcher(t, p).Dispatch(ctx, s, textUpdate(groupID, "/live 710049001")))

	assert.NoError(t, p.ctxErr)
	assert.Equal(t, []string{"❌ Item 710049001 not found on Live server"}, s.texts)

	p = &fakeProcessor{out: []byte("PNG")}
	s = &fakeSender{}

	require.NoError(t, newDispatcher(t, p).Dispatch(ctx, s, textUpdate(groupID, "/adv 710049001")))

	assert.Len(t, s.photos, 1)
}

func TestFailureTextWithoutItem(t *testing.T) {
	assert.Equal(t, "⚠️ Something went wrong, please try again later", failureText(commands.Invocation{}, nil))
}
