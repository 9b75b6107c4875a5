// Package server exposes the Telegram webhook, a liveness probe and metrics over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"scristobal/astcbot/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-telegram/bot/models"
)

const (
	secretHeader   = "X-Telegram-Bot-Api-Secret-Token"
	maxUpdateBytes = 1 << 20
)

// DispatchFunc handles one decoded update before the webhook call returns.
type DispatchFunc func(ctx context.Context, update *models.Update) error

type Options struct {
	Port        string
	WebhookPath string
	Secret      string
	Metrics     http.Handler
}

type Server struct {
	opts     Options
	dispatch DispatchFunc
}

func New(opts Options, dispatch DispatchFunc) *Server {
	return &Server{opts: opts, dispatch: dispatch}
}

func (s *Server) Handler() http.Handler {

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, "OK")
	})

	r.Get(s.opts.WebhookPath, func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, "Bot is running")
	})

	r.Post(s.opts.WebhookPath, s.webhook)

	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics)
	}

	return r
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {

	if s.opts.Secret != "" {
		got := r.Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.Secret)) != 1 {
			logging.Warn("webhook call with bad secret", "remote", r.RemoteAddr)
			write(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
	}

	var update models.Update

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&update)

	if err != nil {
		logging.Warn("can't decode webhook body", "error", err)
		write(w, http.StatusBadRequest, "Bad Request")
		return
	}

	err = s.dispatch(r.Context(), &update)

	if err != nil {
		logging.Error("webhook update failed", "update", update.ID, "error", err)
		write(w, http.StatusInternalServerError, "Error")
		return
	}

	write(w, http.StatusOK, "OK")
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", s.opts.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		logging.Info("http server listening", "addr", srv.Addr, "webhook", s.opts.WebhookPath)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	return nil
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
