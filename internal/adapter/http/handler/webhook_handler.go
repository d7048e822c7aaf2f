package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/logger"
)

// MaxWebhookBodyBytes bounds a gateway payload; media arrives base64 encoded inline.
const MaxWebhookBodyBytes = 32 << 20

// EventHandler processes one normalized gateway event.
type EventHandler interface {
	Handle(ctx context.Context, ev *domain.InboundEvent) error
}

// WebhookConfig for WebhookHandler.
type WebhookConfig struct {
	Events EventHandler
	Logger zerolog.Logger
	// Async acknowledges the gateway at once and processes the event in the background.
	Async bool
	// ProcessTimeout bounds background processing. Zero means no bound.
	ProcessTimeout time.Duration
}

// WebhookHandler receives gateway events.
type WebhookHandler struct {
	events  EventHandler
	logger  zerolog.Logger
	async   bool
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	return &WebhookHandler{
		events:  cfg.Events,
		logger:  cfg.Logger,
		async:   cfg.Async,
		timeout: cfg.ProcessTimeout,
	}
}

// Receive decodes a gateway payload and hands it to the event use case.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxWebhookBodyBytes)

	var payload dto.WebhookEvent
	if err := jsonDecoder(r).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}

	ev := payload.ToDomain()
	if ev == nil {
		writeJSON(w, http.StatusOK, dto.WebhookResponse{Status: "ignored"})
		return
	}

	log := h.logger.With().
		Str("event_id", ev.ID).
		Str("event", payload.Event).
		Str("channel", ev.Channel).
		Logger()

	if !h.async {
		if err := h.process(logger.WithContext(r.Context(), log), ev); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to process event", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, dto.WebhookResponse{Status: "success"})
		return
	}

	ctx := logger.WithContext(context.WithoutCancel(r.Context()), log)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		if h.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.timeout)
			defer cancel()
		}

		_ = h.process(ctx, ev)
	}()

	writeJSON(w, http.StatusAccepted, dto.WebhookResponse{Status: "accepted"})
}

// Wait blocks until background events finish.
func (h *WebhookHandler) Wait() {
	h.wg.Wait()
}

func (h *WebhookHandler) process(ctx context.Context, ev *domain.InboundEvent) error {
	log := logger.FromContext(ctx, h.logger)

	if err := h.events.Handle(ctx, ev); err != nil {
		log.Error().Err(err).Msg("webhook event failed")
		return err
	}

	log.Debug().Msg("webhook event processed")
	return nil
}
