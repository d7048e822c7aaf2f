package extraction

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
)

// DefaultReleaseTimeout bounds the fire-and-forget release call.
const DefaultReleaseTimeout = 5 * time.Second

// VisionModel is a vision-capable model backend.
type VisionModel interface {
	// Generate sends the prompt and image and returns the raw completion text.
	Generate(ctx context.Context, prompt string, image []byte) (string, error)
	// Release asks the backend to free the model's resources.
	Release(ctx context.Context) error
}

// Extractor reads receipts through a VisionModel.
type Extractor struct {
	model          VisionModel
	beneficiary    string
	prompt         string
	releaseTimeout time.Duration
	logger         zerolog.Logger
}

// Config for Extractor.
type Config struct {
	Model          VisionModel
	Beneficiary    string
	ReleaseTimeout time.Duration
	Logger         zerolog.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(cfg Config) *Extractor {
	if cfg.ReleaseTimeout == 0 {
		cfg.ReleaseTimeout = DefaultReleaseTimeout
	}

	return &Extractor{
		model:          cfg.Model,
		beneficiary:    cfg.Beneficiary,
		prompt:         BuildPrompt(cfg.Beneficiary),
		releaseTimeout: cfg.ReleaseTimeout,
		logger:         cfg.Logger,
	}
}

// Extract reads one receipt image. Backend failures become Unavailable; the release
// signal is sent after every attempt and its failure is only logged.
func (e *Extractor) Extract(ctx context.Context, image []byte) domain.ExtractionResult {
	if len(image) == 0 {
		return domain.NotAReceipt("empty image")
	}

	defer e.release(ctx)

	raw, err := e.model.Generate(ctx, e.prompt, image)
	if err != nil {
		e.logger.Error().Err(err).Msg("vision model request failed")
		return domain.Unavailable(err.Error())
	}

	result := Parse(raw, e.beneficiary)
	if result.Status == domain.ExtractionParseError {
		e.logger.Warn().Str("reason", result.Reason).Str("raw", truncate(raw, 80)).Msg("unreadable model output")
	}

	return result
}

func (e *Extractor) release(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.releaseTimeout)
	defer cancel()

	if err := e.model.Release(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("failed to release model resources")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
