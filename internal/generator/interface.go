package generator

import (
	"context"
	"errors"

	"github.com/vytor/recallflash/internal/models"
)

var (
	// ErrGeneratorDisabled is returned when no generator endpoint is configured.
	ErrGeneratorDisabled = errors.New("card generator is not configured")
	// ErrMalformedBatch is returned when the generator response cannot be used as a whole.
	ErrMalformedBatch = errors.New("malformed card batch")
)

// Generator produces card content from source material.
type Generator interface {
	GenerateCards(ctx context.Context, content, subject, title string) ([]models.GeneratedCard, error)
}

// Ensure HTTPGenerator implements the interface
var _ Generator = (*HTTPGenerator)(nil)
