package worker

import (
	"context"

	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
)

// DeckLoader is the part of the deck service a background job needs.
type DeckLoader interface {
	LoadDeck(ctx context.Context, materialID int64) ([]models.Card, error)
}

// GenerateDeckJob loads a material's deck so that its cards are generated
// before the first session opens it.
type GenerateDeckJob struct {
	Decks      DeckLoader
	MaterialID int64
}

func (j *GenerateDeckJob) Name() string { return "generate_deck" }

func (j *GenerateDeckJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("material_id", j.MaterialID)
	cards, err := j.Decks.LoadDeck(ctx, j.MaterialID)
	if err != nil {
		return err
	}
	log.Info("deck ready with %d cards", len(cards))
	return nil
}
