package services

import (
	"context"
	stderrors "errors"
	"slices"
	"strconv"

	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/errors"
	"github.com/vytor/recallflash/internal/generator"
	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
	"github.com/vytor/recallflash/internal/repository"
	"golang.org/x/sync/singleflight"
)

// DeckService loads the ordered deck of a material, generating cards on first use.
type DeckService interface {
	LoadDeck(ctx context.Context, materialID int64) ([]models.Card, error)
	DueCards(ctx context.Context, materialID int64) ([]models.Card, error)
}

type deckService struct {
	cards     repository.CardRepository
	materials repository.MaterialRepository
	generator generator.Generator
	clock     clock.Clock
	flights   singleflight.Group
}

// NewDeckService creates a new DeckService
func NewDeckService(cards repository.CardRepository, materials repository.MaterialRepository, gen generator.Generator, clk clock.Clock) DeckService {
	return &deckService{
		cards:     cards,
		materials: materials,
		generator: gen,
		clock:     clk,
	}
}

func (s *deckService) LoadDeck(ctx context.Context, materialID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithField("material_id", materialID)
	log.Debug("loading deck")

	cards, err := s.cards.ListByMaterial(ctx, models.CardFilter{MaterialID: materialID})
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if len(cards) == 0 {
		cards, err = s.generate(ctx, materialID)
		if err != nil {
			return nil, err
		}
	}

	sortDeck(cards)
	log.Debug("deck loaded: %d cards", len(cards))
	return cards, nil
}

func (s *deckService) DueCards(ctx context.Context, materialID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithField("material_id", materialID)

	today := s.clock.Today()
	cards, err := s.cards.ListByMaterial(ctx, models.CardFilter{MaterialID: materialID, DueOn: &today})
	if err != nil {
		log.Error("failed to list due cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	sortDeck(cards)
	log.Debug("%d cards due", len(cards))
	return cards, nil
}

// generate fills an empty material with a generated batch and returns the stored cards.
// Concurrent callers for the same material share one generation. The shared
// work does not inherit the caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (s *deckService) generate(ctx context.Context, materialID int64) ([]models.Card, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(strconv.FormatInt(materialID, 10), func() (any, error) {
		return s.generateOnce(detached, materialID)
	})

	select {
	case <-ctx.Done():
		logger.FromContext(ctx).Debug("stopped waiting for generation of material %d: %v", materialID, ctx.Err())
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			logger.FromContext(ctx).Debug("joined in-flight generation for material %d", materialID)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		// Each caller sorts its own copy.
		return slices.Clone(res.Val.([]models.Card)), nil
	}
}

func (s *deckService) generateOnce(ctx context.Context, materialID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("deck").WithField("material_id", materialID)

	// Another flight may have filled the deck between our list and this call.
	existing, err := s.cards.ListByMaterial(ctx, models.CardFilter{MaterialID: materialID})
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	material, err := s.materials.Get(ctx, materialID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("material", materialID)
		}
		log.Error("failed to load material: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("deck empty, requesting generation")
	generated, err := s.generator.GenerateCards(ctx, material.Content, material.Subject, material.Title)
	if err != nil {
		log.Error("card generation failed: %v", err)
		return nil, errors.NewGenerationError(err)
	}
	if len(generated) == 0 {
		log.Warn("generator returned no cards")
		return []models.Card{}, nil
	}

	today := s.clock.Today()
	batch := make([]models.Card, 0, len(generated))
	for _, g := range generated {
		batch = append(batch, models.NewCard(materialID, g, today))
	}
	if _, err := s.cards.InsertBatch(ctx, batch); err != nil {
		log.Error("failed to store generated cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("stored %d generated cards", len(batch))

	cards, err := s.cards.ListByMaterial(ctx, models.CardFilter{MaterialID: materialID})
	if err != nil {
		log.Error("failed to re-list cards after generation: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

// sortDeck orders cards by due date; equal dates keep store order.
func sortDeck(cards []models.Card) {
	slices.SortStableFunc(cards, func(a, b models.Card) int {
		return a.NextReview.Compare(b.NextReview)
	})
}
