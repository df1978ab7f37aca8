package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/errors"
	"github.com/vytor/recallflash/internal/jobs"
	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
	"github.com/vytor/recallflash/internal/repository"
)

// MaterialService handles material-related business logic
type MaterialService interface {
	Create(ctx context.Context, in models.MaterialInput) (*models.Material, error)
	Get(ctx context.Context, id int64) (*models.Material, error)
	List(ctx context.Context) ([]models.Material, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (*models.DeckStats, error)
}

type materialService struct {
	materials repository.MaterialRepository
	stats     repository.StatsRepository
	jobQueue  jobs.JobQueue
	clock     clock.Clock
}

// NewMaterialService creates a new MaterialService. jobQueue may be nil, in
// which case decks are generated lazily on first load.
func NewMaterialService(materials repository.MaterialRepository, stats repository.StatsRepository, jobQueue jobs.JobQueue, clk clock.Clock) MaterialService {
	return &materialService{
		materials: materials,
		stats:     stats,
		jobQueue:  jobQueue,
		clock:     clk,
	}
}

func (s *materialService) Create(ctx context.Context, in models.MaterialInput) (*models.Material, error) {
	log := logger.FromContext(ctx)

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, errors.NewValidationError("content", "cannot be empty")
	}
	log.Debug("creating material: title=%s", title)

	material := models.Material{
		Title:   title,
		Subject: strings.TrimSpace(in.Subject),
		Content: in.Content,
	}
	id, err := s.materials.Insert(ctx, material)
	if err != nil {
		log.Error("failed to insert material: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if s.jobQueue != nil {
		if err := s.jobQueue.EnqueueDeckGeneration(id); err != nil {
			log.Warn("could not queue deck generation for material %d: %v", id, err)
		}
	}

	created, err := s.materials.Get(ctx, id)
	if err != nil {
		log.Error("failed to reload material: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return created, nil
}

func (s *materialService) Get(ctx context.Context, id int64) (*models.Material, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting material: id=%d", id)

	material, err := s.materials.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("material", id)
		}
		log.Error("failed to get material: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return material, nil
}

func (s *materialService) List(ctx context.Context) ([]models.Material, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing materials")

	materials, err := s.materials.List(ctx)
	if err != nil {
		log.Error("failed to list materials: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return materials, nil
}

func (s *materialService) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Info("deleting material: id=%d", id)

	if err := s.materials.Delete(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("material", id)
		}
		log.Error("failed to delete material: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *materialService) Stats(ctx context.Context, id int64) (*models.DeckStats, error) {
	log := logger.FromContext(ctx)

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	stats, err := s.stats.DeckStats(ctx, id, s.clock.Today())
	if err != nil {
		log.Error("failed to compute deck stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}
