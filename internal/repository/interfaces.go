package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/recallflash/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an optimistic update lost a race.
	ErrConflict = errors.New("concurrent modification")
)

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	// ListByMaterial returns cards in store order (ascending id).
	ListByMaterial(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	// InsertBatch creates all cards in one transaction; on error none are stored.
	InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error)
	// UpdateSchedule writes sched only if the stored review_count still equals
	// expectedReviewCount, and returns the updated card.
	UpdateSchedule(ctx context.Context, id int64, sched models.Schedule, expectedReviewCount int) (*models.Card, error)
	InsertReviewHistory(ctx context.Context, h models.ReviewHistory) error
}

// MaterialRepository handles material data access
type MaterialRepository interface {
	Get(ctx context.Context, id int64) (*models.Material, error)
	List(ctx context.Context) ([]models.Material, error)
	Insert(ctx context.Context, m models.Material) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// StatsRepository aggregates persisted review state
type StatsRepository interface {
	DeckStats(ctx context.Context, materialID int64, today time.Time) (*models.DeckStats, error)
}
