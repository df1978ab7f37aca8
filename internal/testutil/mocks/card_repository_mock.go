package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/recallflash/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) ListByMaterial(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error) {
	args := m.Called(ctx, cards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockCardRepository) UpdateSchedule(ctx context.Context, id int64, sched models.Schedule, expectedReviewCount int) (*models.Card, error) {
	args := m.Called(ctx, id, sched, expectedReviewCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) InsertReviewHistory(ctx context.Context, h models.ReviewHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}
