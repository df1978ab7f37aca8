package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/recallflash/internal/models"
)

// MockDeckLoader is a mock implementation of session.DeckLoader and services.DeckService
type MockDeckLoader struct {
	mock.Mock
}

func (m *MockDeckLoader) LoadDeck(ctx context.Context, materialID int64) ([]models.Card, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockDeckLoader) DueCards(ctx context.Context, materialID int64) ([]models.Card, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}
