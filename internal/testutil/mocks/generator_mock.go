package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/recallflash/internal/models"
)

// MockGenerator is a mock implementation of generator.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateCards(ctx context.Context, content, subject, title string) ([]models.GeneratedCard, error) {
	args := m.Called(ctx, content, subject, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GeneratedCard), args.Error(1)
}
