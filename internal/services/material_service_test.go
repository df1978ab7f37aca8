package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/recallflash/internal/errors"
	"github.com/vytor/recallflash/internal/models"
	"github.com/vytor/recallflash/internal/repository"
	"github.com/vytor/recallflash/internal/services"
	"github.com/vytor/recallflash/internal/testutil"
	"github.com/vytor/recallflash/internal/testutil/mocks"
	"github.com/vytor/recallflash/internal/worker"
)

func TestMaterialService_CreateValidates(t *testing.T) {
	svc := services.NewMaterialService(new(mocks.MockMaterialRepository), new(mocks.MockStatsRepository), nil, testutil.FixedClock())

	tests := []struct {
		name  string
		input models.MaterialInput
		field string
	}{
		{"empty title", models.MaterialInput{Title: "  ", Content: "text"}, "title"},
		{"empty content", models.MaterialInput{Title: "Cells", Content: "\n"}, "content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
			assert.Contains(t, appErr.Message, tt.field)
		})
	}
}

func TestMaterialService_CreateQueuesGeneration(t *testing.T) {
	materials := new(mocks.MockMaterialRepository)
	queue := new(mocks.MockJobQueue)
	created := &models.Material{ID: 4, Title: "Cells", Subject: "biology", Content: "text"}

	materials.On("Insert", mock.Anything, models.Material{Title: "Cells", Subject: "biology", Content: "text"}).Return(int64(4), nil)
	materials.On("Get", mock.Anything, int64(4)).Return(created, nil)
	queue.On("EnqueueDeckGeneration", int64(4)).Return(nil)

	svc := services.NewMaterialService(materials, new(mocks.MockStatsRepository), queue, testutil.FixedClock())
	got, err := svc.Create(context.Background(), models.MaterialInput{Title: " Cells ", Subject: "biology", Content: "text"})

	require.NoError(t, err)
	assert.Equal(t, created, got)
	queue.AssertExpectations(t)
}

func TestMaterialService_CreateToleratesFullQueue(t *testing.T) {
	materials := new(mocks.MockMaterialRepository)
	queue := new(mocks.MockJobQueue)

	materials.On("Insert", mock.Anything, mock.Anything).Return(int64(4), nil)
	materials.On("Get", mock.Anything, int64(4)).Return(&models.Material{ID: 4}, nil)
	queue.On("EnqueueDeckGeneration", int64(4)).Return(worker.ErrQueueFull)

	svc := services.NewMaterialService(materials, new(mocks.MockStatsRepository), queue, testutil.FixedClock())
	_, err := svc.Create(context.Background(), models.MaterialInput{Title: "Cells", Content: "text"})

	assert.NoError(t, err)
}

func TestMaterialService_GetNotFound(t *testing.T) {
	materials := new(mocks.MockMaterialRepository)
	materials.On("Get", mock.Anything, int64(8)).Return(nil, repository.ErrNotFound)

	svc := services.NewMaterialService(materials, new(mocks.MockStatsRepository), nil, testutil.FixedClock())
	_, err := svc.Get(context.Background(), 8)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestMaterialService_DeleteErrors(t *testing.T) {
	materials := new(mocks.MockMaterialRepository)
	materials.On("Delete", mock.Anything, int64(8)).Return(repository.ErrNotFound)
	materials.On("Delete", mock.Anything, int64(9)).Return(errors.New("locked"))

	svc := services.NewMaterialService(materials, new(mocks.MockStatsRepository), nil, testutil.FixedClock())

	appErr, ok := apperrors.AsAppError(svc.Delete(context.Background(), 8))
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)

	appErr, ok = apperrors.AsAppError(svc.Delete(context.Background(), 9))
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
}

func TestMaterialService_Stats(t *testing.T) {
	materials := new(mocks.MockMaterialRepository)
	stats := new(mocks.MockStatsRepository)
	want := &models.DeckStats{MaterialID: 2, TotalCards: 5, CardsDue: 3}

	materials.On("Get", mock.Anything, int64(2)).Return(&models.Material{ID: 2}, nil)
	stats.On("DeckStats", mock.Anything, int64(2), testutil.Today).Return(want, nil)

	svc := services.NewMaterialService(materials, stats, nil, testutil.FixedClock())
	got, err := svc.Stats(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
