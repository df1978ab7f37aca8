package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueDeckGeneration(materialID int64) error {
	args := m.Called(materialID)
	return args.Error(0)
}
