package jobs

import (
	"github.com/vytor/recallflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	generationPool *worker.Pool
	decks          worker.DeckLoader
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(generationPool *worker.Pool, decks worker.DeckLoader) JobQueue {
	return &WorkerQueue{
		generationPool: generationPool,
		decks:          decks,
	}
}

func (q *WorkerQueue) EnqueueDeckGeneration(materialID int64) error {
	return q.generationPool.Submit(&worker.GenerateDeckJob{
		Decks:      q.decks,
		MaterialID: materialID,
	})
}
