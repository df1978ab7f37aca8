package session

import (
	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/models"
)

// Snapshot is a read-only view of a session for the presentation layer.
type Snapshot struct {
	State       State     `json:"state"`
	MaterialID  int64     `json:"material_id"`
	Pointer     int       `json:"pointer"`
	QueueLength int       `json:"queue_length"`
	Revealed    bool      `json:"revealed"`
	Card        *CardView `json:"card,omitempty"`
	Stats       StatsView `json:"stats"`
}

// CardView hides the back of the card until it has been revealed.
type CardView struct {
	ID            int64             `json:"id"`
	Front         string            `json:"front"`
	Back          string            `json:"back,omitempty"`
	Difficulty    models.Difficulty `json:"difficulty"`
	CorrectStreak int               `json:"correct_streak"`
	ReviewCount   int               `json:"review_count"`
	NextReview    string            `json:"next_review"`
	Due           bool              `json:"due"`
}

type StatsView struct {
	Stats
	Accuracy float64 `json:"accuracy"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:       c.state,
		MaterialID:  c.materialID,
		Pointer:     c.pointer,
		QueueLength: len(c.queue),
		Revealed:    c.revealed,
		Stats:       StatsView{Stats: c.stats, Accuracy: c.stats.Accuracy()},
	}
	if card, ok := c.current(); ok {
		view := &CardView{
			ID:            card.ID,
			Front:         card.Front,
			Difficulty:    card.Difficulty,
			CorrectStreak: card.CorrectStreak,
			ReviewCount:   card.ReviewCount,
			NextReview:    clock.Format(card.NextReview),
			Due:           card.IsDue(c.clock.Today()),
		}
		if c.revealed {
			view.Back = card.Back
		}
		snap.Card = view
	}
	return snap
}
