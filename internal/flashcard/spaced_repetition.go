package flashcard

import (
	"math"
	"time"

	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/models"
)

// MaxIntervalDays is the plateau reached after enough consecutive correct answers.
const MaxIntervalDays = 30

// plateauStreak is the first streak whose interval is MaxIntervalDays.
const plateauStreak = 6

// NextInterval computes the streak and interval that follow an answer.
//
// A wrong answer resets the streak and schedules the card for tomorrow.
// Correct answers walk the table 1, 3, 7 days and then double from 7,
// capped at MaxIntervalDays.
func NextInterval(streak int, wasCorrect bool) (newStreak, intervalDays int) {
	if !wasCorrect {
		return 0, 1
	}
	if streak < 0 {
		streak = 0
	}
	// From here on the interval is pinned at MaxIntervalDays.
	if streak >= plateauStreak-1 {
		if streak < math.MaxInt {
			streak++
		}
		return streak, MaxIntervalDays
	}
	newStreak = streak + 1

	switch {
	case newStreak == 1:
		return newStreak, 1
	case newStreak == 2:
		return newStreak, 3
	case newStreak == 3:
		return newStreak, 7
	}

	interval := 7
	for i := 3; i < newStreak; i++ {
		interval *= 2
		if interval >= MaxIntervalDays {
			return newStreak, MaxIntervalDays
		}
	}
	return newStreak, interval
}

// ApplyReview returns card rescheduled after an answer given on today.
func ApplyReview(card models.Card, wasCorrect bool, today time.Time) models.Card {
	streak, interval := NextInterval(card.CorrectStreak, wasCorrect)

	card.CorrectStreak = streak
	card.ReviewCount++
	card.NextReview = clock.AddDays(today, interval)
	return card
}
