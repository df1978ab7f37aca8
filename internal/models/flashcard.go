package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vytor/recallflash/internal/clock"
)

// Difficulty is the generator's own rating of a card. The scheduler never reads it.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes s. An empty value means medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Card is a single front/back recall unit with its own review schedule.
type Card struct {
	ID            int64      `json:"id"`
	MaterialID    int64      `json:"material_id"`
	Front         string     `json:"front"`
	Back          string     `json:"back"`
	Difficulty    Difficulty `json:"difficulty"`
	CorrectStreak int        `json:"correct_streak"`
	ReviewCount   int        `json:"review_count"`
	NextReview    time.Time  `json:"next_review"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsDue reports whether the card should be reviewed on the given day.
func (c Card) IsDue(today time.Time) bool {
	return !c.NextReview.After(today)
}

// MarshalJSON writes next_review as a calendar date (YYYY-MM-DD).
func (c Card) MarshalJSON() ([]byte, error) {
	type plain Card
	return json.Marshal(struct {
		plain
		NextReview string `json:"next_review"`
	}{plain: plain(c), NextReview: clock.Format(c.NextReview)})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	type plain Card
	aux := struct {
		*plain
		NextReview string `json:"next_review"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.NextReview == "" {
		c.NextReview = time.Time{}
		return nil
	}
	date, err := clock.Parse(aux.NextReview)
	if err != nil {
		return fmt.Errorf("next_review: %w", err)
	}
	c.NextReview = date
	return nil
}

// Schedule is the subset of a card rewritten by an answer.
type Schedule struct {
	CorrectStreak int
	ReviewCount   int
	NextReview    time.Time
}

// Schedule returns the card's current scheduling fields.
func (c Card) Schedule() Schedule {
	return Schedule{
		CorrectStreak: c.CorrectStreak,
		ReviewCount:   c.ReviewCount,
		NextReview:    c.NextReview,
	}
}

// GeneratedCard is what the content generator produces for a material.
type GeneratedCard struct {
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	Difficulty Difficulty `json:"difficulty"`
}

// NewCard builds a fresh, immediately due card from generated content.
func NewCard(materialID int64, g GeneratedCard, today time.Time) Card {
	return Card{
		MaterialID:    materialID,
		Front:         g.Front,
		Back:          g.Back,
		Difficulty:    g.Difficulty,
		CorrectStreak: 0,
		ReviewCount:   0,
		NextReview:    today,
	}
}

type CardFilter struct {
	MaterialID int64
	// DueOn restricts the result to cards due on that day when non-nil.
	DueOn *time.Time
}

type ReviewHistory struct {
	ID           int64     `json:"id"`
	CardID       int64     `json:"card_id"`
	Correct      bool      `json:"correct"`
	IntervalDays int       `json:"interval_days"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}
