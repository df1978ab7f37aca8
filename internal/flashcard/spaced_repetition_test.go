package flashcard_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/flashcard"
	"github.com/vytor/recallflash/internal/models"
)

var today = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func TestNextInterval_IncorrectAlwaysResets(t *testing.T) {
	for streak := 0; streak <= 50; streak++ {
		newStreak, interval := flashcard.NextInterval(streak, false)
		assert.Equal(t, 0, newStreak, "streak=%d", streak)
		assert.Equal(t, 1, interval, "streak=%d", streak)
	}
}

func TestNextInterval_CorrectIncrementsStreak(t *testing.T) {
	for streak := 0; streak <= 50; streak++ {
		newStreak, _ := flashcard.NextInterval(streak, true)
		assert.Equal(t, streak+1, newStreak)
	}
}

func TestNextInterval_Sequence(t *testing.T) {
	expected := []int{1, 3, 7, 14, 28, 30, 30, 30, 30, 30}

	streak := 0
	for i, want := range expected {
		var interval int
		streak, interval = flashcard.NextInterval(streak, true)
		assert.Equal(t, want, interval, "answer #%d", i+1)
	}
}

func TestNextInterval_PlateauStartsAtStreakSix(t *testing.T) {
	_, interval := flashcard.NextInterval(4, true)
	assert.Equal(t, 28, interval)

	_, interval = flashcard.NextInterval(5, true)
	assert.Equal(t, flashcard.MaxIntervalDays, interval)

	_, interval = flashcard.NextInterval(1000, true)
	assert.Equal(t, flashcard.MaxIntervalDays, interval)
}

func TestNextInterval_HugeStreakStaysOnPlateau(t *testing.T) {
	newStreak, interval := flashcard.NextInterval(math.MaxInt, true)
	assert.Equal(t, math.MaxInt, newStreak)
	assert.Equal(t, flashcard.MaxIntervalDays, interval)

	newStreak, interval = flashcard.NextInterval(math.MaxInt-1, true)
	assert.Equal(t, math.MaxInt, newStreak)
	assert.Equal(t, flashcard.MaxIntervalDays, interval)
}

func TestNextInterval_NegativeStreakTreatedAsZero(t *testing.T) {
	newStreak, interval := flashcard.NextInterval(-3, true)
	assert.Equal(t, 1, newStreak)
	assert.Equal(t, 1, interval)
}

func TestApplyReview_NewCardThreeCorrect(t *testing.T) {
	card := models.Card{NextReview: today}

	tests := []struct {
		streak int
		offset int
	}{
		{1, 1},
		{2, 3},
		{3, 7},
	}

	for i, tt := range tests {
		card = flashcard.ApplyReview(card, true, today)
		assert.Equal(t, tt.streak, card.CorrectStreak)
		assert.Equal(t, i+1, card.ReviewCount)
		assert.Equal(t, clock.AddDays(today, tt.offset), card.NextReview)
	}
}

func TestApplyReview_IncorrectFromStreakFive(t *testing.T) {
	card := models.Card{CorrectStreak: 5, ReviewCount: 9, NextReview: today}

	updated := flashcard.ApplyReview(card, false, today)

	assert.Equal(t, 0, updated.CorrectStreak)
	assert.Equal(t, 10, updated.ReviewCount)
	assert.Equal(t, clock.AddDays(today, 1), updated.NextReview)
}

func TestApplyReview_ReviewCountIncrementsEitherWay(t *testing.T) {
	card := models.Card{}
	for i, correct := range []bool{true, false, false, true, true} {
		card = flashcard.ApplyReview(card, correct, today)
		assert.Equal(t, i+1, card.ReviewCount)
	}
}

func TestApplyReview_DeterministicOnCopies(t *testing.T) {
	start := models.Card{ID: 7, CorrectStreak: 2, ReviewCount: 4, NextReview: today}
	a, b := start, start

	a = flashcard.ApplyReview(a, true, today)
	b = flashcard.ApplyReview(b, true, today)

	assert.Equal(t, a.Schedule(), b.Schedule())
	assert.Equal(t, 2, start.CorrectStreak, "input must not be mutated")
}

func TestApplyReview_LeavesContentAlone(t *testing.T) {
	card := models.Card{ID: 3, MaterialID: 9, Front: "f", Back: "b", Difficulty: models.DifficultyHard}

	updated := flashcard.ApplyReview(card, true, today)

	assert.Equal(t, card.ID, updated.ID)
	assert.Equal(t, card.MaterialID, updated.MaterialID)
	assert.Equal(t, "f", updated.Front)
	assert.Equal(t, "b", updated.Back)
	assert.Equal(t, models.DifficultyHard, updated.Difficulty)
}
