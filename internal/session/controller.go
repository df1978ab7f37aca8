// Package session runs one interactive review loop over a material's deck.
//
// A Controller walks a rotating pointer through the deck, reveals the back of
// the current card, persists the rescheduled card on every answer and reloads
// the deck afterwards so the presentation order follows the new due dates.
// The pointer wraps around: a session never ends on its own.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/flashcard"
	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
)

type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StatePresenting State = "presenting"
	StateRevealed   State = "revealed"
	StateAnswering  State = "answering"
	// StateNoCards means the deck is empty even after generation.
	StateNoCards State = "no_cards"
)

var (
	ErrInvalidState   = errors.New("operation not allowed in the current session state")
	ErrAnswerInFlight = errors.New("a previous answer is still being saved")
	ErrBusy           = errors.New("session is loading or saving")
)

// DeckLoader returns the ordered deck of a material.
type DeckLoader interface {
	LoadDeck(ctx context.Context, materialID int64) ([]models.Card, error)
}

// CardStore persists the outcome of an answer.
type CardStore interface {
	UpdateSchedule(ctx context.Context, id int64, sched models.Schedule, expectedReviewCount int) (*models.Card, error)
	InsertReviewHistory(ctx context.Context, h models.ReviewHistory) error
}

// Controller holds the state of one review session. It is safe for concurrent
// use; no lock is held while talking to the store or the deck loader.
type Controller struct {
	mu    sync.Mutex
	deck  DeckLoader
	store CardStore
	clock clock.Clock

	materialID int64
	state      State
	queue      []models.Card
	pointer    int
	revealed   bool
	stats      Stats
	lastActive time.Time
}

func NewController(deck DeckLoader, store CardStore, clk clock.Clock) *Controller {
	return &Controller{
		deck:       deck,
		store:      store,
		clock:      clk,
		state:      StateIdle,
		lastActive: clk.Now(),
	}
}

// Start loads the deck for materialID and presents its first card.
// On failure the session is left idle with an empty queue.
func (c *Controller) Start(ctx context.Context, materialID int64) error {
	log := logger.FromContext(ctx).WithPrefix("session").WithField("material_id", materialID)

	c.mu.Lock()
	if c.state == StateLoading || c.state == StateAnswering {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateLoading
	c.materialID = materialID
	c.touch()
	c.mu.Unlock()

	log.Debug("starting session")
	cards, err := c.deck.LoadDeck(ctx, materialID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pointer = 0
	c.revealed = false
	c.stats.Reset()
	if err != nil {
		log.Warn("failed to load deck: %v", err)
		c.queue = nil
		c.state = StateIdle
		return err
	}
	c.queue = cards
	if len(cards) == 0 {
		log.Info("material has no cards")
		c.state = StateNoCards
		return nil
	}
	c.state = StatePresenting
	log.Debug("session started with %d cards", len(cards))
	return nil
}

// Reveal shows the back of the current card.
func (c *Controller) Reveal() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePresenting {
		return ErrInvalidState
	}
	c.revealed = true
	c.state = StateRevealed
	c.touch()
	return nil
}

// Answer records whether the current card was recalled.
//
// The card is rescheduled and written to the store first. Only after the
// write succeeds are the stats updated, the pointer advanced and the deck
// reloaded. A failed write changes nothing, so the same call can be retried.
// A failed reload is tolerated and leaves the previous queue in place.
func (c *Controller) Answer(ctx context.Context, correct bool) error {
	log := logger.FromContext(ctx).WithPrefix("session")

	c.mu.Lock()
	switch c.state {
	case StateRevealed:
	case StateAnswering:
		c.mu.Unlock()
		return ErrAnswerInFlight
	default:
		c.mu.Unlock()
		return ErrInvalidState
	}
	card := c.queue[c.pointer]
	materialID := c.materialID
	c.state = StateAnswering
	c.touch()
	c.mu.Unlock()

	today := c.clock.Today()
	next := flashcard.ApplyReview(card, correct, today)
	log = log.WithFields(map[string]any{"card_id": card.ID, "correct": correct})
	log.Debug("saving answer: streak %d -> %d, next_review=%s",
		card.CorrectStreak, next.CorrectStreak, clock.Format(next.NextReview))

	if _, err := c.store.UpdateSchedule(ctx, card.ID, next.Schedule(), card.ReviewCount); err != nil {
		log.Warn("failed to save answer: %v", err)
		c.mu.Lock()
		c.state = StateRevealed
		c.mu.Unlock()
		return err
	}

	_, interval := flashcard.NextInterval(card.CorrectStreak, correct)
	if err := c.store.InsertReviewHistory(ctx, models.ReviewHistory{
		CardID:       card.ID,
		Correct:      correct,
		IntervalDays: interval,
		ReviewedAt:   c.clock.Now(),
	}); err != nil {
		log.Warn("failed to store review history: %v", err)
	}

	c.mu.Lock()
	c.stats.Record(correct)
	c.pointer = (c.pointer + 1) % len(c.queue)
	c.revealed = false
	c.mu.Unlock()

	cards, err := c.deck.LoadDeck(ctx, materialID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StatePresenting
	c.touch()
	if err != nil {
		log.Warn("deck refresh failed, keeping previous order: %v", err)
		return nil
	}
	c.setQueue(cards)
	return nil
}

// Refresh reloads the deck without touching stats. The pointer is kept
// when it is still in range.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StatePresenting, StateRevealed, StateNoCards:
	default:
		c.mu.Unlock()
		return ErrInvalidState
	}
	materialID := c.materialID
	prev := c.state
	c.state = StateLoading
	c.mu.Unlock()

	cards, err := c.deck.LoadDeck(ctx, materialID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if err != nil {
		c.state = prev
		return err
	}
	c.revealed = false
	c.state = StatePresenting
	c.setQueue(cards)
	return nil
}

// setQueue must be called with mu held.
func (c *Controller) setQueue(cards []models.Card) {
	c.queue = cards
	if len(cards) == 0 {
		c.pointer = 0
		c.revealed = false
		c.state = StateNoCards
		return
	}
	if c.pointer >= len(cards) {
		c.pointer = 0
	}
}

// Reset clears the stats and rewinds the pointer. The queue is kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Reset()
	c.pointer = 0
	c.revealed = false
	if c.state == StateRevealed {
		c.state = StatePresenting
	}
	c.touch()
}

// touch must be called with mu held.
func (c *Controller) touch() {
	c.lastActive = c.clock.Now()
}

// Current returns the card under the pointer.
func (c *Controller) Current() (models.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current()
}

func (c *Controller) current() (models.Card, bool) {
	if len(c.queue) == 0 || c.state == StateIdle || c.state == StateNoCards {
		return models.Card{}, false
	}
	return c.queue[c.pointer], true
}

func (c *Controller) Revealed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revealed
}

func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Pointer() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointer
}

func (c *Controller) MaterialID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.materialID
}

// Queue returns a copy of the current deck snapshot.
func (c *Controller) Queue() []models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Card, len(c.queue))
	copy(out, c.queue)
	return out
}

func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}
