package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
	"github.com/vytor/recallflash/internal/repository"
)

var cardColumns = []string{
	"id", "material_id", "front", "back", "difficulty",
	"correct_streak", "review_count", "next_review", "created_at",
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func scanCard(s rowScanner) (models.Card, error) {
	var c models.Card
	var difficulty, nextReview string
	if err := s.Scan(&c.ID, &c.MaterialID, &c.Front, &c.Back, &difficulty,
		&c.CorrectStreak, &c.ReviewCount, &nextReview, &c.CreatedAt); err != nil {
		return c, err
	}
	c.Difficulty = models.Difficulty(difficulty)
	date, err := clock.Parse(nextReview)
	if err != nil {
		return c, fmt.Errorf("card %d: bad next_review %q: %w", c.ID, nextReview, err)
	}
	c.NextReview = date
	return c, nil
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) ListByMaterial(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: material_id=%d, due_filter=%t", filter.MaterialID, filter.DueOn != nil)

	query := sqlBuilder.Select(cardColumns...).
		From("cards").
		Where(squirrel.Eq{"material_id": filter.MaterialID})
	if filter.DueOn != nil {
		query = query.Where(squirrel.LtOrEq{"next_review": formatDate(*filter.DueOn)})
	}
	query = query.OrderBy("id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

const insertCardSQL = `
INSERT INTO cards (material_id, front, back, difficulty, correct_streak, review_count, next_review)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertCard(ctx context.Context, e execer, c models.Card) (int64, error) {
	difficulty := c.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	res, err := e.ExecContext(ctx, insertCardSQL,
		c.MaterialID, c.Front, c.Back, string(difficulty), c.CorrectStreak, c.ReviewCount, formatDate(c.NextReview))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: material_id=%d", c.MaterialID)

	id, err := insertCard(ctx, r.db, c)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card batch: count=%d", len(cards))

	ids := make([]int64, 0, len(cards))
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for i, c := range cards {
			id, err := insertCard(ctx, tx, c)
			if err != nil {
				return fmt.Errorf("insert card %d of %d: %w", i+1, len(cards), err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert card batch: %v", err)
		return nil, err
	}
	log.Debug("inserted %d cards", len(ids))
	return ids, nil
}

func (r *cardRepository) UpdateSchedule(ctx context.Context, id int64, sched models.Schedule, expectedReviewCount int) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card schedule: id=%d, streak=%d, reviews=%d, next_review=%s",
		id, sched.CorrectStreak, sched.ReviewCount, formatDate(sched.NextReview))

	res, err := r.db.ExecContext(ctx, `
UPDATE cards
SET correct_streak = ?, review_count = ?, next_review = ?
WHERE id = ? AND review_count = ?
`, sched.CorrectStreak, sched.ReviewCount, formatDate(sched.NextReview), id, expectedReviewCount)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read affected rows: %v", err)
		return nil, err
	}
	if n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		log.Warn("card %d changed since it was read (expected review_count=%d)", id, expectedReviewCount)
		return nil, repository.ErrConflict
	}
	return r.Get(ctx, id)
}

func (r *cardRepository) InsertReviewHistory(ctx context.Context, h models.ReviewHistory) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting review history: card_id=%d, correct=%t, interval=%d", h.CardID, h.Correct, h.IntervalDays)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO review_history (card_id, correct, interval_days, reviewed_at)
		VALUES (?, ?, ?, ?)
	`, h.CardID, h.Correct, h.IntervalDays, h.ReviewedAt.UTC())
	if err != nil {
		log.Error("failed to insert review history: %v", err)
	}
	return err
}
