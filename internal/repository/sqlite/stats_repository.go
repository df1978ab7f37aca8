package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
	"github.com/vytor/recallflash/internal/repository"
)

// A card counts as mastered once it has reached the one-week interval.
const masteredStreak = 3

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) DeckStats(ctx context.Context, materialID int64, today time.Time) (*models.DeckStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching deck stats: material_id=%d", materialID)

	stat := models.DeckStats{MaterialID: materialID}

	cardsQuery, args, err := sqlBuilder.
		Select("COUNT(*)").
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN next_review <= ? THEN 1 ELSE 0 END), 0)", formatDate(today))).
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN correct_streak >= ? THEN 1 ELSE 0 END), 0)", masteredStreak)).
		Column("COALESCE(SUM(CASE WHEN review_count > 0 AND correct_streak = 0 THEN 1 ELSE 0 END), 0)").
		Column("COALESCE(SUM(review_count), 0)").
		Column("COALESCE(AVG(correct_streak), 0)").
		From("cards").
		Where(squirrel.Eq{"material_id": materialID}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	err = r.db.QueryRowContext(ctx, cardsQuery, args...).Scan(
		&stat.TotalCards,
		&stat.CardsDue,
		&stat.CardsMastered,
		&stat.CardsStruggling,
		&stat.TotalReviews,
		&stat.AvgStreak,
	)
	if err != nil {
		log.Error("failed to get card stats: %v", err)
		return nil, err
	}

	historyQuery, args, err := sqlBuilder.
		Select(
			"COUNT(h.id)",
			"COALESCE(SUM(h.correct), 0)",
		).
		From("review_history h").
		Join("cards c ON c.id = h.card_id").
		Where(squirrel.Eq{"c.material_id": materialID}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	var answered, correct int
	if err := r.db.QueryRowContext(ctx, historyQuery, args...).Scan(&answered, &correct); err != nil {
		log.Error("failed to get review history stats: %v", err)
		return nil, err
	}
	if answered > 0 {
		stat.OverallAccuracy = float64(correct) / float64(answered) * 100
	}

	return &stat, nil
}
