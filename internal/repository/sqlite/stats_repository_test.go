package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/models"
	"github.com/vytor/recallflash/internal/repository"
	"github.com/vytor/recallflash/internal/repository/sqlite"
	"github.com/vytor/recallflash/internal/testutil"
)

type StatsRepositorySuite struct {
	suite.Suite
	db         *sql.DB
	cards      repository.CardRepository
	stats      repository.StatsRepository
	materialID int64
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.cards = sqlite.NewCardRepository(s.db)
	s.stats = sqlite.NewStatsRepository(s.db)
	s.materialID = testutil.InsertMaterial(s.T(), s.db, "Stats")
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsRepositorySuite) TestDeckStats_Empty() {
	stat, err := s.stats.DeckStats(context.Background(), s.materialID, testutil.Today)
	s.Require().NoError(err)
	s.Assert().Equal(s.materialID, stat.MaterialID)
	s.Assert().Zero(stat.TotalCards)
	s.Assert().Zero(stat.OverallAccuracy)
}

func (s *StatsRepositorySuite) TestDeckStats() {
	ctx := context.Background()
	cards := []models.Card{
		{MaterialID: s.materialID, Front: "new", Back: "b", NextReview: testutil.Today},
		{MaterialID: s.materialID, Front: "mastered", Back: "b", CorrectStreak: 4, ReviewCount: 4, NextReview: clock.AddDays(testutil.Today, 14)},
		{MaterialID: s.materialID, Front: "struggling", Back: "b", CorrectStreak: 0, ReviewCount: 3, NextReview: clock.AddDays(testutil.Today, -1)},
	}
	ids, err := s.cards.InsertBatch(ctx, cards)
	s.Require().NoError(err)

	s.Require().NoError(s.cards.InsertReviewHistory(ctx, models.ReviewHistory{CardID: ids[1], Correct: true, IntervalDays: 14}))
	s.Require().NoError(s.cards.InsertReviewHistory(ctx, models.ReviewHistory{CardID: ids[2], Correct: false, IntervalDays: 1}))
	s.Require().NoError(s.cards.InsertReviewHistory(ctx, models.ReviewHistory{CardID: ids[2], Correct: true, IntervalDays: 1}))
	s.Require().NoError(s.cards.InsertReviewHistory(ctx, models.ReviewHistory{CardID: ids[2], Correct: false, IntervalDays: 1}))

	stat, err := s.stats.DeckStats(ctx, s.materialID, testutil.Today)
	s.Require().NoError(err)
	s.Assert().Equal(3, stat.TotalCards)
	s.Assert().Equal(2, stat.CardsDue)
	s.Assert().Equal(1, stat.CardsMastered)
	s.Assert().Equal(1, stat.CardsStruggling)
	s.Assert().Equal(7, stat.TotalReviews)
	s.Assert().InDelta(4.0/3.0, stat.AvgStreak, 0.001)
	s.Assert().InDelta(50.0, stat.OverallAccuracy, 0.001)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
