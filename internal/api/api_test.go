package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/recallflash/internal/api"
	"github.com/vytor/recallflash/internal/models"
	"github.com/vytor/recallflash/internal/repository/sqlite"
	"github.com/vytor/recallflash/internal/services"
	"github.com/vytor/recallflash/internal/session"
	"github.com/vytor/recallflash/internal/testutil"
	"github.com/vytor/recallflash/internal/testutil/mocks"
	"github.com/vytor/recallflash/internal/worker"
)

type APITestSuite struct {
	suite.Suite
	server    *httptest.Server
	generator *mocks.MockGenerator
	pool      *worker.Pool
	cleanup   func()
}

func (s *APITestSuite) SetupTest() {
	sqlDB := testutil.NewTestDB(s.T())
	clk := testutil.FixedClock()
	s.generator = new(mocks.MockGenerator)
	// Never started, so submitted jobs stay queued.
	s.pool = worker.NewPool("generation", 1, 4)

	cards := sqlite.NewCardRepository(sqlDB)
	materials := sqlite.NewMaterialRepository(sqlDB)
	decks := services.NewDeckService(cards, materials, s.generator, clk)

	srv := &api.Server{
		DB:              sqlDB,
		MaterialService: services.NewMaterialService(materials, sqlite.NewStatsRepository(sqlDB), nil, clk),
		DeckService:     decks,
		SessionService:  services.NewSessionService(decks, cards, clk, 0),
		GenerationPool:  s.pool,
	}
	s.server = httptest.NewServer(srv.Routes())
	s.cleanup = func() {
		s.server.Close()
		s.pool.Stop()
		testutil.MustClose(s.T(), sqlDB)
	}
}

func (s *APITestSuite) TearDownTest() {
	s.cleanup()
}

func (s *APITestSuite) do(method, path string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *APITestSuite) decode(resp *http.Response, dst any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(dst))
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *APITestSuite) expectError(resp *http.Response, status int, code string) {
	s.Equal(status, resp.StatusCode)
	var body errorBody
	s.decode(resp, &body)
	s.Equal(code, body.Error.Code)
}

func (s *APITestSuite) createMaterial() models.Material {
	resp := s.do(http.MethodPost, "/materials", models.MaterialInput{
		Title:   "Cells",
		Subject: "biology",
		Content: "Cells are the basic unit of life.",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var m models.Material
	s.decode(resp, &m)
	return m
}

func (s *APITestSuite) stubGenerator() {
	s.generator.On("GenerateCards", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]models.GeneratedCard{
		{Front: "What is a cell?", Back: "Basic unit of life", Difficulty: models.DifficultyEasy},
		{Front: "What holds DNA?", Back: "Nucleus", Difficulty: models.DifficultyMedium},
		{Front: "What makes ATP?", Back: "Mitochondria", Difficulty: models.DifficultyHard},
	}, nil).Once()
}

func (s *APITestSuite) TestHealthAndReady() {
	resp := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/ready", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("X-Request-ID"))
	var ready map[string]any
	s.decode(resp, &ready)
	s.Equal("ready", ready["status"])
	s.EqualValues(0, ready["generation_queue"])
}

func (s *APITestSuite) TestReadyReportsPendingGeneration() {
	s.Require().NoError(s.pool.Submit(&worker.GenerateDeckJob{Decks: new(mocks.MockDeckLoader), MaterialID: 1}))

	var ready map[string]any
	s.decode(s.do(http.MethodGet, "/ready", nil), &ready)

	s.EqualValues(1, ready["generation_queue"])
	s.EqualValues(0, ready["sessions"])
}

func (s *APITestSuite) TestMaterialCRUD() {
	m := s.createMaterial()
	s.NotZero(m.ID)
	s.Equal("Cells", m.Title)

	var list []models.Material
	s.decode(s.do(http.MethodGet, "/materials", nil), &list)
	s.Len(list, 1)

	resp := s.do(http.MethodDelete, "/materials/"+itoa(m.ID), nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	s.expectError(s.do(http.MethodGet, "/materials/"+itoa(m.ID), nil), http.StatusNotFound, "NOT_FOUND")
}

func (s *APITestSuite) TestCreateMaterialValidation() {
	s.expectError(s.do(http.MethodPost, "/materials", models.MaterialInput{Title: "x"}), http.StatusBadRequest, "VALIDATION_ERROR")
	s.expectError(s.do(http.MethodPost, "/materials", map[string]any{"bogus": 1}), http.StatusBadRequest, "BAD_REQUEST")
	s.expectError(s.do(http.MethodGet, "/materials/abc", nil), http.StatusBadRequest, "BAD_REQUEST")
}

func (s *APITestSuite) TestDeckGeneratedOnce() {
	m := s.createMaterial()
	s.stubGenerator()

	var deck []models.Card
	s.decode(s.do(http.MethodGet, "/materials/"+itoa(m.ID)+"/deck", nil), &deck)
	s.Len(deck, 3)

	s.decode(s.do(http.MethodGet, "/materials/"+itoa(m.ID)+"/deck", nil), &deck)
	s.Len(deck, 3)

	var due []models.Card
	s.decode(s.do(http.MethodGet, "/materials/"+itoa(m.ID)+"/due", nil), &due)
	s.Len(due, 3)

	var raw []map[string]any
	s.decode(s.do(http.MethodGet, "/materials/"+itoa(m.ID)+"/due", nil), &raw)
	s.Require().Len(raw, 3)
	s.Equal("2024-01-10", raw[0]["next_review"])
	s.generator.AssertNumberOfCalls(s.T(), "GenerateCards", 1)
}

func (s *APITestSuite) TestReviewSession() {
	m := s.createMaterial()
	s.stubGenerator()

	resp := s.do(http.MethodPost, "/sessions", map[string]any{"material_id": m.ID})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var started struct {
		ID      string           `json:"id"`
		Session session.Snapshot `json:"session"`
	}
	s.decode(resp, &started)
	s.Require().NotEmpty(started.ID)
	s.Equal(session.StatePresenting, started.Session.State)
	s.Require().NotNil(started.Session.Card)
	s.Empty(started.Session.Card.Back)

	base := "/sessions/" + started.ID

	s.expectError(s.do(http.MethodPost, base+"/answer", map[string]any{"correct": true}), http.StatusConflict, "CONFLICT")

	var snap session.Snapshot
	s.decode(s.do(http.MethodPost, base+"/reveal", nil), &snap)
	s.True(snap.Revealed)
	s.NotEmpty(snap.Card.Back)

	s.expectError(s.do(http.MethodPost, base+"/answer", map[string]any{}), http.StatusBadRequest, "VALIDATION_ERROR")

	s.decode(s.do(http.MethodPost, base+"/answer", map[string]any{"correct": true}), &snap)
	s.Equal(session.StatePresenting, snap.State)
	s.Equal(1, snap.Stats.Correct)
	s.Equal(1, snap.Stats.Total)
	s.InDelta(100.0, snap.Stats.Accuracy, 0.0001)
	s.Equal(1, snap.Pointer)

	var stats models.DeckStats
	s.decode(s.do(http.MethodGet, "/materials/"+itoa(m.ID)+"/stats", nil), &stats)
	s.Equal(3, stats.TotalCards)
	s.Equal(2, stats.CardsDue)
	s.Equal(1, stats.TotalReviews)

	s.decode(s.do(http.MethodPost, base+"/reset", nil), &snap)
	s.Equal(0, snap.Stats.Total)
	s.Equal(0, snap.Pointer)

	resp = s.do(http.MethodDelete, base, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	s.expectError(s.do(http.MethodGet, base, nil), http.StatusNotFound, "NOT_FOUND")
}

func (s *APITestSuite) TestSessionForEmptyMaterial() {
	m := s.createMaterial()
	s.generator.On("GenerateCards", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]models.GeneratedCard{}, nil)

	resp := s.do(http.MethodPost, "/sessions", map[string]any{"material_id": m.ID})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var started struct {
		Session session.Snapshot `json:"session"`
	}
	s.decode(resp, &started)
	s.Equal(session.StateNoCards, started.Session.State)
	s.Nil(started.Session.Card)
}

func (s *APITestSuite) TestSessionForUnknownMaterial() {
	s.expectError(s.do(http.MethodPost, "/sessions", map[string]any{"material_id": 404}), http.StatusNotFound, "NOT_FOUND")
	s.expectError(s.do(http.MethodPost, "/sessions", map[string]any{"material_id": 0}), http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
