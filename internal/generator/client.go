package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
)

// HTTPGenerator calls a text-generation service that returns cards as JSON.
type HTTPGenerator struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	batchSize  int
}

type Options struct {
	Endpoint  string
	APIKey    string
	Timeout   time.Duration
	BatchSize int
}

func New(opts Options) *HTTPGenerator {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 15
	}
	return &HTTPGenerator{
		httpClient: &http.Client{Timeout: opts.Timeout},
		endpoint:   opts.Endpoint,
		apiKey:     opts.APIKey,
		batchSize:  opts.BatchSize,
	}
}

type generateRequest struct {
	Content string `json:"content"`
	Subject string `json:"subject"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
}

type rawCard struct {
	Front      string `json:"front"`
	Back       string `json:"back"`
	Difficulty string `json:"difficulty"`
}

type generateResponse struct {
	Cards []rawCard `json:"cards"`
}

func (g *HTTPGenerator) GenerateCards(ctx context.Context, content, subject, title string) ([]models.GeneratedCard, error) {
	log := logger.FromContext(ctx).WithPrefix("generator").WithField("title", title)
	if g == nil || g.endpoint == "" {
		return nil, ErrGeneratorDisabled
	}

	body, err := json.Marshal(generateRequest{
		Content: content,
		Subject: subject,
		Title:   title,
		Count:   g.batchSize,
	})
	if err != nil {
		return nil, err
	}

	log.Debug("requesting %d cards from %s", g.batchSize, g.endpoint)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("generation request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("generation response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("generation request failed: status=%d, body=%s", resp.StatusCode, string(msg))
		return nil, fmt.Errorf("generator status %d: %s", resp.StatusCode, string(msg))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode generation response: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}

	cards, err := normalize(out.Cards)
	if err != nil {
		log.Error("rejecting generated batch: %v", err)
		return nil, err
	}

	log.Info("generated %d cards", len(cards))
	return cards, nil
}

// normalize validates every card; one bad card rejects the batch.
func normalize(raw []rawCard) ([]models.GeneratedCard, error) {
	cards := make([]models.GeneratedCard, 0, len(raw))
	for i, rc := range raw {
		front := strings.TrimSpace(rc.Front)
		back := strings.TrimSpace(rc.Back)
		if front == "" || back == "" {
			return nil, fmt.Errorf("%w: card %d has empty front or back", ErrMalformedBatch, i)
		}
		difficulty, err := models.ParseDifficulty(rc.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", ErrMalformedBatch, i, err)
		}
		cards = append(cards, models.GeneratedCard{Front: front, Back: back, Difficulty: difficulty})
	}
	return cards, nil
}
