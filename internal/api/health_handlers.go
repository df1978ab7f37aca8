package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/vytor/recallflash/internal/logger"
)

// handleHealth reports liveness and always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady returns 200 when the database answers a ping, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.checkDatabase(r.Context()); err != nil {
		log.Warn("readiness check failed - database: %v", err)
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
		return
	}

	body := map[string]any{"status": "ready"}
	if s.SessionService != nil {
		body["sessions"] = s.SessionService.Count()
	}
	if s.GenerationPool != nil {
		body["generation_queue"] = s.GenerationPool.QueueSize()
	}
	writeJSON(w, r, http.StatusOK, body)
}

var errDatabaseMissing = stderrors.New("database not configured")

func (s *Server) checkDatabase(ctx context.Context) error {
	if s.DB == nil {
		return errDatabaseMissing
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.DB.PingContext(ctx)
}
