package api

import (
	"database/sql"
	"time"

	"github.com/vytor/recallflash/internal/services"
	"github.com/vytor/recallflash/internal/worker"
)

type Server struct {
	DB              *sql.DB
	MaterialService services.MaterialService
	DeckService     services.DeckService
	SessionService  services.SessionService
	// GenerationPool is reported on /ready when set.
	GenerationPool *worker.Pool
	// RequestTimeout bounds every request; zero disables the limit.
	RequestTimeout time.Duration
}
