package http

import (
	"context"

	"github.com/MKhiriev/go-session-keeper/internal/config"
	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/internal/notify"
	"github.com/MKhiriev/go-session-keeper/models"
)

// SessionManager is the slice of the session manager the admin API consumes.
type SessionManager interface {
	Connect(ctx context.Context, account models.Account, verifier notify.Verifier) error
	Disconnect(name string) bool
	DeleteAccount(name string) error
	UpsertAccount(account models.Account) error
	AccountByName(name string) (models.Account, bool)
	Sessions() []models.SessionInfo
	PendingReconnects() []string
	RecentEvents(ctx context.Context, name string, limit uint64) ([]models.SessionEvent, error)
}

type Handler struct {
	manager SessionManager
	cfg     config.Server

	logger *logger.Logger
}

func NewHandler(manager SessionManager, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		manager: manager,
		cfg:     cfg,
		logger:  logger,
	}
}
