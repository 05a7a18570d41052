package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/config"
	"github.com/playmatatu/duels/internal/game"
	"github.com/playmatatu/duels/internal/models"
	"github.com/playmatatu/duels/internal/registry"
	"github.com/playmatatu/duels/internal/ws"
)

// MatchHistory lists finished matches of a community.
type MatchHistory interface {
	Recent(ctx context.Context, communityID string, limit int) ([]models.MatchRecord, error)
}

// AdminStore authenticates admins and records what they do.
type AdminStore interface {
	Authenticate(ctx context.Context, name, token string) (*models.AdminAccount, error)
	LogAction(ctx context.Context, adminName, ip, route, action string, details map[string]any, success bool) error
	AuditLogs(ctx context.Context, limit, offset int) ([]models.AdminAudit, error)
}

// Deps is everything the HTTP handlers need. History and Admin may be nil
// when the server runs without Postgres.
type Deps struct {
	Config   *config.Config
	Service  *game.Service
	Registry registry.Store
	Wallet   game.Wallet
	History  MatchHistory
	Admin    AdminStore
	Hub      *ws.Hub
	Log      *zap.Logger
}
