// Package admin authenticates community administrators and keeps an audit
// trail of what they change.
package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/playmatatu/duels/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid admin credentials")

const RoleSuperAdmin = "super_admin"

type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewStore(db *sqlx.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

func (s *Store) Account(ctx context.Context, name string) (*models.AdminAccount, error) {
	var a models.AdminAccount
	err := s.db.GetContext(ctx, &a,
		`SELECT name, display_name, token_hash, roles, created_at, updated_at FROM admin_accounts WHERE name = $1`, name)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert creates or replaces an admin, storing only a bcrypt hash of token.
func (s *Store) Upsert(ctx context.Context, name, displayName, token string, roles []string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash token: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admin_accounts (name, display_name, token_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			token_hash = EXCLUDED.token_hash,
			roles = EXCLUDED.roles,
			updated_at = NOW()`,
		name, displayName, string(hash), pq.Array(roles))
	if err != nil {
		return fmt.Errorf("upsert admin %s: %w", name, err)
	}
	return nil
}

// Authenticate checks a name and token pair. Unknown names and wrong
// tokens are indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, name, token string) (*models.AdminAccount, error) {
	a, err := s.Account(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Info("admin login for unknown account", zap.String("name", name))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load admin %s: %w", name, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(a.TokenHash), []byte(token)) != nil {
		s.log.Info("admin token mismatch", zap.String("name", name))
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// LogAction records an admin action. Failures are logged and returned but
// callers treat them as non-fatal.
func (s *Store) LogAction(ctx context.Context, adminName, ip, route, action string, details map[string]any, success bool) error {
	b, err := json.Marshal(details)
	if err != nil {
		b = []byte("{}")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admin_audit (admin_name, ip, route, action, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		adminName, ip, route, action, b, success)
	if err != nil {
		s.log.Warn("write admin audit", zap.String("action", action), zap.Error(err))
		return fmt.Errorf("insert admin audit: %w", err)
	}
	return nil
}

func (s *Store) AuditLogs(ctx context.Context, limit, offset int) ([]models.AdminAudit, error) {
	logs := []models.AdminAudit{}
	err := s.db.SelectContext(ctx, &logs, `
		SELECT id, admin_name, ip, route, action, details, success, created_at
		FROM admin_audit ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select admin audit: %w", err)
	}
	return logs, nil
}
