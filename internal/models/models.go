package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// GameKindConfig is the per-community toggle and play counter of one game.
type GameKindConfig struct {
	CommunityID string `json:"community_id"`
	GameKind    string `json:"game"`
	Enabled     bool   `json:"enabled"`
	TotalPlayed int64  `json:"total_played"`
}

// Wallet holds a member's balance inside one community.
type Wallet struct {
	ID          int64     `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	CommunityID string    `db:"community_id" json:"community_id"`
	Balance     int64     `db:"balance" json:"balance"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// WalletTransaction is one ledger row written per balance change.
type WalletTransaction struct {
	ID             int64          `db:"id" json:"id"`
	DebitWalletID  sql.NullInt64  `db:"debit_wallet_id" json:"debit_wallet_id,omitempty"`
	CreditWalletID int64          `db:"credit_wallet_id" json:"credit_wallet_id"`
	Amount         int64          `db:"amount" json:"amount"`
	Reference      sql.NullString `db:"reference" json:"reference,omitempty"`
	Description    string         `db:"description" json:"description,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// MatchRecord is a finished session as stored in match history.
type MatchRecord struct {
	ID               int64          `db:"id" json:"id"`
	SessionID        string         `db:"session_id" json:"session_id"`
	CommunityID      string         `db:"community_id" json:"community_id"`
	GameKind         string         `db:"game_kind" json:"game"`
	WinnerID         sql.NullString `db:"winner_id" json:"winner_id,omitempty"`
	LoserID          sql.NullString `db:"loser_id" json:"loser_id,omitempty"`
	Draw             bool           `db:"draw" json:"draw"`
	Stake            int64          `db:"stake" json:"stake"`
	SettlementFailed bool           `db:"settlement_failed" json:"settlement_failed"`
	FinishedAt       time.Time      `db:"finished_at" json:"finished_at"`
}

// AdminAccount may toggle games and read the audit trail.
type AdminAccount struct {
	Name        string         `db:"name" json:"name"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one recorded admin action.
type AdminAudit struct {
	ID        int64           `db:"id" json:"id"`
	AdminName string          `db:"admin_name" json:"admin_name"`
	IP        string          `db:"ip" json:"ip"`
	Route     string          `db:"route" json:"route"`
	Action    string          `db:"action" json:"action"`
	Details   json.RawMessage `db:"details" json:"details"`
	Success   bool            `db:"success" json:"success"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
