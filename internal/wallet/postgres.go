package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/models"
)

// Postgres keeps balances in the wallets table and appends one
// wallet_transactions row per movement.
type Postgres struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewPostgres(db *sqlx.DB, log *zap.Logger) *Postgres {
	return &Postgres{db: db, log: log}
}

// Balance returns 0 for members who never had a wallet.
func (p *Postgres) Balance(ctx context.Context, userID, communityID string) (int64, error) {
	var balance int64
	err := p.db.GetContext(ctx, &balance,
		`SELECT balance FROM wallets WHERE user_id = $1 AND community_id = $2`, userID, communityID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select balance: %w", err)
	}
	return balance, nil
}

// Transfer debits from and credits to in one transaction. Both wallets are
// locked FOR UPDATE in id order before the balance check.
func (p *Postgres) Transfer(ctx context.Context, fromUserID, toUserID, communityID string, amount int64) error {
	if err := checkTransfer(fromUserID, toUserID, amount); err != nil {
		return err
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback()

	for _, u := range []string{fromUserID, toUserID} {
		if err := ensureWallet(ctx, tx, u, communityID); err != nil {
			return err
		}
	}

	var wallets []models.Wallet
	err = tx.SelectContext(ctx, &wallets,
		`SELECT id, user_id, community_id, balance, created_at, updated_at FROM wallets
		 WHERE community_id = $1 AND user_id IN ($2, $3) ORDER BY id FOR UPDATE`,
		communityID, fromUserID, toUserID)
	if err != nil {
		return fmt.Errorf("lock wallets: %w", err)
	}

	var debit, credit *models.Wallet
	for i := range wallets {
		switch wallets[i].UserID {
		case fromUserID:
			debit = &wallets[i]
		case toUserID:
			credit = &wallets[i]
		}
	}
	if debit == nil || credit == nil {
		return fmt.Errorf("wallet not found for transfer in %s", communityID)
	}
	if debit.Balance < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, fromUserID, debit.Balance, amount)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = balance - $1, updated_at = NOW() WHERE id = $2`, amount, debit.ID); err != nil {
		return fmt.Errorf("debit wallet %d: %w", debit.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE id = $2`, amount, credit.ID); err != nil {
		return fmt.Errorf("credit wallet %d: %w", credit.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (debit_wallet_id, credit_wallet_id, amount, description) VALUES ($1, $2, $3, $4)`,
		debit.ID, credit.ID, amount, DescriptionStake); err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}

	p.log.Info("transfer completed",
		zap.Int64("debit_wallet", debit.ID),
		zap.Int64("credit_wallet", credit.ID),
		zap.Int64("amount", amount),
		zap.String("community_id", communityID))
	return nil
}

// Credit adds funds from outside the community economy, e.g. a seed grant.
func (p *Postgres) Credit(ctx context.Context, userID, communityID string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin credit: %w", err)
	}
	defer tx.Rollback()

	if err := ensureWallet(ctx, tx, userID, communityID); err != nil {
		return 0, err
	}
	var w models.Wallet
	err = tx.GetContext(ctx, &w,
		`UPDATE wallets SET balance = balance + $1, updated_at = NOW()
		 WHERE user_id = $2 AND community_id = $3
		 RETURNING id, user_id, community_id, balance, created_at, updated_at`,
		amount, userID, communityID)
	if err != nil {
		return 0, fmt.Errorf("credit wallet: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (credit_wallet_id, amount, description) VALUES ($1, $2, $3)`,
		w.ID, amount, description); err != nil {
		return 0, fmt.Errorf("insert wallet transaction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit credit: %w", err)
	}
	return w.Balance, nil
}

func ensureWallet(ctx context.Context, tx *sqlx.Tx, userID, communityID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO wallets (user_id, community_id, balance) VALUES ($1, $2, 0)
		 ON CONFLICT (user_id, community_id) DO NOTHING`, userID, communityID)
	if err != nil {
		return fmt.Errorf("ensure wallet for %s: %w", userID, err)
	}
	return nil
}
