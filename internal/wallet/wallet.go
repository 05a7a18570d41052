// Package wallet is the only place balances change. Stakes move directly
// from loser to winner at settlement; nothing is held in between.
package wallet

import (
	"errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSameWallet        = errors.New("cannot transfer to the same wallet")
)

// DescriptionStake is written on ledger rows created by match settlement.
const DescriptionStake = "match stake"

func checkTransfer(from, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrSameWallet
	}
	return nil
}
