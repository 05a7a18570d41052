package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/playmatatu/duels/internal/game"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&game.PreconditionError{Reason: game.ErrInsufficientFunds, PlayerID: "bob"}, http.StatusUnprocessableEntity},
		{&game.PreconditionError{Reason: game.ErrSelfChallenge, PlayerID: "bob"}, http.StatusBadRequest},
		{&game.PreconditionError{Reason: game.ErrGameDisabled}, http.StatusForbidden},
		{fmt.Errorf("move: %w", game.ErrCellOccupied), http.StatusConflict},
		{game.ErrUnknownSession, http.StatusNotFound},
		{game.ErrWrongAnswer, http.StatusUnprocessableEntity},
		{game.ErrLockedOut, http.StatusConflict},
		{&game.SettlementError{SessionID: "s", Err: errors.New("db down")}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
