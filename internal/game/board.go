package game

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/playmatatu/duels/internal/game/engine"
)

// board is the kind-specific part of a session. Player arguments are seat
// indexes: 0 is side A (the proposer), 1 is side B.
type board interface {
	// turn returns the seat expected to move, or -1 when both may act.
	turn() int
	// apply validates and applies a move. On error nothing has changed,
	// except that a wrong relay answer locks that seat out of the round.
	apply(seat int, move string) (boardStep, error)
	round() int
	view() any
}

type boardStep struct {
	outcome engine.Outcome
	// pending is set when the move was buffered waiting for the other seat.
	pending bool
	// resolved is set when a multi-round game closed a round.
	resolved *roundEvent
}

type roundEvent struct {
	number  int
	winner  engine.Mark
	choices [2]string
}

type boardOptions struct {
	targetScore int
	rng         *rand.Rand
}

func newBoard(kind engine.Kind, opts boardOptions) (board, error) {
	switch kind {
	case engine.KindChooser:
		return newChooserBoard(opts.targetScore), nil
	case engine.KindAlignment:
		return &alignmentBoard{}, nil
	case engine.KindGravity:
		return &gravityBoard{lastRow: -1, lastCol: -1}, nil
	case engine.KindRelay:
		return newRelayBoard(opts.rng), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGameKind, kind)
}

func seatMark(seat int) engine.Mark {
	if seat == 0 {
		return engine.MarkA
	}
	return engine.MarkB
}

func markSeat(m engine.Mark) int {
	switch m {
	case engine.MarkA:
		return 0
	case engine.MarkB:
		return 1
	}
	return -1
}

func parseIndex(move string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(move))
	if err != nil || n < 0 || n >= max {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMove, move)
	}
	return n, nil
}

// parseCell accepts "row,col" or a flat index 0-8.
func parseCell(move string) (int, int, error) {
	if r, c, ok := strings.Cut(move, ","); ok {
		row, err1 := parseIndex(r, 3)
		col, err2 := parseIndex(c, 3)
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMove, move)
		}
		return row, col, nil
	}
	i, err := parseIndex(move, 9)
	if err != nil {
		return 0, 0, err
	}
	return i / 3, i % 3, nil
}
