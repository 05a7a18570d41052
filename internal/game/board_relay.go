package game

import (
	"math/rand/v2"

	"github.com/playmatatu/duels/internal/game/engine"
)

// RelayView is the public tug-of-war state. The answer index is never
// exposed.
type RelayView struct {
	Rope   int           `json:"rope"`
	Limit  int           `json:"limit"`
	Round  int           `json:"round"`
	Puzzle engine.Puzzle `json:"puzzle"`
	// Locked marks the seats that answered the current puzzle wrongly.
	Locked [2]bool `json:"locked"`
}

type relayBoard struct {
	rng    *rand.Rand
	rope   int
	number int
	puzzle engine.Puzzle
	locked [2]bool
}

func newRelayBoard(rng *rand.Rand) *relayBoard {
	return &relayBoard{rng: rng, number: 1, puzzle: engine.GeneratePuzzle(rng)}
}

func (b *relayBoard) turn() int  { return -1 }
func (b *relayBoard) round() int { return b.number }

// apply takes the option index. The first correct answer pulls the rope.
// A wrong answer is rejected and locks that seat out until the next
// puzzle; when both seats are locked out the round is void and a fresh
// puzzle is drawn.
func (b *relayBoard) apply(seat int, move string) (boardStep, error) {
	choice, err := parseIndex(move, engine.OptionCount)
	if err != nil {
		return boardStep{}, err
	}
	if b.locked[seat] {
		return boardStep{}, ErrLockedOut
	}
	if !b.puzzle.Correct(choice) {
		b.locked[seat] = true
		if !b.locked[1-seat] {
			return boardStep{}, ErrWrongAnswer
		}
		ev := &roundEvent{number: b.number, winner: engine.Empty}
		b.nextPuzzle()
		return boardStep{outcome: engine.CheckRope(b.rope), resolved: ev}, nil
	}

	m := seatMark(seat)
	b.rope = engine.Pull(b.rope, m)
	ev := &roundEvent{number: b.number, winner: m}
	out := engine.CheckRope(b.rope)
	if !out.Done() {
		b.nextPuzzle()
	}
	return boardStep{outcome: out, resolved: ev}, nil
}

func (b *relayBoard) nextPuzzle() {
	b.number++
	b.puzzle = engine.GeneratePuzzle(b.rng)
	b.locked = [2]bool{}
}

func (b *relayBoard) view() any {
	return RelayView{Rope: b.rope, Limit: engine.RopeLimit, Round: b.number, Puzzle: b.puzzle, Locked: b.locked}
}
