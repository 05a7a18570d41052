package game

import (
	"fmt"

	"github.com/playmatatu/duels/internal/game/engine"
)

// ChooserView is the public state of a rock/paper/scissors match.
type ChooserView struct {
	Scores    [2]int    `json:"scores"`
	Target    int       `json:"target"`
	Round     int       `json:"round"`
	Submitted [2]bool   `json:"submitted"`
	LastRound [2]string `json:"last_round"`
}

type chooserBoard struct {
	scores  [2]int
	target  int
	number  int
	pending [2]engine.Choice
	last    [2]string
}

func newChooserBoard(target int) *chooserBoard {
	if target <= 0 {
		target = engine.DefaultTargetScore
	}
	return &chooserBoard{target: target, number: 1}
}

func (b *chooserBoard) turn() int  { return -1 }
func (b *chooserBoard) round() int { return b.number }

func (b *chooserBoard) apply(seat int, move string) (boardStep, error) {
	c, err := engine.ParseChoice(move)
	if err != nil {
		return boardStep{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	if b.pending[seat] != 0 {
		return boardStep{}, ErrAlreadySubmitted
	}
	b.pending[seat] = c
	if b.pending[1-seat] == 0 {
		return boardStep{pending: true}, nil
	}

	res := engine.Resolve(b.pending[0], b.pending[1])
	ev := &roundEvent{
		number:  b.number,
		winner:  res.Winner,
		choices: [2]string{b.pending[0].String(), b.pending[1].String()},
	}
	if res.Verdict == engine.Win {
		b.scores[markSeat(res.Winner)]++
	}
	b.last = ev.choices
	b.pending = [2]engine.Choice{}
	b.number++

	return boardStep{
		outcome:  engine.CheckScore(b.scores[0], b.scores[1], b.target),
		resolved: ev,
	}, nil
}

func (b *chooserBoard) view() any {
	return ChooserView{
		Scores:    b.scores,
		Target:    b.target,
		Round:     b.number,
		Submitted: [2]bool{b.pending[0] != 0, b.pending[1] != 0},
		LastRound: b.last,
	}
}
