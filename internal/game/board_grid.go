package game

import (
	"errors"
	"fmt"

	"github.com/playmatatu/duels/internal/game/engine"
)

// AlignmentView is the public 3x3 board, row-major.
type AlignmentView struct {
	Cells [9]string `json:"cells"`
	Moves int       `json:"moves"`
}

type alignmentBoard struct {
	cells engine.AlignmentBoard
	next  int
	moves int
}

func (b *alignmentBoard) turn() int  { return b.next }
func (b *alignmentBoard) round() int { return b.moves + 1 }

func (b *alignmentBoard) apply(seat int, move string) (boardStep, error) {
	row, col, err := parseCell(move)
	if err != nil {
		return boardStep{}, err
	}
	if err := b.cells.Place(row, col, seatMark(seat)); err != nil {
		return boardStep{}, err
	}
	b.moves++
	b.next = 1 - seat
	return boardStep{outcome: engine.CheckAlignment(b.cells)}, nil
}

func (b *alignmentBoard) view() any {
	v := AlignmentView{Moves: b.moves}
	for i, m := range b.cells {
		v.Cells[i] = m.String()
	}
	return v
}

// GravityView is the public 6x7 board; row 0 is the top.
type GravityView struct {
	Rows    [engine.GravityRows]string `json:"rows"`
	LastRow int                        `json:"last_row"`
	LastCol int                        `json:"last_col"`
	Moves   int                        `json:"moves"`
}

type gravityBoard struct {
	cells            engine.GravityBoard
	next             int
	moves            int
	lastRow, lastCol int
}

func (b *gravityBoard) turn() int  { return b.next }
func (b *gravityBoard) round() int { return b.moves + 1 }

func (b *gravityBoard) apply(seat int, move string) (boardStep, error) {
	col, err := parseIndex(move, engine.GravityCols)
	if err != nil {
		return boardStep{}, err
	}
	row, err := b.cells.Drop(col, seatMark(seat))
	if err != nil {
		if errors.Is(err, engine.ErrColumnOutOfRange) {
			return boardStep{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
		return boardStep{}, err
	}
	b.lastRow, b.lastCol = row, col
	b.moves++
	b.next = 1 - seat
	return boardStep{outcome: engine.CheckGravity(b.cells, row, col)}, nil
}

func (b *gravityBoard) view() any {
	v := GravityView{LastRow: b.lastRow, LastCol: b.lastCol, Moves: b.moves}
	for r := range b.cells {
		line := make([]byte, engine.GravityCols)
		for c, m := range b.cells[r] {
			line[c] = m.String()[0]
		}
		v.Rows[r] = string(line)
	}
	return v
}
