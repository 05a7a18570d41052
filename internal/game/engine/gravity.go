package engine

import "errors"

const (
	GravityRows = 6
	GravityCols = 7
	// GravityRun is the number of connected discs that wins.
	GravityRun = 4
)

// GravityBoard is indexed [row][col]; row 0 is the top of the column.
type GravityBoard [GravityRows][GravityCols]Mark

var (
	ErrColumnFull       = errors.New("column full")
	ErrColumnOutOfRange = errors.New("column out of range")
)

// Drop places m in the lowest empty cell of col and returns its row.
func (b *GravityBoard) Drop(col int, m Mark) (int, error) {
	if col < 0 || col >= GravityCols {
		return -1, ErrColumnOutOfRange
	}
	for r := GravityRows - 1; r >= 0; r-- {
		if b[r][col] == Empty {
			b[r][col] = m
			return r, nil
		}
	}
	return -1, ErrColumnFull
}

// TopFull reports whether every column is full.
func (b *GravityBoard) TopFull() bool {
	for c := 0; c < GravityCols; c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

var gravityAxes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// CheckGravity counts same-colour discs through (row, col) along the four
// axes. It only sees lines through that cell, so it must be called with the
// coordinates of the disc that was just dropped.
func CheckGravity(b GravityBoard, row, col int) Outcome {
	if row < 0 || row >= GravityRows || col < 0 || col >= GravityCols {
		return ongoing
	}
	m := b[row][col]
	if m != Empty {
		for _, d := range gravityAxes {
			n := 1 + gravityRun(&b, row, col, d[0], d[1], m) + gravityRun(&b, row, col, -d[0], -d[1], m)
			if n >= GravityRun {
				return won(m)
			}
		}
	}
	if b.TopFull() {
		return drawn
	}
	return ongoing
}

func gravityRun(b *GravityBoard, row, col, dr, dc int, m Mark) int {
	n := 0
	for r, c := row+dr, col+dc; r >= 0 && r < GravityRows && c >= 0 && c < GravityCols && b[r][c] == m; r, c = r+dr, c+dc {
		n++
	}
	return n
}
