package engine

import "errors"

// AlignmentBoard is a 3x3 grid stored row-major: index = row*3 + col.
type AlignmentBoard [9]Mark

var ErrCellOccupied = errors.New("cell occupied")

var alignmentLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Place writes m at (row, col).
func (b *AlignmentBoard) Place(row, col int, m Mark) error {
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return errors.New("cell out of range")
	}
	i := row*3 + col
	if b[i] != Empty {
		return ErrCellOccupied
	}
	b[i] = m
	return nil
}

// Full reports whether no empty cell remains.
func (b *AlignmentBoard) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// CheckAlignment scans every row, column and diagonal. Draw is only reported
// for a full board with no completed line.
func CheckAlignment(b AlignmentBoard) Outcome {
	for _, l := range alignmentLines {
		m := b[l[0]]
		if m != Empty && b[l[1]] == m && b[l[2]] == m {
			return won(m)
		}
	}
	if b.Full() {
		return drawn
	}
	return ongoing
}
