// Package engine holds the pure win-detection logic for every duel kind.
//
// Nothing in this package performs I/O or keeps hidden state. Callers that
// need randomness pass their own *rand.Rand so results are reproducible.
package engine

import "fmt"

// Kind identifies a mini-game. The string value is the wire name.
type Kind string

const (
	KindChooser   Kind = "rps"
	KindAlignment Kind = "tictactoe"
	KindGravity   Kind = "connect4"
	KindRelay     Kind = "tugofwar"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindChooser, KindAlignment, KindGravity, KindRelay}

// ParseKind maps a wire name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown game kind %q", s)
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// Mark is the content of a board cell, or the side that won.
type Mark int8

const (
	Empty Mark = iota
	MarkA
	MarkB
)

func (m Mark) String() string {
	switch m {
	case MarkA:
		return "A"
	case MarkB:
		return "B"
	default:
		return "."
	}
}

// Opponent returns the other side. Empty stays Empty.
func (m Mark) Opponent() Mark {
	switch m {
	case MarkA:
		return MarkB
	case MarkB:
		return MarkA
	default:
		return Empty
	}
}

// Verdict classifies a position.
type Verdict int

const (
	Continue Verdict = iota
	Win
	Draw
)

func (v Verdict) String() string {
	switch v {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "continue"
	}
}

// Outcome is what every checker returns. Winner is only set for Win.
type Outcome struct {
	Verdict Verdict
	Winner  Mark
}

// Done reports whether the outcome ends the match.
func (o Outcome) Done() bool { return o.Verdict != Continue }

func won(m Mark) Outcome { return Outcome{Verdict: Win, Winner: m} }

var (
	ongoing = Outcome{Verdict: Continue}
	drawn   = Outcome{Verdict: Draw}
)
