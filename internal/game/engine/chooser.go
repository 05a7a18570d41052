package engine

import (
	"fmt"
	"strings"
)

// Choice is a rock/paper/scissors hand.
type Choice int8

const (
	Rock Choice = iota + 1
	Paper
	Scissors
)

// DefaultTargetScore is the number of round wins that takes a chooser match.
const DefaultTargetScore = 3

// Choices lists every valid hand.
var Choices = []Choice{Rock, Paper, Scissors}

func (c Choice) String() string {
	switch c {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	default:
		return "none"
	}
}

// ParseChoice accepts the full name or its first letter, case-insensitive.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "r":
		return Rock, nil
	case "paper", "p":
		return Paper, nil
	case "scissors", "s":
		return Scissors, nil
	}
	return 0, fmt.Errorf("invalid choice %q", s)
}

// beats reports whether c defeats other.
func (c Choice) beats(other Choice) bool {
	switch c {
	case Rock:
		return other == Scissors
	case Scissors:
		return other == Paper
	case Paper:
		return other == Rock
	}
	return false
}

// Resolve decides a single round: Win(MarkA) when a dominates b, Win(MarkB)
// when b dominates a, Draw otherwise.
func Resolve(a, b Choice) Outcome {
	switch {
	case a.beats(b):
		return won(MarkA)
	case b.beats(a):
		return won(MarkB)
	default:
		return drawn
	}
}

// CheckScore ends a first-to-target match.
func CheckScore(scoreA, scoreB, target int) Outcome {
	if target <= 0 {
		target = DefaultTargetScore
	}
	switch {
	case scoreA >= target:
		return won(MarkA)
	case scoreB >= target:
		return won(MarkB)
	default:
		return ongoing
	}
}
