package engine

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// RopeLimit is the distance from the centre at which the rope is won.
// MarkA pulls toward -RopeLimit, MarkB toward +RopeLimit.
const RopeLimit = 3

// OptionCount is the number of candidate answers per puzzle.
const OptionCount = 4

// PuzzleKind is the family a relay puzzle was drawn from.
type PuzzleKind int

const (
	PuzzleArithmetic PuzzleKind = iota
	PuzzleSequence
	PuzzleComparison
	PuzzleCounting
	puzzleKindCount
)

func (k PuzzleKind) String() string {
	switch k {
	case PuzzleArithmetic:
		return "arithmetic"
	case PuzzleSequence:
		return "sequence"
	case PuzzleComparison:
		return "comparison"
	case PuzzleCounting:
		return "counting"
	default:
		return "unknown"
	}
}

// Puzzle is one relay question. Options[Answer] is the correct candidate.
type Puzzle struct {
	Kind    PuzzleKind          `json:"kind"`
	Prompt  string              `json:"prompt"`
	Options [OptionCount]string `json:"options"`
	Answer  int                 `json:"-"`
}

// Correct reports whether choice is the index of the right option.
func (p Puzzle) Correct(choice int) bool { return choice == p.Answer }

// GeneratePuzzle draws a puzzle kind uniformly and builds it from rng.
func GeneratePuzzle(rng *rand.Rand) Puzzle {
	switch PuzzleKind(rng.IntN(int(puzzleKindCount))) {
	case PuzzleArithmetic:
		return arithmeticPuzzle(rng)
	case PuzzleSequence:
		return sequencePuzzle(rng)
	case PuzzleComparison:
		return comparisonPuzzle(rng)
	default:
		return countingPuzzle(rng)
	}
}

func arithmeticPuzzle(rng *rand.Rand) Puzzle {
	var a, b, answer int
	var op string
	switch rng.IntN(3) {
	case 0:
		a, b = 1+rng.IntN(50), 1+rng.IntN(50)
		op, answer = "+", a+b
	case 1:
		a, b = 10+rng.IntN(50), 1+rng.IntN(10)
		op, answer = "-", a-b
	default:
		a, b = 2+rng.IntN(11), 2+rng.IntN(11)
		op, answer = "×", a*b
	}
	p := Puzzle{Kind: PuzzleArithmetic, Prompt: fmt.Sprintf("%d %s %d = ?", a, op, b)}
	p.Options, p.Answer = numericOptions(rng, answer)
	return p
}

func sequencePuzzle(rng *rand.Rand) Puzzle {
	start, step := 1+rng.IntN(20), 2+rng.IntN(8)
	terms := make([]string, 4)
	for i := range terms {
		terms[i] = strconv.Itoa(start + i*step)
	}
	p := Puzzle{Kind: PuzzleSequence, Prompt: strings.Join(terms, ", ") + ", ?"}
	p.Options, p.Answer = numericOptions(rng, start+4*step)
	return p
}

type quantity struct {
	name  string
	value int
}

type quantityTheme struct {
	question string
	items    []quantity
}

var comparisonThemes = []quantityTheme{
	{
		question: "Which is the heaviest?",
		items: []quantity{
			{"a blue whale", 150000}, {"an elephant", 6000}, {"a car", 1500},
			{"a horse", 500}, {"a grand piano", 400}, {"a lion", 190},
			{"a kangaroo", 85}, {"a dog", 30}, {"a cat", 4},
		},
	},
	{
		question: "Which is the tallest?",
		items: []quantity{
			{"Mount Everest", 8849}, {"Burj Khalifa", 828}, {"the Eiffel Tower", 330},
			{"the Statue of Liberty", 93}, {"a giraffe", 6}, {"a basketball hoop", 3},
			{"a door", 2}, {"a chair", 1},
		},
	},
	{
		question: "Which is the fastest?",
		items: []quantity{
			{"a jet airliner", 900}, {"a peregrine falcon", 390}, {"a race car", 350},
			{"a cheetah", 110}, {"a horse", 88}, {"a greyhound", 72},
			{"a human sprinter", 44}, {"a snail", 1},
		},
	},
}

func comparisonPuzzle(rng *rand.Rand) Puzzle {
	theme := comparisonThemes[rng.IntN(len(comparisonThemes))]
	picked := rng.Perm(len(theme.items))[:OptionCount]
	p := Puzzle{Kind: PuzzleComparison, Prompt: theme.question}
	best := 0
	for i, idx := range picked {
		p.Options[i] = theme.items[idx].name
		if theme.items[idx].value > theme.items[picked[best]].value {
			best = i
		}
	}
	p.Answer = best
	return p
}

var countingEmoji = []string{"🍎", "⭐", "🐟", "🎈", "🌵", "🍩"}

func countingPuzzle(rng *rand.Rand) Puzzle {
	emoji := countingEmoji[rng.IntN(len(countingEmoji))]
	n := 3 + rng.IntN(10)
	p := Puzzle{
		Kind:   PuzzleCounting,
		Prompt: fmt.Sprintf("How many %s? %s", emoji, strings.Repeat(emoji, n)),
	}
	p.Options, p.Answer = numericOptions(rng, n)
	return p
}

// numericOptions returns answer plus three distinct nearby non-negative
// distractors, shuffled, and the index where answer ended up.
func numericOptions(rng *rand.Rand, answer int) ([OptionCount]string, int) {
	vals := []int{answer}
	seen := map[int]bool{answer: true}
	for len(vals) < OptionCount {
		d := 1 + rng.IntN(5)
		if rng.IntN(2) == 0 {
			d = -d
		}
		v := answer + d
		if v < 0 || seen[v] {
			continue
		}
		seen[v] = true
		vals = append(vals, v)
	}
	rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })

	var opts [OptionCount]string
	idx := 0
	for i, v := range vals {
		opts[i] = strconv.Itoa(v)
		if v == answer {
			idx = i
		}
	}
	return opts, idx
}

// Pull moves the rope one step toward m and clamps it to the limit.
func Pull(rope int, m Mark) int {
	switch m {
	case MarkA:
		rope--
	case MarkB:
		rope++
	}
	if rope < -RopeLimit {
		rope = -RopeLimit
	}
	if rope > RopeLimit {
		rope = RopeLimit
	}
	return rope
}

// CheckRope reports a win the instant the rope reaches either limit.
func CheckRope(rope int) Outcome {
	switch {
	case rope <= -RopeLimit:
		return won(MarkA)
	case rope >= RopeLimit:
		return won(MarkB)
	default:
		return ongoing
	}
}
