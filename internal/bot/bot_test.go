package bot

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"connectfour/internal/game"
)

// sequenceRand replays a fixed sequence of values.
type sequenceRand struct {
	values []int64
	next   int
}

func (r *sequenceRand) Int63() int64 {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func (r *sequenceRand) Intn(n int) int {
	return int(r.Int63() % int64(n))
}

func newSequence() *sequenceRand {
	return &sequenceRand{values: []int64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3, 2, 3, 8, 4, 6, 2, 6, 4, 3}}
}

func play(t *testing.T, first game.Player, cols []int) game.Board {
	t.Helper()
	b := game.NewBoard(first)
	for _, col := range cols {
		if _, err := b.ApplyMove(col); err != nil {
			t.Fatalf("move %d: %v", col, err)
		}
	}
	return b
}

// drawnBoard fills every cell without any four in a row.
var drawnBoard = []int{2, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 6, 4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 6, 6, 6, 6, 6}

// twoLeft is drawnBoard with the top cells of columns 0 and 6 still open.
// Either order of filling them ends in a draw.
var twoLeft = []int{2, 0, 0, 0, 0, 0, 3, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 6, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 6, 6, 6, 6, 3}

func TestSimulateTerminatesWithoutTouchingInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, first := range []game.Player{game.PlayerA, game.PlayerB} {
		board := play(t, first, []int{3, 3, 2})
		before := board
		for i := 0; i < 200; i++ {
			outcome, steps := playout(board, rng)
			if !outcome.IsTerminal() {
				t.Fatalf("playout ended in progress")
			}
			if steps > game.Capacity-board.MoveCount() {
				t.Fatalf("playout took %d moves from %d filled cells", steps, board.MoveCount())
			}
		}
		if board != before {
			t.Fatalf("simulate mutated its input")
		}
	}
}

func TestSimulateOnTerminalBoard(t *testing.T) {
	board := play(t, game.PlayerA, drawnBoard)
	outcome, steps := playout(board, rand.New(rand.NewSource(1)))
	if outcome != game.Draw || steps != 0 {
		t.Fatalf("expected immediate draw, got %v after %d moves", outcome, steps)
	}

	// A wins vertically in column 0.
	won := play(t, game.PlayerA, []int{0, 1, 0, 1, 0, 1, 0})
	if got := Simulate(won, rand.New(rand.NewSource(1))); got != game.Win(game.PlayerA) {
		t.Fatalf("expected win for A, got %v", got)
	}
}

func TestSimulateIsDeterministicForASequence(t *testing.T) {
	board := game.NewBoard(game.PlayerB)
	a := Simulate(board, newSequence())
	b := Simulate(board, newSequence())
	if a != b {
		t.Fatalf("same sequence gave %v and %v", a, b)
	}
}

func TestSelectMoveOnEmptyBoard(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(2024)), Config{Rollouts: 50})
	col, err := s.SelectMove(game.NewBoard(game.PlayerB))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col < 0 || col >= game.Cols {
		t.Fatalf("column %d out of range", col)
	}
}

func TestSelectMoveNoLegalMoves(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)), Config{Rollouts: 10})
	col, err := s.SelectMove(play(t, game.PlayerA, drawnBoard))
	if !errors.Is(err, ErrNoLegalMoves) {
		t.Fatalf("expected ErrNoLegalMoves, got %v", err)
	}
	if col != -1 {
		t.Fatalf("expected -1, got %d", col)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	board := play(t, game.PlayerA, []int{3, 2, 3})

	tests := []struct {
		name string
		rng  func() Rand
		cfg  Config
	}{
		{"sequence", func() Rand { return newSequence() }, Config{Rollouts: 40}},
		{"seeded", func() Rand { return rand.New(rand.NewSource(99)) }, Config{Rollouts: 60}},
		{"seeded workers", func() Rand { return rand.New(rand.NewSource(99)) }, Config{Rollouts: 60, Workers: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := NewSelector(tt.rng(), tt.cfg).Evaluate(board)
			if err != nil {
				t.Fatal(err)
			}
			second, err := NewSelector(tt.rng(), tt.cfg).Evaluate(board)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("runs differ:\n%+v\n%+v", first, second)
			}
		})
	}
}

func TestEvaluateTalliesEveryRollout(t *testing.T) {
	board := play(t, game.PlayerA, []int{0, 6})
	for _, workers := range []int{1, 3, 8} {
		s := NewSelector(rand.New(rand.NewSource(5)), Config{Rollouts: 25, Workers: workers})
		decision, err := s.Evaluate(board)
		if err != nil {
			t.Fatal(err)
		}
		if len(decision.Tallies) != game.Cols {
			t.Fatalf("expected %d tallies, got %d", game.Cols, len(decision.Tallies))
		}
		for i, tally := range decision.Tallies {
			if tally.Column != i {
				t.Fatalf("tallies out of order: %+v", decision.Tallies)
			}
			if n := tally.Wins + tally.Losses + tally.Draws; n != 25 {
				t.Fatalf("workers=%d column %d: %d rollouts recorded", workers, i, n)
			}
		}
	}
}

func TestEvaluateTieGoesToLowestColumn(t *testing.T) {
	board := play(t, game.PlayerA, twoLeft)
	if cols := board.LegalColumns(); !reflect.DeepEqual(cols, []int{0, 6}) {
		t.Fatalf("unexpected legal columns %v", cols)
	}

	decision, err := NewSelector(rand.New(rand.NewSource(8)), Config{Rollouts: 20}).Evaluate(board)
	if err != nil {
		t.Fatal(err)
	}
	for _, tally := range decision.Tallies {
		if tally.Draws != 20 || tally.Losses != 0 {
			t.Fatalf("expected only draws, got %+v", tally)
		}
	}
	if decision.Column != 0 {
		t.Fatalf("expected column 0 on tie, got %d", decision.Column)
	}
}

func TestFewestLosses(t *testing.T) {
	tests := []struct {
		name    string
		tallies []Tally
		want    int
	}{
		{
			name:    "tie keeps first",
			tallies: []Tally{{Column: 1, Losses: 4}, {Column: 2, Losses: 4}, {Column: 5, Losses: 7}},
			want:    1,
		},
		{
			name:    "strictly fewer replaces",
			tallies: []Tally{{Column: 0, Losses: 4}, {Column: 3, Losses: 3}, {Column: 4, Losses: 3}},
			want:    3,
		},
		{
			name:    "wins ignored",
			tallies: []Tally{{Column: 0, Wins: 1, Losses: 2, Draws: 97}, {Column: 1, Wins: 90, Losses: 10}},
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fewestLosses(tt.tallies); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNewSelectorDefaults(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)), Config{})
	if cfg := s.Config(); cfg.Rollouts != DefaultRollouts || cfg.Workers != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestWorkerGeneratorsSeededOnce(t *testing.T) {
	shared := newSequence()
	s := NewSelector(shared, Config{Rollouts: 12, Workers: 3})
	if shared.next != 3 {
		t.Fatalf("expected 3 seeds drawn for 3 workers, got %d", shared.next)
	}

	board := play(t, game.PlayerA, []int{3})
	for i := 0; i < 2; i++ {
		if _, err := s.Evaluate(board); err != nil {
			t.Fatal(err)
		}
	}
	if shared.next != 3 {
		t.Fatalf("decisions drew %d more values from the shared generator", shared.next-3)
	}
}
