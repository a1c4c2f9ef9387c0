package bot

import (
	"errors"
	"math/rand"
	"sync"

	"connectfour/internal/game"
)

const (
	BotUsername     = "AI Bot"
	DefaultRollouts = 1000
)

var ErrNoLegalMoves = errors.New("no legal moves")

type Config struct {
	// Rollouts is the number of playouts run for each candidate column.
	Rollouts int
	// Workers splits each candidate's playouts over goroutines. Zero or one
	// runs everything on the caller's goroutine.
	Workers int
}

// Tally counts playout results for one candidate column, seen from the
// player who is choosing the move.
type Tally struct {
	Column int `json:"column"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

func (t *Tally) add(other Tally) {
	t.Wins += other.Wins
	t.Losses += other.Losses
	t.Draws += other.Draws
}

func (t *Tally) record(outcome game.Outcome, me game.Player) {
	switch {
	case outcome.Status == game.StatusDraw:
		t.Draws++
	case outcome.Winner == me:
		t.Wins++
	default:
		t.Losses++
	}
}

type Decision struct {
	Column  int     `json:"column"`
	Tallies []Tally `json:"tallies"`
}

// Selector picks moves by pure Monte Carlo: a flat layer of random playouts
// per legal column, no tree. There is no shortcut for immediate wins or
// blocks; the choice comes from the playout counts alone.
type Selector struct {
	cfg     Config
	rng     Rand
	workers []*rand.Rand
}

// NewSelector returns a selector drawing from rng for every decision. The
// generator is shared, never reseeded, and must not be used concurrently
// elsewhere while a decision is running.
func NewSelector(rng Rand, cfg Config) *Selector {
	if cfg.Rollouts <= 0 {
		cfg.Rollouts = DefaultRollouts
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	s := &Selector{cfg: cfg, rng: rng}
	if cfg.Workers > 1 {
		// Worker generators are seeded once, in order, from the shared one.
		s.workers = make([]*rand.Rand, cfg.Workers)
		for i := range s.workers {
			s.workers[i] = rand.New(rand.NewSource(rng.Int63()))
		}
	}
	return s
}

func (s *Selector) Config() Config {
	return s.cfg
}

// SelectMove returns the column whose playouts lost least often for the
// player to move.
func (s *Selector) SelectMove(board game.Board) (int, error) {
	decision, err := s.Evaluate(board)
	if err != nil {
		return -1, err
	}
	return decision.Column, nil
}

// Evaluate runs the playouts for every legal column in ascending order and
// returns the chosen column with all tallies. Ties on losses go to the
// lowest column. Wins and draws do not affect the choice.
func (s *Selector) Evaluate(board game.Board) (Decision, error) {
	candidates := board.LegalColumns()
	if len(candidates) == 0 {
		return Decision{Column: -1}, ErrNoLegalMoves
	}

	me := board.CurrentPlayer()
	tallies := make([]Tally, 0, len(candidates))
	for _, col := range candidates {
		next := board.Clone()
		if _, err := next.ApplyMove(col); err != nil {
			return Decision{Column: -1}, err
		}

		tally := s.rollouts(next, me)
		tally.Column = col
		tallies = append(tallies, tally)
	}

	return Decision{Column: fewestLosses(tallies), Tallies: tallies}, nil
}

// fewestLosses keeps the first tally unless a later one loses strictly less.
func fewestLosses(tallies []Tally) int {
	best := tallies[0]
	for _, t := range tallies[1:] {
		if t.Losses < best.Losses {
			best = t
		}
	}
	return best.Column
}

func (s *Selector) rollouts(board game.Board, me game.Player) Tally {
	if s.cfg.Workers == 1 {
		var tally Tally
		for i := 0; i < s.cfg.Rollouts; i++ {
			tally.record(Simulate(board, s.rng), me)
		}
		return tally
	}

	workers := s.cfg.Workers
	if workers > s.cfg.Rollouts {
		workers = s.cfg.Rollouts
	}

	partial := make([]Tally, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		n := s.cfg.Rollouts / workers
		if w < s.cfg.Rollouts%workers {
			n++
		}
		wg.Add(1)
		go func(w, n int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				partial[w].record(Simulate(board, s.workers[w]), me)
			}
		}(w, n)
	}
	wg.Wait()

	var tally Tally
	for _, p := range partial {
		tally.add(p)
	}
	return tally
}
