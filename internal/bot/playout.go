package bot

import "connectfour/internal/game"

// Rand is the random source driving rollouts. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Int63() int64
}

// Simulate plays uniformly random legal moves on a private copy of board
// until the game ends and returns the outcome.
func Simulate(board game.Board, rng Rand) game.Outcome {
	outcome, _ := playout(board, rng)
	return outcome
}

// playout also reports how many moves were applied. A playout never exceeds
// game.Capacity moves because every move fills one cell.
func playout(board game.Board, rng Rand) (game.Outcome, int) {
	steps := 0
	for {
		outcome := board.Evaluate()
		if outcome.IsTerminal() {
			return outcome, steps
		}
		cols := board.LegalColumns()
		if _, err := board.ApplyMove(cols[rng.Intn(len(cols))]); err != nil {
			// unreachable: cols only holds open columns
			panic(err)
		}
		steps++
	}
}
