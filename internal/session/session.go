package session

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"connectfour/internal/bot"
	"connectfour/internal/game"
)

const (
	Human = game.PlayerA
	AI    = game.PlayerB
)

var (
	ErrGameOver    = errors.New("game is already finished")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotFound    = errors.New("game not found")
)

// Session is one game between a human and the Monte Carlo bot. It owns the
// authoritative board and the random generator used for every AI decision of
// the game.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time

	mu       sync.Mutex
	board    game.Board
	selector *bot.Selector
	moves    []game.Move
	outcome  game.Outcome
}

// Snapshot is a read-only copy of a session for rendering and JSON.
type Snapshot struct {
	ID            string                            `json:"id"`
	Username      string                            `json:"username"`
	Grid          [game.Rows][game.Cols]game.Player `json:"grid"`
	Heights       [game.Cols]int                    `json:"heights"`
	CurrentPlayer game.Player                       `json:"currentPlayer"`
	Starting      game.Player                       `json:"startingPlayer"`
	Human         game.Player                       `json:"human"`
	AI            game.Player                       `json:"ai"`
	Moves         []game.Move                       `json:"moves"`
	Outcome       game.Outcome                      `json:"outcome"`
	Winner        string                            `json:"winner,omitempty"`
}

// New flips a coin with rng for the starting player. rng is kept for the AI
// for the rest of the game.
func New(id, username string, rng *rand.Rand, cfg bot.Config) *Session {
	return &Session{
		ID:        id,
		Username:  username,
		CreatedAt: time.Now(),
		board:     game.NewRandomBoard(rng),
		selector:  bot.NewSelector(rng, cfg),
		moves:     make([]game.Move, 0, game.Capacity),
		outcome:   game.InProgress,
	}
}

// Board returns a copy of the current board.
func (s *Session) Board() game.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

func (s *Session) Outcome() game.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// AITurn reports whether the game is running and the bot is to move.
func (s *Session) AITurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.outcome.IsTerminal() && s.board.CurrentPlayer() == AI
}

// PlayHuman applies the human's move.
func (s *Session) PlayHuman(col int) (game.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTurn(Human); err != nil {
		return game.Move{}, err
	}
	return s.apply(col)
}

// PlayAI runs the selector on the current board and applies its choice.
func (s *Session) PlayAI() (game.Move, bot.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTurn(AI); err != nil {
		return game.Move{}, bot.Decision{}, err
	}
	decision, err := s.selector.Evaluate(s.board)
	if err != nil {
		return game.Move{}, decision, err
	}
	move, err := s.apply(decision.Column)
	return move, decision, err
}

func (s *Session) checkTurn(p game.Player) error {
	if s.outcome.IsTerminal() {
		return ErrGameOver
	}
	if s.board.CurrentPlayer() != p {
		return ErrNotYourTurn
	}
	return nil
}

func (s *Session) apply(col int) (game.Move, error) {
	move, err := s.board.ApplyMove(col)
	if err != nil {
		return move, err
	}
	s.moves = append(s.moves, move)
	s.outcome = s.board.Evaluate()
	return move, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves := make([]game.Move, len(s.moves))
	copy(moves, s.moves)

	return Snapshot{
		ID:            s.ID,
		Username:      s.Username,
		Grid:          s.board.Grid(),
		Heights:       s.board.Heights(),
		CurrentPlayer: s.board.CurrentPlayer(),
		Starting:      s.board.StartingPlayer(),
		Human:         Human,
		AI:            AI,
		Moves:         moves,
		Outcome:       s.outcome,
		Winner:        winnerName(s.outcome, s.Username),
	}
}

// winnerName is the username, bot.BotUsername, "Draw", or empty while the
// game runs.
func winnerName(outcome game.Outcome, username string) string {
	switch {
	case outcome.Status == game.StatusDraw:
		return "Draw"
	case outcome.Status != game.StatusWin:
		return ""
	case outcome.Winner == Human:
		return username
	}
	return bot.BotUsername
}
