package session

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"connectfour/internal/bot"
	"connectfour/internal/game"

	"github.com/google/uuid"
)

const (
	EventGameStarted = "game_started"
	EventMoveMade    = "move_made"
	EventGameEnded   = "game_ended"
)

// Turn is what one request to the manager produced: the human move, the AI
// reply, or both.
type Turn struct {
	Human    *game.Move    `json:"human,omitempty"`
	AI       *game.Move    `json:"ai,omitempty"`
	Decision *bot.Decision `json:"decision,omitempty"`
	Game     Snapshot      `json:"game"`
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      bot.Config
	rng      *rand.Rand
	onEvent  func(string, interface{})
}

// NewManager creates sessions whose bots use cfg. Each session's generator is
// seeded from one manager generator, so a non-zero seed makes the sequence of
// games reproducible while every game still gets its own stream. Zero seeds
// from the clock.
func NewManager(cfg bot.Config, seed int64) *Manager {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (m *Manager) SetEventCallback(callback func(string, interface{})) {
	m.onEvent = callback
}

func (m *Manager) emit(eventType string, data interface{}) {
	if m.onEvent != nil {
		m.onEvent(eventType, data)
	}
}

func (m *Manager) newRand() *rand.Rand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return rand.New(rand.NewSource(m.rng.Int63()))
}

// Create starts a game for username. When the coin flip gives the bot the
// first move, it is played before Create returns.
func (m *Manager) Create(username string) (*Session, Turn, error) {
	s := New(uuid.New().String(), username, m.newRand(), m.cfg)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Printf("Game %s created: %s vs %s", s.ID, username, bot.BotUsername)
	m.emit(EventGameStarted, s.Snapshot())

	var turn Turn
	if s.AITurn() {
		if err := m.playAI(s, &turn); err != nil {
			return s, turn, err
		}
	}
	turn.Game = s.Snapshot()
	return s, turn, nil
}

// Play applies the human move in column col and, if the game goes on, the
// bot's reply.
func (m *Manager) Play(id string, col int) (Turn, error) {
	var turn Turn

	s, ok := m.Get(id)
	if !ok {
		return turn, ErrNotFound
	}

	move, err := s.PlayHuman(col)
	if err != nil {
		return turn, err
	}
	turn.Human = &move
	m.emit(EventMoveMade, map[string]interface{}{
		"gameId": s.ID,
		"player": s.Username,
		"move":   move,
	})

	if s.Outcome().IsTerminal() {
		m.finish(s)
	} else if err := m.playAI(s, &turn); err != nil {
		return turn, err
	}

	turn.Game = s.Snapshot()
	return turn, nil
}

func (m *Manager) playAI(s *Session, turn *Turn) error {
	move, decision, err := s.PlayAI()
	if err != nil {
		return err
	}
	turn.AI = &move
	turn.Decision = &decision
	m.emit(EventMoveMade, map[string]interface{}{
		"gameId":  s.ID,
		"player":  bot.BotUsername,
		"move":    move,
		"tallies": decision.Tallies,
	})

	if s.Outcome().IsTerminal() {
		m.finish(s)
	}
	return nil
}

func (m *Manager) finish(s *Session) {
	snap := s.Snapshot()
	log.Printf("Game %s finished: %s", s.ID, snap.Outcome)
	m.emit(EventGameEnded, snap)
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, exists := m.sessions[id]
	return s, exists
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		delete(m.sessions, id)
		log.Printf("Game %s removed", id)
	}
}

func (m *Manager) All() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}
