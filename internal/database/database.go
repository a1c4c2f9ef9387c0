package database

import (
	"database/sql"
	"encoding/json"
	"log"

	"connectfour/internal/game"
	"connectfour/internal/session"

	_ "github.com/lib/pq"
)

type DB struct {
	conn *sql.DB
}

type PlayerStats struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

// NewDB connects to postgres. An empty url returns a DB with persistence
// disabled; every method is then a no-op.
func NewDB(url string) (*DB, error) {
	if url == "" {
		log.Println("DATABASE_URL not set, database features disabled")
		return &DB{conn: nil}, nil
	}

	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Println("✅ Database connection established")
	return &DB{conn: conn}, nil
}

func (db *DB) Enabled() bool {
	return db.conn != nil
}

func (db *DB) Initialize() error {
	if db.conn == nil {
		return nil
	}

	createPlayersTable := `
	CREATE TABLE IF NOT EXISTS players (
		username VARCHAR(255) PRIMARY KEY,
		wins INTEGER DEFAULT 0,
		losses INTEGER DEFAULT 0,
		draws INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT NOW()
	);`

	createGamesTable := `
	CREATE TABLE IF NOT EXISTS games (
		id SERIAL PRIMARY KEY,
		game_id VARCHAR(255) UNIQUE,
		username VARCHAR(255),
		starting_player INTEGER,
		winner VARCHAR(255),
		outcome VARCHAR(32),
		moves_data TEXT,
		created_at TIMESTAMP DEFAULT NOW()
	);`

	if _, err := db.conn.Exec(createPlayersTable); err != nil {
		return err
	}

	if _, err := db.conn.Exec(createGamesTable); err != nil {
		return err
	}

	log.Println("✅ Database tables initialized")
	return nil
}

// SaveGame stores a finished game and updates the human player's record.
func (db *DB) SaveGame(snap session.Snapshot) error {
	if db.conn == nil {
		return nil
	}

	movesData, err := json.Marshal(snap.Moves)
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(
		`INSERT INTO games (game_id, username, starting_player, winner, outcome, moves_data)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		snap.ID, snap.Username, int(snap.Starting), snap.Winner, snap.Outcome.Status.String(), string(movesData),
	)
	if err != nil {
		return err
	}

	wins, losses, draws := humanResult(snap.Outcome)
	if err := db.updatePlayerStats(snap.Username, wins, losses, draws); err != nil {
		log.Printf("Failed to update player stats for %s: %v", snap.Username, err)
	}

	return nil
}

func humanResult(outcome game.Outcome) (wins, losses, draws int) {
	switch {
	case outcome.Status == game.StatusDraw:
		return 0, 0, 1
	case outcome.Status != game.StatusWin:
		return 0, 0, 0
	case outcome.Winner == session.Human:
		return 1, 0, 0
	}
	return 0, 1, 0
}

func (db *DB) updatePlayerStats(username string, wins, losses, draws int) error {
	if db.conn == nil {
		return nil
	}

	_, err := db.conn.Exec(
		`INSERT INTO players (username, wins, losses, draws)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username)
		 DO UPDATE SET
		   wins = players.wins + $2,
		   losses = players.losses + $3,
		   draws = players.draws + $4`,
		username, wins, losses, draws,
	)

	return err
}

func (db *DB) GetLeaderboard(limit int) ([]PlayerStats, error) {
	if db.conn == nil {
		return []PlayerStats{}, nil
	}

	rows, err := db.conn.Query(
		`SELECT username, wins, losses, draws
		 FROM players
		 ORDER BY wins DESC, losses ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []PlayerStats{}
	for rows.Next() {
		var s PlayerStats
		if err := rows.Scan(&s.Username, &s.Wins, &s.Losses, &s.Draws); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}
