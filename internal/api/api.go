package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"connectfour/internal/database"
	"connectfour/internal/game"
	"connectfour/internal/session"

	"github.com/gorilla/mux"
)

type Leaderboard interface {
	GetLeaderboard(limit int) ([]database.PlayerStats, error)
}

type Server struct {
	games       *session.Manager
	leaderboard Leaderboard
}

type newGameRequest struct {
	Username string `json:"username"`
}

type moveRequest struct {
	Column *int `json:"column"`
}

func NewRouter(games *session.Manager, leaderboard Leaderboard) *mux.Router {
	s := &Server{games: games, leaderboard: leaderboard}

	router := mux.NewRouter()
	router.HandleFunc("/api/health", s.health).Methods("GET")
	router.HandleFunc("/api/leaderboard", s.getLeaderboard).Methods("GET")
	router.HandleFunc("/api/games", s.createGame).Methods("POST")
	router.HandleFunc("/api/games/{id}", s.getGame).Methods("GET")
	router.HandleFunc("/api/games/{id}", s.deleteGame).Methods("DELETE")
	router.HandleFunc("/api/games/{id}/moves", s.playMove).Methods("POST")
	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.leaderboard.GetLeaderboard(10)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	_, turn, err := s.games.Create(req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, turn)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.games.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, session.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.games.Get(id); !ok {
		writeError(w, session.ErrNotFound)
		return
	}
	s.games.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) playMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Column == nil {
		http.Error(w, "column is required", http.StatusBadRequest)
		return
	}

	turn, err := s.games.Play(mux.Vars(r)["id"], *req.Column)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrColumnOutOfRange), errors.Is(err, game.ErrColumnFull):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrGameOver), errors.Is(err, session.ErrNotYourTurn):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
