package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectfour/internal/api"
	"connectfour/internal/bot"
	"connectfour/internal/config"
	"connectfour/internal/database"
	"connectfour/internal/kafka"
	"connectfour/internal/session"
	"connectfour/internal/websocket"

	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func main() {
	log.Println("🚀 Starting Connect Four server...")

	cfg := config.Load()

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	kafkaProducer, err := kafka.NewProducer(cfg.KafkaEnabled, cfg.KafkaBroker, cfg.KafkaTopic)
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer kafkaProducer.Close()

	games := session.NewManager(bot.Config{
		Rollouts: cfg.AIRollouts,
		Workers:  cfg.AIWorkers,
	}, cfg.AISeed)

	games.SetEventCallback(func(eventType string, data interface{}) {
		if err := kafkaProducer.ProduceEvent(eventType, data); err != nil {
			log.Printf("Failed to produce Kafka event: %v", err)
		}

		if eventType == session.EventGameEnded {
			if snap, ok := data.(session.Snapshot); ok {
				if err := db.SaveGame(snap); err != nil {
					log.Printf("Failed to save game: %v", err)
				}
			}
		}
	})

	hub := websocket.NewHub(games)
	go hub.Run()

	router := api.NewRouter(games, db)
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}
		websocket.ServeWS(hub, conn)
	})

	log.Printf("✅ Server running on http://0.0.0.0:%s", cfg.Port)
	log.Printf("   WebSocket: ws://0.0.0.0:%s/ws", cfg.Port)
	log.Printf("   AI: %d rollouts per column, %d workers", cfg.AIRollouts, cfg.AIWorkers)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
