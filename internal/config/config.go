package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port         string
	DatabaseURL  string
	KafkaEnabled bool
	KafkaBroker  string
	KafkaTopic   string
	AIRollouts   int
	AIWorkers    int
	AISeed       int64
}

func Default() Config {
	return Config{
		Port:        "8080",
		KafkaBroker: "localhost:9092",
		KafkaTopic:  "game-events",
		AIRollouts:  1000,
		AIWorkers:   1,
	}
}

// Load reads the environment on top of Default. Malformed numbers keep the
// default.
func Load() Config {
	return load(os.Getenv)
}

func load(getenv func(string) string) Config {
	cfg := Default()

	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}
	cfg.DatabaseURL = getenv("DATABASE_URL")
	cfg.KafkaEnabled = strings.ToLower(getenv("KAFKA_ENABLED")) == "true"
	if v := getenv("KAFKA_BROKER"); v != "" {
		cfg.KafkaBroker = v
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}

	cfg.AIRollouts = positiveInt(getenv, "AI_ROLLOUTS", cfg.AIRollouts)
	cfg.AIWorkers = positiveInt(getenv, "AI_WORKERS", cfg.AIWorkers)

	if v := getenv("AI_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("⚠️  Invalid AI_SEED %q, using a time-based seed", v)
		} else {
			cfg.AISeed = seed
		}
	}

	return cfg
}

func positiveInt(getenv func(string) string, key string, fallback int) int {
	v := getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Invalid %s %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
