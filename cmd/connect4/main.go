package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"connectfour/internal/bot"
	"connectfour/internal/console"
	"connectfour/internal/session"
)

func main() {
	rollouts := flag.Int("rollouts", bot.DefaultRollouts, "random playouts per candidate column")
	workers := flag.Int("workers", 1, "goroutines sharing each candidate's playouts")
	seed := flag.Int64("seed", 0, "random seed (0 uses the clock)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	s := session.New("console", "Player", rng, bot.Config{
		Rollouts: *rollouts,
		Workers:  *workers,
	})

	if _, err := console.Play(os.Stdin, os.Stdout, s); err != nil {
		log.Fatal(err)
	}
}
