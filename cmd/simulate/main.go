// Package main runs batches of headless KidCapital games and prints a
// results table. It only parses flags and wires the simulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/platform/logger"
	"github.com/kidcapital/server/internal/sim"
)

func main() {
	games := flag.Int("games", 10, "number of games to play")
	seed := flag.Int64("seed", 0, "seed of the first game (0 = time-based)")
	bots := flag.Int("bots", 3, "bots at the table (0-3)")
	autopilot := flag.String("autopilot", string(catalog.Balanced), "personality driving the human seat: conservative, aggressive or balanced")
	maxTurns := flag.Int("max-turns", 200, "human turns before a game is called unfinished")
	difficulty := flag.String("difficulty", string(catalog.DifficultyTweens), "quiz difficulty: 8-10, 11-14 or 15-18")
	catalogPath := flag.String("catalog", "", "optional catalog override file")
	verbose := flag.Bool("v", false, "log engine activity")
	flag.Parse()

	d, err := catalog.ParseDifficulty(*difficulty)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cat := catalog.Default()
	if *catalogPath != "" {
		if cat, err = catalog.Load(*catalogPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	log := logger.NewDiscard()
	if *verbose {
		log = logger.NewLogger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sim.Run(ctx, sim.Options{
		Games:      *games,
		Seed:       *seed,
		Bots:       *bots,
		Autopilot:  catalog.Personality(*autopilot),
		MaxTurns:   *maxTurns,
		Difficulty: d,
		Catalog:    cat,
	}, log)
	if len(results) > 0 {
		fmt.Print(sim.Render(results))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
