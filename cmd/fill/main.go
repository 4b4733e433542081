// fill is the one-shot filler: give it a structure file and a word
// list, get the filled grid on stdout and optionally a PNG.
//
//	fill structure.txt words.txt [output.png]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/amaranta/config"
	"github.com/domino14/amaranta/puzzle"
	"github.com/domino14/amaranta/render"
	"github.com/domino14/amaranta/solver"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if len(os.Args) < 3 || len(os.Args) > 4 {
		fmt.Fprintln(os.Stderr, "usage: fill structure words [output.png]")
		os.Exit(2)
	}
	structurePath := os.Args[1]
	wordsPath := os.Args[2]
	outputPath := ""
	if len(os.Args) == 4 {
		outputPath = os.Args[3]
	}

	cfg := config.DefaultConfig()
	cw, err := puzzle.NewCrosswordFromFiles(cfg, structurePath, wordsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load puzzle")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := &solver.Solver{}
	if err := s.Init(cw); err != nil {
		log.Fatal().Err(err).Msg("could not init solver")
	}
	start := time.Now()
	a, err := s.Solve(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("solve failed")
	}
	if a == nil {
		fmt.Println("No solution.")
		os.Exit(1)
	}
	log.Info().Uint64("nodes", s.Nodes()).Dur("elapsed", time.Since(start)).Msg("solved")
	fmt.Print(render.Text(cw, a))
	if outputPath != "" {
		if err := render.SavePNG(cw, a, outputPath); err != nil {
			log.Fatal().Err(err).Msg("could not save image")
		}
	}
}
