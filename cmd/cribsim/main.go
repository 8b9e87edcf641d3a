package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"cribbage/internal/bot"
	"cribbage/internal/config"
	"cribbage/internal/domain"
	"cribbage/internal/logging"
	"cribbage/internal/sim"
)

func main() {
	cfg := config.Default().FromEnv(environ())

	players := flag.Int("players", 2, "number of bot players (2-8)")
	teams := flag.String("teams", "", "comma separated team name per player, e.g. n,e,n,e")
	seed := flag.Int64("seed", 1, "seed for seating and bot choices")
	goal := flag.Int("goal", cfg.PointGoal, "points needed to win")
	skunk := flag.Int("skunk", cfg.SkunkLine, "losers below this score are skunked")
	deck := flag.String("deck", cfg.DeckVariant, "deck variant: standard, one_joker, two_jokers")
	scoring := flag.String("scoring", cfg.ScoringVariant, "scoring variant: standard, mega")
	level := flag.String("level", "good", "bot level: easy, good")
	maxSteps := flag.Int("max-steps", 20000, "give up after this many actions")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()
	skunkSet := false
	flag.Visit(func(f *flag.Flag) { skunkSet = skunkSet || f.Name == "skunk" })
	if !skunkSet && *skunk > *goal {
		*skunk = domain.SkunkLineFor(*goal)
	}

	logger := logging.NewConsole(logging.ParseLevel(*logLevel))

	deckVariant, err := domain.ParseDeckVariant(*deck)
	if err != nil {
		fatal(err)
	}
	scoringVariant, err := domain.ParseScoringVariant(*scoring)
	if err != nil {
		fatal(err)
	}
	botLevel, err := bot.ParseLevel(*level)
	if err != nil {
		fatal(err)
	}
	var teamNames []string
	if *teams != "" {
		teamNames = strings.Split(*teams, ",")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := sim.Run(ctx, sim.Options{
		Players:   *players,
		Teams:     teamNames,
		Seed:      *seed,
		Variant:   domain.Variant{Deck: deckVariant, Scoring: scoringVariant},
		PointGoal: *goal,
		SkunkLine: *skunk,
		MaxSteps:  *maxSteps,
		Level:     botLevel,
	}, logger)
	if err != nil {
		logger.Error("simulation failed: %v", err)
		os.Exit(1)
	}

	logger.WithFields(map[string]interface{}{
		"game_id": res.GameID,
		"steps":   res.Steps,
		"deals":   res.Deals,
	}).Info("%s wins", res.Standings.WinningTeam)
	for _, s := range append(res.Standings.Winners, res.Standings.Losers...) {
		mark := ""
		if s.Skunked {
			mark = " (skunked)"
		}
		fmt.Printf("%-16s %-16s %4d  team %4d%s\n", s.Name, s.Team, s.Score, s.TeamScore, mark)
	}
}

// environ turns os.Environ into the map shape the Nakama runtime hands to config.
func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}
