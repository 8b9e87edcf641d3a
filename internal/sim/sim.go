// Package sim runs headless cribbage games between bots, each bot acting on
// its own replica and exchanging snapshots through an in-process hub.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/heroiclabs/nakama-common/runtime"

	"cribbage/internal/app"
	"cribbage/internal/bot"
	"cribbage/internal/domain"
	"cribbage/internal/ports/memory"
	"cribbage/internal/snapshot"
)

var (
	ErrStalled  = errors.New("no replica can act")
	ErrMaxSteps = errors.New("step limit reached before the game ended")
)

// Options configures one simulated game.
type Options struct {
	Players   int
	Teams     []string // one entry per player; empty means every player is a team of one
	Seed      int64
	Variant   domain.Variant
	PointGoal int
	SkunkLine int
	MaxSteps  int
	Level     bot.BotLevel
}

// Result summarizes a finished game.
type Result struct {
	GameID    string
	Steps     int
	Deals     int
	Standings app.GameEndedPayload
	Final     *snapshot.Snapshot
}

type replica struct {
	agent   *bot.Agent
	svc     *app.Service
	game    *domain.Game
	updates <-chan *snapshot.Snapshot
}

// sync folds the newest delivered snapshot into the replica.
func (r *replica) sync() error {
	var latest *snapshot.Snapshot
	for {
		select {
		case snap, ok := <-r.updates:
			if !ok {
				return app.ErrSubscriptionClosed
			}
			latest = snap
		default:
			if latest == nil {
				return nil
			}
			_, err := r.svc.Rehydrate(r.game, latest)
			return err
		}
	}
}

// Run plays one game to completion.
func Run(ctx context.Context, opts Options, logger runtime.Logger) (*Result, error) {
	if opts.Players < domain.MinPlayers || opts.Players > domain.MaxPlayers {
		return nil, fmt.Errorf("players must be between %d and %d", domain.MinPlayers, domain.MaxPlayers)
	}
	if len(opts.Teams) != 0 && len(opts.Teams) != opts.Players {
		return nil, fmt.Errorf("got %d team names for %d players", len(opts.Teams), opts.Players)
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 20000
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	hub := memory.NewHub()

	replicas := make([]*replica, opts.Players)
	roster := make([]app.PlayerSpec, opts.Players)
	for i := 0; i < opts.Players; i++ {
		agent, err := bot.NewAgent(bot.NewIdentity(i, opts.Level), opts.Level, rng)
		if err != nil {
			return nil, err
		}
		updates, cancel, err := hub.Subscribe(ctx)
		if err != nil {
			return nil, err
		}
		defer cancel()

		replicas[i] = &replica{
			agent:   agent,
			svc:     app.NewService(rng, logger.WithField("replica", agent.Name)),
			game:    &domain.Game{},
			updates: updates,
		}
		roster[i] = app.PlayerSpec{ID: agent.ID, Name: agent.Name}
		if len(opts.Teams) != 0 {
			roster[i].Team = opts.Teams[i]
		}
	}

	host := replicas[0]
	game, events, err := host.svc.NewGame(roster, app.GameOptions{
		Variant:   opts.Variant,
		PointGoal: opts.PointGoal,
		SkunkLine: opts.SkunkLine,
	})
	if err != nil {
		return nil, err
	}
	host.game = game
	logEvents(logger, events)
	if err := hub.Push(ctx, snapshot.Capture(game)); err != nil {
		return nil, err
	}

	for step := 1; step <= opts.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		acted, err := stepOnce(ctx, hub, replicas, logger)
		if err != nil {
			return nil, err
		}
		if acted.game.Ended {
			final := snapshot.Capture(acted.game)
			return &Result{
				GameID:    acted.game.ID,
				Steps:     step,
				Deals:     acted.game.DealNo + 1,
				Standings: app.Standings(acted.game),
				Final:     final,
			}, nil
		}
	}
	return nil, ErrMaxSteps
}

// stepOnce lets the first replica with a move act and publishes its state.
func stepOnce(ctx context.Context, hub *memory.Hub, replicas []*replica, logger runtime.Logger) (*replica, error) {
	for _, r := range replicas {
		if err := r.sync(); err != nil {
			return nil, err
		}
	}
	for _, r := range replicas {
		action, ok := r.agent.Act(r.game)
		if !ok {
			continue
		}
		events := r.svc.Apply(r.game, action)
		if len(events) == 0 {
			return nil, fmt.Errorf("%s: %s was rejected in %s", r.agent.Name, action.Kind, r.game.Phase)
		}
		logEvents(logger, events)
		if err := hub.Push(ctx, snapshot.Capture(r.game)); err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, ErrStalled
}

func logEvents(logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.LogAddedPayload:
			logger.Info("%s", p.Line)
		case app.StateChangedPayload:
			logger.WithFields(map[string]interface{}{
				"phase":   string(p.Phase),
				"turn":    p.CurrentTurn,
				"peg":     p.PegTotal,
				"pending": p.PendingSubstitution,
			}).Debug("state changed")
		case app.GameEndedPayload:
			for _, s := range p.Losers {
				if s.Skunked {
					logger.Warn("%s was skunked with %d", s.Team, s.TeamScore)
				}
			}
		}
	}
}
