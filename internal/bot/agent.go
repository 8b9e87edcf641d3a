package bot

import (
	"math/rand"

	"cribbage/internal/app"
	"cribbage/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
	rules    *app.Service
}

// NewAgent builds an agent for the given identity and level.
func NewAgent(identity Identity, level BotLevel, rng *rand.Rand) (*Agent, error) {
	brain, err := NewBrain(level, rng)
	if err != nil {
		return nil, err
	}
	return &Agent{
		ID:       identity.UserID,
		Name:     identity.DisplayName,
		Strategy: brain,
		rules:    app.NewService(rng, nil),
	}, nil
}

// Act returns the agent's next move, or false when it has nothing to do.
// Pending jokers the agent is responsible for come first, then jokers in its
// own hand, then a throw or a play.
func (a *Agent) Act(game *domain.Game) (app.Action, bool) {
	player, ok := game.Player(a.ID)
	if !ok || game.Ended {
		return app.Action{}, false
	}

	if res := a.rules.AwaitResolution(game); res.Pending {
		if res.Authority != a.ID {
			return app.Action{}, false
		}
		where := res.Where
		if domain.FirstJoker(player.Hand) >= 0 {
			where = "hand"
		}
		rep := a.Strategy.ChooseReplacement(game, player, where)
		return app.Action{Kind: app.ActionSubstitute, PlayerID: a.ID, Replacement: &rep}, true
	}

	if domain.FirstJoker(player.Hand) >= 0 {
		rep := a.Strategy.ChooseReplacement(game, player, "hand")
		return app.Action{Kind: app.ActionSubstitute, PlayerID: a.ID, Replacement: &rep}, true
	}

	legal := a.rules.LegalPlays(game, a.ID)
	if len(legal) == 0 {
		return app.Action{}, false
	}
	switch game.Phase {
	case domain.PhaseThrowing:
		c := a.Strategy.ChooseThrow(game, player, legal)
		return app.Action{Kind: app.ActionThrow, PlayerID: a.ID, CardID: c.ID}, true
	case domain.PhasePegging:
		c := a.Strategy.ChoosePlay(game, player, legal)
		return app.Action{Kind: app.ActionPlay, PlayerID: a.ID, CardID: c.ID}, true
	}
	return app.Action{}, false
}
