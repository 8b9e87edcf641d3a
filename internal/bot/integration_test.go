package bot

import (
	"math/rand"
	"testing"

	"cribbage/internal/app"
	"cribbage/internal/domain"
)

func TestBotsFinishGame(t *testing.T) {
	tests := []struct {
		name    string
		levels  []BotLevel
		teams   []string
		variant domain.Variant
	}{
		{"heads up", []BotLevel{BotLevelGood, BotLevelEasy}, nil, domain.DefaultVariant},
		{"three handed", []BotLevel{BotLevelGood, BotLevelGood, BotLevelEasy}, nil, domain.Variant{Deck: domain.DeckOneJoker, Scoring: domain.ScoringStandard}},
		{"partners", []BotLevel{BotLevelGood, BotLevelEasy, BotLevelGood, BotLevelEasy}, []string{"north", "east", "north", "east"}, domain.Variant{Deck: domain.DeckTwoJokers, Scoring: domain.ScoringMega}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))
			svc := app.NewService(rng, nil)

			var roster []app.PlayerSpec
			var agents []*Agent
			for i, level := range tt.levels {
				agent, err := NewAgent(NewIdentity(i, level), level, rng)
				if err != nil {
					t.Fatalf("NewAgent: %v", err)
				}
				spec := app.PlayerSpec{ID: agent.ID, Name: agent.Name}
				if tt.teams != nil {
					spec.Team = tt.teams[i]
				}
				roster = append(roster, spec)
				agents = append(agents, agent)
			}

			game, _, err := svc.NewGame(roster, app.GameOptions{Variant: tt.variant})
			if err != nil {
				t.Fatalf("NewGame: %v", err)
			}

			for step := 0; !game.Ended; step++ {
				if step > 20000 {
					t.Fatalf("game did not finish: phase=%s", game.Phase)
				}
				moved := false
				for _, agent := range agents {
					action, ok := agent.Act(game)
					if !ok {
						continue
					}
					if len(svc.Apply(game, action)) == 0 {
						t.Fatalf("%s's %s was rejected in %s", agent.Name, action.Kind, game.Phase)
					}
					moved = true
					break
				}
				if !moved {
					t.Fatalf("no bot can act: phase=%s turn=%s", game.Phase, game.CurrentTurn)
				}
				if err := game.CheckInvariants(); err != nil {
					t.Fatalf("step %d: %v", step, err)
				}
			}

			if team, ok := game.Team(game.Winner); !ok || team.Score < game.PointGoal {
				t.Fatalf("winner %q with %+v", game.Winner, team)
			}
		})
	}
}

func TestAgentWaitsItsTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a, err := NewAgent(NewIdentity(0, BotLevelGood), BotLevelGood, rng)
	if err != nil {
		t.Fatal(err)
	}
	other := &domain.Player{ID: "human", Hand: []domain.Card{c(5, domain.RankTwo, domain.SuitClubs)}}
	me := &domain.Player{ID: a.ID, Hand: []domain.Card{c(6, domain.RankThree, domain.SuitClubs)}}
	g := &domain.Game{
		Variant:     domain.DefaultVariant,
		Phase:       domain.PhasePegging,
		Players:     []*domain.Player{other, me},
		CurrentTurn: "human",
		CribOwner:   a.ID,
		Started:     true,
	}
	if _, ok := a.Act(g); ok {
		t.Fatal("agent acted out of turn")
	}

	g.CurrentTurn = a.ID
	action, ok := a.Act(g)
	if !ok || action.Kind != app.ActionPlay || action.CardID != 6 {
		t.Fatalf("Act = %+v, %v", action, ok)
	}

	joker := domain.Card{ID: 50, Rank: domain.RankJoker, Suit: domain.SuitJoker, Color: domain.ColorBlack}
	g.Turned = &joker
	g.PendingSubstitution = true
	action, ok = a.Act(g)
	if !ok || action.Kind != app.ActionSubstitute || action.Replacement == nil || !action.Replacement.Valid() {
		t.Fatalf("Act = %+v, %v", action, ok)
	}
}

func TestIdentities(t *testing.T) {
	a := NewIdentity(0, BotLevelEasy)
	b := NewIdentity(len(botNames), BotLevelGood)
	if !IsBot(a.UserID) || !IsBot(b.UserID) || IsBot("user-1") {
		t.Fatal("IsBot misclassified an id")
	}
	if a.UserID == b.UserID {
		t.Fatal("identities share an id")
	}
	if a.DisplayName == b.DisplayName {
		t.Fatalf("display names collide: %q", a.DisplayName)
	}
	if lvl, err := ParseLevel(b.Level); err != nil || lvl != BotLevelGood {
		t.Fatalf("ParseLevel(%q) = %v, %v", b.Level, lvl, err)
	}
	if _, err := ParseLevel("god"); err == nil {
		t.Fatal("expected unknown level error")
	}
}
