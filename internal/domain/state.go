package domain

import "fmt"

// Phase represents the lifecycle stage of a cribbage game.
type Phase string

const (
	// PhaseThrowing is the stage where players discard to the crib.
	PhaseThrowing Phase = "throwing"
	// PhasePegging is the stage where cards are played one at a time toward 31.
	PhasePegging Phase = "pegging"
	// PhasePointing pauses crib counting until a joker in the crib is resolved.
	PhasePointing Phase = "pointing"
	// PhaseEnded is terminal; no further mutations are accepted.
	PhaseEnded Phase = "ended"
)

// ValidPhase reports whether p is one of the four phase tokens.
func ValidPhase(p Phase) bool {
	switch p {
	case PhaseThrowing, PhasePegging, PhasePointing, PhaseEnded:
		return true
	}
	return false
}

const (
	// HandSize is the number of cards each player keeps after throwing.
	HandSize = 4
	// PegLimit is the pegging ceiling.
	PegLimit = 31
	// DefaultPointGoal is the score that wins the game.
	DefaultPointGoal = 121
	// DefaultSkunkLine is the score a loser must reach to avoid a skunk.
	DefaultSkunkLine = 91
	MinPlayers       = 2
	MaxPlayers       = 8
)

// SkunkLineFor returns the usual skunk line for a point goal: 30 short of the
// goal, or three quarters of it for very short games.
func SkunkLineFor(goal int) int {
	if goal > 60 {
		return goal - 30
	}
	return goal * 3 / 4
}

// Game is the authoritative state of a single cribbage game.
type Game struct {
	ID      string
	Variant Variant

	// Seed and DealNo make every shuffle reproducible from a snapshot.
	Seed   int64
	DealNo int

	Phase   Phase
	Players []*Player // seat order is turn order
	Teams   []*Team

	Deck   []Card
	Turned *Card
	Crib   []Card

	Pegging    []Card
	PegTotal   int
	LastPlayer string

	CurrentTurn string
	CribOwner   string

	PointGoal int
	SkunkLine int

	Log                 []string
	PendingSubstitution bool

	Started bool
	Ended   bool
	Winner  string
}

// Player returns the player with the given id.
func (g *Game) Player(id string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Seat returns the turn-order index of the player, or -1.
func (g *Game) Seat(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// PlayerAt returns the player at seat i, wrapping around the table.
func (g *Game) PlayerAt(i int) *Player {
	n := len(g.Players)
	return g.Players[((i%n)+n)%n]
}

// Team returns the team with the given name.
func (g *Game) Team(name string) (*Team, bool) {
	for _, t := range g.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// TeamOf returns the team the player belongs to.
func (g *Game) TeamOf(playerID string) (*Team, bool) {
	for _, t := range g.Teams {
		if t.HasMember(playerID) {
			return t, true
		}
	}
	return nil, false
}

// AllHandsEmpty reports whether every player has pegged out.
func (g *Game) AllHandsEmpty() bool {
	for _, p := range g.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// CanPeg reports whether the player holds a card that fits under the ceiling.
func (g *Game) CanPeg(p *Player) bool {
	for _, c := range p.Hand {
		if g.PegTotal+c.Value() <= PegLimit {
			return true
		}
	}
	return false
}

// AllCards returns every card the game currently tracks, in container order.
func (g *Game) AllCards() []Card {
	all := make([]Card, 0, g.Variant.DeckSize())
	all = append(all, g.Deck...)
	for _, p := range g.Players {
		all = append(all, p.Hand...)
		all = append(all, p.Played...)
	}
	all = append(all, g.Crib...)
	if g.Turned != nil {
		all = append(all, *g.Turned)
	}
	return all
}

// CheckInvariants verifies card conservation and the team partition.
// Violations are programming defects; callers use this as an assertion.
func (g *Game) CheckInvariants() error {
	if len(g.Players) == 0 {
		return fmt.Errorf("no players")
	}
	all := g.AllCards()
	if len(all) != g.Variant.DeckSize() {
		return fmt.Errorf("card population = %d, want %d", len(all), g.Variant.DeckSize())
	}
	seen := make(map[int]bool, len(all))
	for _, c := range all {
		if c.ID < 0 || c.ID >= g.Variant.DeckSize() {
			return fmt.Errorf("card id %d out of range", c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("card id %d appears twice", c.ID)
		}
		seen[c.ID] = true
	}

	owner := make(map[string]string, len(g.Players))
	for _, t := range g.Teams {
		for _, id := range t.Members {
			if prev, ok := owner[id]; ok {
				return fmt.Errorf("player %s is on teams %s and %s", id, prev, t.Name)
			}
			owner[id] = t.Name
		}
	}
	for _, p := range g.Players {
		team, ok := owner[p.ID]
		if !ok {
			return fmt.Errorf("player %s has no team", p.ID)
		}
		if team != p.Team {
			return fmt.Errorf("player %s claims team %s but is listed on %s", p.ID, p.Team, team)
		}
	}
	if len(owner) != len(g.Players) {
		return fmt.Errorf("teams list %d members for %d players", len(owner), len(g.Players))
	}
	return nil
}
