package app

import (
	"fmt"
	"math/rand"

	"cribbage/internal/domain"
)

// round applies rule steps to one game and records what they touched.
type round struct {
	g   *domain.Game
	rec *recorder
}

func (r *round) logf(format string, args ...any) {
	r.g.Log = append(r.g.Log, fmt.Sprintf(format, args...))
}

func (r *round) name(playerID string) string {
	if p, ok := r.g.Player(playerID); ok {
		return p.Name
	}
	return playerID
}

// deal shuffles a fresh deck from Seed+DealNo and deals starting after the crib owner.
func (r *round) deal() {
	g := r.g
	deck := domain.NewDeck(g.Variant)
	domain.ShuffleDeck(deck, rand.New(rand.NewSource(g.Seed+int64(g.DealNo))))

	for _, p := range g.Players {
		p.Hand = nil
		p.Played = nil
	}
	g.Crib = nil
	g.Turned = nil
	g.Pegging = nil
	g.PegTotal = 0
	g.LastPlayer = ""

	n := len(g.Players)
	throw := 1
	if n == 2 {
		throw = 2
	}
	owner := g.Seat(g.CribOwner)
	var c domain.Card
	for k := 0; k < domain.HandSize+throw; k++ {
		for i := 1; i <= n; i++ {
			p := g.PlayerAt(owner + i)
			c, deck, _ = domain.DrawCard(deck)
			p.Hand = append(p.Hand, c)
		}
	}
	for len(g.Crib)+n*throw < domain.HandSize {
		c, deck, _ = domain.DrawCard(deck)
		g.Crib = append(g.Crib, c)
	}
	g.Deck = deck
	g.Phase = domain.PhaseThrowing
	r.rec.touchAll()
	r.logf("Deal %d: %s has the crib", g.DealNo+1, r.name(g.CribOwner))
}

func (r *round) throw(playerID string, cardID int) error {
	g := r.g
	if g.Ended {
		return ErrGameEnded
	}
	if g.Phase != domain.PhaseThrowing {
		return ErrWrongPhase
	}
	p, ok := g.Player(playerID)
	if !ok {
		return ErrUnknownPlayer
	}
	if len(p.Hand) <= domain.HandSize {
		return ErrThrowComplete
	}
	card, hand, ok := domain.RemoveCard(p.Hand, cardID)
	if !ok {
		return ErrCardNotInHand
	}
	p.Hand = hand
	card.Revealed = false
	g.Crib = append(g.Crib, card)
	r.rec.touch(p.ID)
	r.logf("%s throws a card to the crib", p.Name)

	for _, other := range g.Players {
		if len(other.Hand) != domain.HandSize {
			return nil
		}
	}
	r.turnUp()
	return nil
}

// turnUp reveals the starter card and opens pegging.
func (r *round) turnUp() {
	g := r.g
	card, deck, _ := domain.DrawCard(g.Deck)
	g.Deck = deck
	card.Revealed = true
	g.Turned = &card
	g.Phase = domain.PhasePegging
	g.Pegging = nil
	g.PegTotal = 0
	g.LastPlayer = ""
	g.CurrentTurn = g.PlayerAt(g.Seat(g.CribOwner) + 1).ID
	r.logf("Turned up the %s", card)

	if card.IsJoker() {
		g.PendingSubstitution = true
		r.logf("The turned card is a joker; %s must name it", r.name(g.CribOwner))
		return
	}
	r.award(g.CribOwner, domain.Nibs(card), "nibs")
}

func (r *round) play(playerID string, cardID int) error {
	g := r.g
	if g.Ended {
		return ErrGameEnded
	}
	if g.Phase != domain.PhasePegging {
		return ErrWrongPhase
	}
	if g.PendingSubstitution {
		return ErrSubstitutionPending
	}
	p, ok := g.Player(playerID)
	if !ok {
		return ErrUnknownPlayer
	}
	if g.CurrentTurn != playerID {
		return ErrNotYourTurn
	}
	i := domain.FindCard(p.Hand, cardID)
	if i < 0 {
		return ErrCardNotInHand
	}
	if g.PegTotal+p.Hand[i].Value() > domain.PegLimit {
		return ErrOverLimit
	}

	card, hand, _ := domain.RemoveCard(p.Hand, cardID)
	card.Revealed = true
	p.Hand = hand
	p.Played = append(p.Played, card)
	g.Pegging = append(g.Pegging, card)
	g.PegTotal += card.Value()
	g.LastPlayer = p.ID
	r.rec.touch(p.ID)
	r.logf("%s plays the %s (%d)", p.Name, card, g.PegTotal)

	score := domain.PeggingPoints(g.Pegging, g.PegTotal)
	r.award(p.ID, score.Run, fmt.Sprintf("a run of %d", score.Run))
	r.award(p.ID, score.Pairs, "pairs")
	r.award(p.ID, score.Target, fmt.Sprintf("%d", g.PegTotal))
	if g.Ended {
		return nil
	}
	r.advanceTurn()
	return nil
}

// advanceTurn hands the turn to the next player who can peg, checking the
// current player last. When nobody can, the go point is settled.
func (r *round) advanceTurn() {
	g := r.g
	seat := g.Seat(g.CurrentTurn)
	for i := 1; i <= len(g.Players); i++ {
		p := g.PlayerAt(seat + i)
		if g.CanPeg(p) {
			g.CurrentTurn = p.ID
			return
		}
	}
	r.noPlay()
}

func (r *round) noPlay() {
	g := r.g
	if g.PegTotal != domain.PegLimit && g.LastPlayer != "" {
		r.award(g.LastPlayer, 1, "go")
		if g.Ended {
			return
		}
	}
	if g.AllHandsEmpty() {
		r.countRound()
		return
	}

	last := g.Seat(g.LastPlayer)
	g.Pegging = nil
	g.PegTotal = 0
	g.LastPlayer = ""
	for i := 1; i <= len(g.Players); i++ {
		p := g.PlayerAt(last + i)
		if len(p.Hand) > 0 {
			g.CurrentTurn = p.ID
			break
		}
	}
	r.logf("Count resets; %s leads", r.name(g.CurrentTurn))
}

// award adds points to the player and their team, ending the game on the goal.
func (r *round) award(playerID string, points int, reason string) {
	g := r.g
	if points <= 0 || g.Ended {
		return
	}
	p, ok := g.Player(playerID)
	if !ok {
		return
	}
	p.Score += points
	team, ok := g.TeamOf(playerID)
	if !ok {
		return
	}
	team.Score += points
	r.logf("%s scores %d for %s (%s: %d)", p.Name, points, reason, team.Name, team.Score)
	if team.Score >= g.PointGoal {
		r.finish(team)
	}
}

func (r *round) finish(winner *domain.Team) {
	g := r.g
	g.Phase = domain.PhaseEnded
	g.Ended = true
	g.Winner = winner.Name
	g.PendingSubstitution = false
	r.logf("%s wins with %d", winner.Name, winner.Score)
}
