package app

import (
	"fmt"

	"cribbage/internal/domain"
)

// countRound counts every hand in turn order from the seat after the crib
// owner, then the crib. The first win stops the pass.
func (r *round) countRound() {
	g := r.g
	owner := g.Seat(g.CribOwner)
	for i := 1; i <= len(g.Players); i++ {
		p := g.PlayerAt(owner + i)
		score := domain.ScoreHand(p.Played, *g.Turned, false, g.Variant)
		r.logf("%s shows %s", p.Name, describe(score))
		r.award(p.ID, score.Total(), "the hand")
		if g.Ended {
			return
		}
	}
	r.countCrib()
}

// countCrib reveals and scores the crib, pausing in the pointing phase while
// it still holds a joker.
func (r *round) countCrib() {
	g := r.g
	for i := range g.Crib {
		g.Crib[i].Revealed = true
	}
	if domain.FirstJoker(g.Crib) >= 0 {
		g.Phase = domain.PhasePointing
		g.PendingSubstitution = true
		r.logf("The crib holds a joker; %s must name it", r.name(g.CribOwner))
		return
	}
	score := domain.ScoreHand(g.Crib, *g.Turned, true, g.Variant)
	r.logf("%s's crib shows %s", r.name(g.CribOwner), describe(score))
	r.award(g.CribOwner, score.Total(), "the crib")
	if g.Ended {
		return
	}
	r.redeal()
}

// redeal passes the crib one seat to the left and deals the next hand.
func (r *round) redeal() {
	g := r.g
	old := g.Seat(g.CribOwner)
	g.CribOwner = g.PlayerAt(old + 1).ID
	g.CurrentTurn = g.PlayerAt(old + 2).ID
	g.DealNo++
	g.PendingSubstitution = false
	r.deal()
}

func describe(s domain.HandScore) string {
	if s.Total() == 0 {
		return "nineteen"
	}
	return fmt.Sprintf("%d (fifteens %d, pairs %d, runs %d, flush %d, nobs %d)",
		s.Total(), s.Fifteens, s.Pairs, s.Runs, s.Flush, s.Nobs)
}
