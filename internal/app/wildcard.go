package app

import "cribbage/internal/domain"

// substitute checks, in order, the actor's hand, the turned card and the
// crib during pointing. The first place holding a joker is resolved.
func (r *round) substitute(rep Replacement, playerID string) error {
	g := r.g
	if g.Ended {
		return ErrGameEnded
	}
	if !rep.Valid() {
		return ErrInvalidReplacement
	}
	p, ok := g.Player(playerID)
	if !ok {
		return ErrUnknownPlayer
	}

	if i := domain.FirstJoker(p.Hand); i >= 0 {
		p.Hand[i] = rep.apply(p.Hand[i])
		r.rec.touch(p.ID)
		r.logf("%s names a joker the %s", p.Name, p.Hand[i])
		return nil
	}

	if g.Turned != nil && g.Turned.IsJoker() {
		if playerID != g.CribOwner {
			return ErrNotAuthority
		}
		card := rep.apply(*g.Turned)
		g.Turned = &card
		g.PendingSubstitution = false
		r.logf("%s names the turned joker the %s", p.Name, card)
		r.award(g.CribOwner, domain.Nibs(card), "nibs")
		return nil
	}

	if g.Phase == domain.PhasePointing {
		i := domain.FirstJoker(g.Crib)
		if i < 0 {
			return ErrNothingToSubstitute
		}
		if playerID != g.CribOwner {
			return ErrNotAuthority
		}
		g.Crib[i] = rep.apply(g.Crib[i])
		r.logf("%s names a crib joker the %s", p.Name, g.Crib[i])
		if domain.FirstJoker(g.Crib) < 0 {
			g.PendingSubstitution = false
			r.countCrib()
		}
		return nil
	}

	return ErrNothingToSubstitute
}
