package bot

import (
	"cribbage/internal/app"
	"cribbage/internal/domain"
)

// GoodBot plays greedily: it keeps the strongest four cards, pegs for the
// most immediate points and names jokers for the best count it can see.
type GoodBot struct{}

var unknownTurn = domain.Card{ID: -1, Rank: domain.RankJoker, Suit: domain.SuitJoker}

// ChooseThrow sends the card whose absence leaves the best keepable hand.
func (b *GoodBot) ChooseThrow(game *domain.Game, player *domain.Player, legal []domain.Card) domain.Card {
	mega := game.Variant.Mega()
	best, bestValue := legal[0], -1
	for _, c := range legal {
		_, rest, ok := domain.RemoveCard(append([]domain.Card(nil), player.Hand...), c.ID)
		if !ok {
			continue
		}
		if v := bestKeep(rest, mega); v > bestValue {
			best, bestValue = c, v
		}
	}
	return best
}

// bestKeep is the value of the best four-card subset of cards.
func bestKeep(cards []domain.Card, mega bool) int {
	if len(cards) <= domain.HandSize {
		return keepValue(cards, mega)
	}
	best := -1
	for i := range cards {
		rest := make([]domain.Card, 0, len(cards)-1)
		rest = append(rest, cards[:i]...)
		rest = append(rest, cards[i+1:]...)
		best = max(best, bestKeep(rest, mega))
	}
	return best
}

// keepValue counts a hand without knowing the turned card.
func keepValue(cards []domain.Card, mega bool) int {
	return domain.Fifteens(cards) + domain.Pairs(cards) + domain.Runs(cards) +
		domain.Flush(cards, false, unknownTurn, mega)
}

// ChoosePlay takes the most pegging points, then avoids leaving a total of
// 5 or 21, then sheds the highest card.
func (b *GoodBot) ChoosePlay(game *domain.Game, player *domain.Player, legal []domain.Card) domain.Card {
	best := legal[0]
	bestPts, bestSafe := -1, false
	for _, c := range legal {
		total := game.PegTotal + c.Value()
		seq := append(append([]domain.Card(nil), game.Pegging...), c)
		pts := domain.PeggingPoints(seq, total).Total()
		safe := total != 5 && total != 21
		switch {
		case pts > bestPts,
			pts == bestPts && safe && !bestSafe,
			pts == bestPts && safe == bestSafe && c.Value() > best.Value():
			best, bestPts, bestSafe = c, pts, safe
		}
	}
	return best
}

// ChooseReplacement tries every concrete face and keeps the one that counts best.
func (b *GoodBot) ChooseReplacement(game *domain.Game, player *domain.Player, where string) app.Replacement {
	var eval func(domain.Card) int
	switch where {
	case "turned":
		cards := append(append([]domain.Card(nil), player.Hand...), player.Played...)
		eval = func(c domain.Card) int {
			return domain.ScoreHand(cards, c, false, game.Variant).Total() + domain.Nibs(c)
		}
	case "crib":
		i := domain.FirstJoker(game.Crib)
		eval = func(c domain.Card) int {
			if i < 0 || game.Turned == nil {
				return 0
			}
			crib := append([]domain.Card(nil), game.Crib...)
			crib[i] = c
			return domain.ScoreHand(crib, *game.Turned, true, game.Variant).Total()
		}
	default:
		i := domain.FirstJoker(player.Hand)
		eval = func(c domain.Card) int {
			if i < 0 {
				return 0
			}
			hand := append([]domain.Card(nil), player.Hand...)
			hand[i] = c
			return bestKeep(hand, game.Variant.Mega())
		}
	}

	best, bestValue := app.Replacement{Rank: domain.RankFive, Suit: domain.SuitHearts}, -1
	for _, r := range domain.Ranks {
		for _, s := range domain.Suits {
			if v := eval(domain.Card{Rank: r, Suit: s}); v > bestValue {
				best, bestValue = app.Replacement{Rank: r, Suit: s}, v
			}
		}
	}
	return best
}
