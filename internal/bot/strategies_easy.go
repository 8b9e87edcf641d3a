package bot

import (
	"math/rand"

	"cribbage/internal/app"
	"cribbage/internal/domain"
)

// EasyBot picks uniformly among legal options.
type EasyBot struct {
	rng *rand.Rand
}

func (b *EasyBot) ChooseThrow(game *domain.Game, player *domain.Player, legal []domain.Card) domain.Card {
	return legal[b.rng.Intn(len(legal))]
}

func (b *EasyBot) ChoosePlay(game *domain.Game, player *domain.Player, legal []domain.Card) domain.Card {
	return legal[b.rng.Intn(len(legal))]
}

func (b *EasyBot) ChooseReplacement(game *domain.Game, player *domain.Player, where string) app.Replacement {
	return app.Replacement{
		Rank: domain.Ranks[b.rng.Intn(len(domain.Ranks))],
		Suit: domain.Suits[b.rng.Intn(len(domain.Suits))],
	}
}
