package bot

import (
	"fmt"

	"cribbage/internal/app"
	"cribbage/internal/domain"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelGood
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelEasy:
		return "easy"
	case BotLevelGood:
		return "good"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a level name to a BotLevel.
func ParseLevel(name string) (BotLevel, error) {
	switch name {
	case "easy":
		return BotLevelEasy, nil
	case "good", "":
		return BotLevelGood, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", name)
	}
}

// Brain is the interface that all bot strategies must implement.
// Every method receives only legal options and must return one of them.
type Brain interface {
	ChooseThrow(game *domain.Game, player *domain.Player, legal []domain.Card) domain.Card
	ChoosePlay(game *domain.Game, player *domain.Player, legal []domain.Card) domain.Card
	// ChooseReplacement names a joker found at where: "hand", "turned" or "crib".
	ChooseReplacement(game *domain.Game, player *domain.Player, where string) app.Replacement
}
