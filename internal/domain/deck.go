package domain

import (
	"fmt"
	"math/rand"
)

// DeckVariant selects the card population of a game.
type DeckVariant string

const (
	DeckStandard  DeckVariant = "standard"
	DeckOneJoker  DeckVariant = "one_joker"
	DeckTwoJokers DeckVariant = "two_jokers"
)

// ScoringVariant selects the flush rule set.
type ScoringVariant string

const (
	ScoringStandard ScoringVariant = "standard"
	// ScoringMega lets complementary suit pairs ({Hearts,Diamonds} or
	// {Clubs,Spades}) count as a flush.
	ScoringMega ScoringVariant = "mega"
)

// Variant is the closed configuration a game is played under.
type Variant struct {
	Deck    DeckVariant
	Scoring ScoringVariant
}

// DefaultVariant is a plain 52-card game with standard scoring.
var DefaultVariant = Variant{Deck: DeckStandard, Scoring: ScoringStandard}

// ParseDeckVariant validates a deck variant token.
func ParseDeckVariant(s string) (DeckVariant, error) {
	switch v := DeckVariant(s); v {
	case DeckStandard, DeckOneJoker, DeckTwoJokers:
		return v, nil
	}
	return "", fmt.Errorf("unknown deck variant %q", s)
}

// ParseScoringVariant validates a scoring variant token.
func ParseScoringVariant(s string) (ScoringVariant, error) {
	switch v := ScoringVariant(s); v {
	case ScoringStandard, ScoringMega:
		return v, nil
	}
	return "", fmt.Errorf("unknown scoring variant %q", s)
}

// Mega reports whether complementary-suit flushes are enabled.
func (v Variant) Mega() bool {
	return v.Scoring == ScoringMega
}

// DeckSize returns the full card population for the variant.
func (v Variant) DeckSize() int {
	switch v.Deck {
	case DeckOneJoker:
		return 53
	case DeckTwoJokers:
		return 54
	default:
		return 52
	}
}

// NewDeck returns the ordered population for the variant with ids 0..N-1.
func NewDeck(v Variant) []Card {
	deck := make([]Card, 0, v.DeckSize())
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{ID: len(deck), Rank: r, Suit: s})
		}
	}
	jokers := []Color{}
	switch v.Deck {
	case DeckOneJoker:
		jokers = []Color{ColorRed}
	case DeckTwoJokers:
		jokers = []Color{ColorRed, ColorBlack}
	}
	for _, color := range jokers {
		deck = append(deck, Card{ID: len(deck), Rank: RankJoker, Suit: SuitJoker, Color: color})
	}
	return deck
}

// ShuffleDeck shuffles the deck in place with the given rng.
func ShuffleDeck(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// DrawCard pops the top (last) card of the deck.
func DrawCard(deck []Card) (Card, []Card, bool) {
	if len(deck) == 0 {
		return Card{}, deck, false
	}
	top := deck[len(deck)-1]
	return top, deck[:len(deck)-1], true
}
