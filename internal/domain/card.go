package domain

import "fmt"

// Rank is the face value token of a card.
type Rank string

const (
	RankAce   Rank = "A"
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	// RankJoker marks an unresolved wildcard.
	RankJoker Rank = "JOKER"
)

// Ranks lists the concrete ranks in ascending order.
var Ranks = []Rank{
	RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
}

// Suit is one of the four named suits, or the joker pseudo-suit.
type Suit string

const (
	SuitHearts   Suit = "Hearts"
	SuitDiamonds Suit = "Diamonds"
	SuitClubs    Suit = "Clubs"
	SuitSpades   Suit = "Spades"
	SuitJoker    Suit = "Joker"
)

// Suits lists the concrete suits.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Color is only meaningful for jokers; it fixes the joker's pegging value.
type Color string

const (
	ColorNone  Color = ""
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Card is a single playing card. ID is unique across the whole population
// of a game and survives serialization.
type Card struct {
	ID       int
	Rank     Rank
	Suit     Suit
	Color    Color
	Revealed bool
}

// IsJoker reports whether the card is a still-unresolved wildcard.
func (c Card) IsJoker() bool {
	return c.Rank == RankJoker
}

// Ordinal is the rank position used for runs (A=1 .. K=13, joker 0).
func (c Card) Ordinal() int {
	for i, r := range Ranks {
		if r == c.Rank {
			return i + 1
		}
	}
	return 0
}

// Value is the counting value used for fifteens and the pegging total.
// Face cards count 10; a red joker counts 1 and a black joker 2.
func (c Card) Value() int {
	if c.IsJoker() {
		if c.Color == ColorBlack {
			return 2
		}
		return 1
	}
	o := c.Ordinal()
	if o > 10 {
		return 10
	}
	return o
}

func (c Card) String() string {
	if c.IsJoker() {
		return fmt.Sprintf("%s joker", c.Color)
	}
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// ValidRank reports whether r is a known rank token, joker included.
func ValidRank(r Rank) bool {
	if r == RankJoker {
		return true
	}
	for _, known := range Ranks {
		if known == r {
			return true
		}
	}
	return false
}

// ValidSuit reports whether s is a known suit token, joker included.
func ValidSuit(s Suit) bool {
	switch s {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades, SuitJoker:
		return true
	}
	return false
}

// concrete drops unresolved jokers, which take no part in combinations.
func concrete(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !c.IsJoker() {
			out = append(out, c)
		}
	}
	return out
}
