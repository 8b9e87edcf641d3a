package app

import (
	"encoding/json"
	"fmt"

	"cribbage/internal/domain"
)

// ActionKind names a player move.
type ActionKind string

const (
	ActionThrow      ActionKind = "throw"
	ActionPlay       ActionKind = "play"
	ActionSubstitute ActionKind = "substitute"
)

// Action is the wire form of a player move, used by adapters and bots.
type Action struct {
	Kind        ActionKind   `json:"kind"`
	PlayerID    string       `json:"player_id,omitempty"`
	CardID      int          `json:"card_id"`
	Replacement *Replacement `json:"replacement,omitempty"`
}

// Replacement names the concrete card a joker becomes.
type Replacement struct {
	Rank domain.Rank `json:"rank"`
	Suit domain.Suit `json:"suit"`
}

// Valid reports whether the replacement is a concrete card.
func (r Replacement) Valid() bool {
	return r.Rank != domain.RankJoker && r.Suit != domain.SuitJoker &&
		domain.ValidRank(r.Rank) && domain.ValidSuit(r.Suit)
}

// apply turns the joker into the named card, keeping its id.
func (r Replacement) apply(joker domain.Card) domain.Card {
	return domain.Card{ID: joker.ID, Rank: r.Rank, Suit: r.Suit, Revealed: true}
}

// ParseAction decodes an action payload. The player id is always taken from
// the sender, never from the payload.
func ParseAction(data []byte, senderID string) (Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return Action{}, fmt.Errorf("decode action: %w", err)
	}
	switch a.Kind {
	case ActionThrow, ActionPlay, ActionSubstitute:
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	a.PlayerID = senderID
	return a, nil
}
