package domain

// Player holds the domain state for a participant.
type Player struct {
	ID     string
	Name   string
	Team   string
	Hand   []Card
	Played []Card // cards pegged this deal, in play order
	Score  int
}

// Team groups players whose points count toward one shared score.
type Team struct {
	Name    string
	Members []string
	Score   int
}

// HasMember reports whether the player id belongs to the team.
func (t *Team) HasMember(playerID string) bool {
	for _, id := range t.Members {
		if id == playerID {
			return true
		}
	}
	return false
}

// FindCard returns the index of the card with the given id, or -1.
func FindCard(cards []Card, id int) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// RemoveCard removes the card with the given id and returns it with the updated slice.
func RemoveCard(cards []Card, id int) (Card, []Card, bool) {
	i := FindCard(cards, id)
	if i < 0 {
		return Card{}, cards, false
	}
	card := cards[i]
	updated := make([]Card, 0, len(cards)-1)
	updated = append(updated, cards[:i]...)
	updated = append(updated, cards[i+1:]...)
	return card, updated, true
}

// FirstJoker returns the index of the first unresolved joker, or -1.
func FirstJoker(cards []Card) int {
	for i, c := range cards {
		if c.IsJoker() {
			return i
		}
	}
	return -1
}
