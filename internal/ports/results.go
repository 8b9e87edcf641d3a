package ports

import "context"

// ResultEntry is one player's outcome at the end of a game.
type ResultEntry struct {
	UserID   string
	Won      bool
	Skunked  bool
	Score    int64
	Metadata map[string]interface{}
}

// ResultsPort defines the interface for recording finished games against player accounts.
type ResultsPort interface {
	// RecordResults applies every entry's counters.
	// This is used once per game, when the game ends.
	RecordResults(ctx context.Context, results []ResultEntry) error
}
