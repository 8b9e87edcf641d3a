package bot

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IDPrefix marks user ids that belong to server-driven players.
const IDPrefix = "bot:"

// Identity is the seat identity of a bot player.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"`
}

var botNames = []string{
	"Muggins", "Nobs", "Nibs", "Skunky", "Pegboard Pete",
	"Fifteen-Two", "Crib Queen", "Go Getter",
}

// NewIdentity returns a fresh bot identity; index picks the display name.
func NewIdentity(index int, level BotLevel) Identity {
	name := botNames[index%len(botNames)]
	if index >= len(botNames) {
		name = fmt.Sprintf("%s %d", name, index/len(botNames)+1)
	}
	return Identity{
		UserID:      IDPrefix + uuid.NewString(),
		DisplayName: name,
		Level:       level.String(),
	}
}

// IsBot reports whether the given user ID belongs to a bot seat.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, IDPrefix)
}
