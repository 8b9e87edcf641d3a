package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"cribbage/internal/domain"
)

// GameConfig holds the tunables for cribbage matches.
type GameConfig struct {
	PointGoal      int    `json:"point_goal"`
	SkunkLine      int    `json:"skunk_line"`
	DeckVariant    string `json:"deck_variant"`
	ScoringVariant string `json:"scoring_variant"`
	MaxPlayers     int    `json:"max_players"`
	BotsEnabled    bool   `json:"bots_enabled"`
	// BotMinDelaySeconds and BotMaxDelaySeconds bound how long a bot seat waits before acting.
	BotMinDelaySeconds int    `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int    `json:"bot_max_delay_seconds"`
	TicketIssuer       string `json:"ticket_issuer"`
	TicketTTLSeconds   int    `json:"ticket_ttl_seconds"`
	TicketSecret       string `json:"-"` // env only
}

// Env keys read from the Nakama runtime environment.
const (
	EnvPointGoal      = "cribbage_point_goal"
	EnvSkunkLine      = "cribbage_skunk_line"
	EnvDeckVariant    = "cribbage_deck_variant"
	EnvScoringVariant = "cribbage_scoring_variant"
	EnvBotsEnabled    = "cribbage_bots_enabled"
	EnvTicketSecret   = "cribbage_ticket_secret"
)

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		PointGoal:          domain.DefaultPointGoal,
		SkunkLine:          domain.DefaultSkunkLine,
		DeckVariant:        string(domain.DeckStandard),
		ScoringVariant:     string(domain.ScoringStandard),
		MaxPlayers:         domain.MaxPlayers,
		BotMinDelaySeconds: 1,
		BotMaxDelaySeconds: 3,
		TicketIssuer:       "cribbage",
		TicketTTLSeconds:   600,
	}
}

// LoadGameConfig loads the game configuration from the given path.
// Keys missing from the file keep their defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// Parse decodes a JSON config over the defaults and validates it.
// Without an explicit skunk_line the line follows point_goal.
func Parse(data []byte) (GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if _, ok := keys["skunk_line"]; !ok {
		c.SkunkLine = domain.SkunkLineFor(c.PointGoal)
	}
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

// GetGameConfig returns the global game configuration, or the defaults when
// nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// FromEnv returns a copy of c with runtime environment overrides applied.
// Unparseable values are ignored. A goal override without a skunk override
// moves a skunk line that no longer fits under the new goal.
func (c GameConfig) FromEnv(env map[string]string) GameConfig {
	goalSet, skunkSet := false, false
	if val, ok := env[EnvPointGoal]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			c.PointGoal = i
			goalSet = true
		}
	}
	if val, ok := env[EnvSkunkLine]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			c.SkunkLine = i
			skunkSet = true
		}
	}
	if goalSet && !skunkSet && c.SkunkLine > c.PointGoal {
		c.SkunkLine = domain.SkunkLineFor(c.PointGoal)
	}
	if val, ok := env[EnvDeckVariant]; ok {
		if _, err := domain.ParseDeckVariant(val); err == nil {
			c.DeckVariant = val
		}
	}
	if val, ok := env[EnvScoringVariant]; ok {
		if _, err := domain.ParseScoringVariant(val); err == nil {
			c.ScoringVariant = val
		}
	}
	if val, ok := env[EnvBotsEnabled]; ok {
		c.BotsEnabled = val == "true"
	}
	if val, ok := env[EnvTicketSecret]; ok {
		c.TicketSecret = val
	}
	return c
}

// Validate rejects configurations the engine cannot play.
func (c GameConfig) Validate() error {
	if _, err := domain.ParseDeckVariant(c.DeckVariant); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}
	if _, err := domain.ParseScoringVariant(c.ScoringVariant); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}
	if c.PointGoal <= 0 {
		return fmt.Errorf("invalid game config: point_goal must be positive")
	}
	if c.SkunkLine < 0 || c.SkunkLine > c.PointGoal {
		return fmt.Errorf("invalid game config: skunk_line must be between 0 and point_goal")
	}
	if c.MaxPlayers < domain.MinPlayers || c.MaxPlayers > domain.MaxPlayers {
		return fmt.Errorf("invalid game config: max_players must be between %d and %d", domain.MinPlayers, domain.MaxPlayers)
	}
	if c.BotMinDelaySeconds < 0 || c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		return fmt.Errorf("invalid game config: bot delays must satisfy 0 <= min <= max")
	}
	return nil
}

// Variant returns the parsed deck and scoring variant.
func (c GameConfig) Variant() domain.Variant {
	return domain.Variant{
		Deck:    domain.DeckVariant(c.DeckVariant),
		Scoring: domain.ScoringVariant(c.ScoringVariant),
	}
}
