package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"cribbage/internal/domain"
	"cribbage/internal/logging"
	"cribbage/internal/snapshot"
)

// Service contains cribbage use-cases operating on domain state.
// It holds no game state of its own; every entry point mutates the game it is handed.
type Service struct {
	rng    *rand.Rand
	logger runtime.Logger
}

// NewService constructs a Service with provided rng or a time-seeded default.
// A nil logger discards output.
func NewService(rng *rand.Rand, logger runtime.Logger) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{rng: rng, logger: logger}
}

var (
	ErrTooFewPlayers       = errors.New("not enough players to start")
	ErrTooManyPlayers      = errors.New("too many players")
	ErrDuplicatePlayer     = errors.New("duplicate player id")
	ErrGameEnded           = errors.New("game has ended")
	ErrWrongPhase          = errors.New("action not allowed in this phase")
	ErrUnknownPlayer       = errors.New("player not found")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrCardNotInHand       = errors.New("card not in hand")
	ErrOverLimit           = errors.New("play would exceed 31")
	ErrSubstitutionPending = errors.New("waiting for joker substitution")
	ErrThrowComplete       = errors.New("player already threw to the crib")
	ErrNotAuthority        = errors.New("only the crib owner may resolve this joker")
	ErrInvalidReplacement  = errors.New("replacement must be a concrete rank and suit")
	ErrNothingToSubstitute = errors.New("no joker to substitute")
	ErrUnknownAction       = errors.New("unknown action kind")
)

// PlayerSpec describes one participant at game creation.
type PlayerSpec struct {
	ID   string
	Name string
	Team string // empty means a team of one
}

// GameOptions carries the per-game configuration.
type GameOptions struct {
	Variant   domain.Variant
	PointGoal int
	SkunkLine int
}

// NewGame seats the roster, deals the first hand and returns the game in the throwing phase.
func (s *Service) NewGame(roster []PlayerSpec, opts GameOptions) (*domain.Game, []Event, error) {
	if len(roster) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}
	if len(roster) > MaxPlayersPerGame {
		return nil, nil, ErrTooManyPlayers
	}
	seen := make(map[string]bool, len(roster))
	for _, spec := range roster {
		if spec.ID == "" || seen[spec.ID] {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicatePlayer, spec.ID)
		}
		seen[spec.ID] = true
	}

	if opts.Variant.Deck == "" {
		opts.Variant.Deck = domain.DeckStandard
	}
	if opts.Variant.Scoring == "" {
		opts.Variant.Scoring = domain.ScoringStandard
	}
	if opts.PointGoal <= 0 {
		opts.PointGoal = domain.DefaultPointGoal
	}
	if opts.SkunkLine <= 0 {
		opts.SkunkLine = domain.SkunkLineFor(opts.PointGoal)
	}

	teams := s.groupTeams(roster)
	game := &domain.Game{
		ID:        uuid.NewString(),
		Variant:   opts.Variant,
		Seed:      s.rng.Int63n(maxSeed),
		Teams:     teams,
		Players:   s.seat(roster, teams),
		PointGoal: opts.PointGoal,
		SkunkLine: opts.SkunkLine,
		Started:   true,
	}
	game.CribOwner = game.PlayerAt(0).ID
	game.CurrentTurn = game.PlayerAt(1).ID

	rec := newRecorder(game)
	r := &round{g: game, rec: rec}
	r.logf("New game: %d players in %d teams, playing to %d", len(game.Players), len(game.Teams), game.PointGoal)
	r.deal()

	s.logger.WithFields(map[string]interface{}{
		"game_id": game.ID,
		"players": len(game.Players),
		"deck":    string(game.Variant.Deck),
		"scoring": string(game.Variant.Scoring),
	}).Info("cribbage game created")

	return game, rec.events(), nil
}

// groupTeams builds teams in order of first appearance, giving team-less players a team of one.
func (s *Service) groupTeams(roster []PlayerSpec) []*domain.Team {
	var teams []*domain.Team
	byName := make(map[string]*domain.Team)
	for _, spec := range roster {
		if spec.Team == "" {
			continue
		}
		t, ok := byName[spec.Team]
		if !ok {
			t = &domain.Team{Name: spec.Team}
			byName[spec.Team] = t
			teams = append(teams, t)
		}
		t.Members = append(t.Members, spec.ID)
	}
	for _, spec := range roster {
		if spec.Team != "" {
			continue
		}
		name := spec.Name
		if name == "" || byName[name] != nil {
			name = spec.ID
		}
		t := &domain.Team{Name: name, Members: []string{spec.ID}}
		byName[name] = t
		teams = append(teams, t)
	}
	return teams
}

// seat shuffles team order and members, then deals seats round-robin across teams
// so teammates are spread around the table.
func (s *Service) seat(roster []PlayerSpec, teams []*domain.Team) []*domain.Player {
	specs := make(map[string]PlayerSpec, len(roster))
	for _, spec := range roster {
		specs[spec.ID] = spec
	}
	s.rng.Shuffle(len(teams), func(i, j int) { teams[i], teams[j] = teams[j], teams[i] })
	for _, t := range teams {
		s.rng.Shuffle(len(t.Members), func(i, j int) { t.Members[i], t.Members[j] = t.Members[j], t.Members[i] })
	}

	players := make([]*domain.Player, 0, len(roster))
	for row := 0; len(players) < len(roster); row++ {
		for _, t := range teams {
			if row >= len(t.Members) {
				continue
			}
			spec := specs[t.Members[row]]
			name := spec.Name
			if name == "" {
				name = spec.ID
			}
			players = append(players, &domain.Player{ID: spec.ID, Name: name, Team: t.Name})
		}
	}
	return players
}

// Throw moves a card from the player's hand to the crib.
func (s *Service) Throw(game *domain.Game, playerID string, cardID int) []Event {
	return s.run(game, "throw", playerID, func(r *round) error {
		return r.throw(playerID, cardID)
	})
}

// Play pegs a card from the player's hand.
func (s *Service) Play(game *domain.Game, playerID string, cardID int) []Event {
	return s.run(game, "play", playerID, func(r *round) error {
		return r.play(playerID, cardID)
	})
}

// Substitute resolves a joker held by the player, the turned joker or a joker in the crib.
func (s *Service) Substitute(game *domain.Game, replacement Replacement, playerID string) []Event {
	return s.run(game, "substitute", playerID, func(r *round) error {
		return r.substitute(replacement, playerID)
	})
}

// Apply dispatches a decoded action to the matching entry point.
func (s *Service) Apply(game *domain.Game, action Action) []Event {
	switch action.Kind {
	case ActionThrow:
		return s.Throw(game, action.PlayerID, action.CardID)
	case ActionPlay:
		return s.Play(game, action.PlayerID, action.CardID)
	case ActionSubstitute:
		if action.Replacement == nil {
			s.reject(game, "substitute", action.PlayerID, ErrInvalidReplacement)
			return nil
		}
		return s.Substitute(game, *action.Replacement, action.PlayerID)
	default:
		s.reject(game, string(action.Kind), action.PlayerID, ErrUnknownAction)
		return nil
	}
}

// Rehydrate replaces the game wholesale with the snapshot contents.
// A malformed snapshot leaves the game untouched.
func (s *Service) Rehydrate(game *domain.Game, snap *snapshot.Snapshot) ([]Event, error) {
	restored, err := snapshot.Restore(snap)
	if err != nil {
		return nil, err
	}
	seenLog := min(len(game.Log), len(restored.Log))
	*game = *restored

	rec := &recorder{game: game, logFrom: seenLog}
	rec.touchAll()
	return rec.events(), nil
}

// Resolution reports whether play is paused on a joker and who must resolve it.
type Resolution struct {
	Pending   bool
	Authority string
	Where     string // "turned" or "crib"
}

// AwaitResolution is the polling form of the wildcard wait.
func (s *Service) AwaitResolution(game *domain.Game) Resolution {
	if !game.PendingSubstitution || game.Ended {
		return Resolution{}
	}
	res := Resolution{Pending: true, Authority: game.CribOwner}
	switch {
	case game.Turned != nil && game.Turned.IsJoker():
		res.Where = "turned"
	case domain.FirstJoker(game.Crib) >= 0:
		res.Where = "crib"
	}
	return res
}

// LegalPlays lists the cards the player could throw or peg right now.
func (s *Service) LegalPlays(game *domain.Game, playerID string) []domain.Card {
	p, ok := game.Player(playerID)
	if !ok || game.Ended || game.PendingSubstitution {
		return nil
	}
	switch game.Phase {
	case domain.PhaseThrowing:
		if len(p.Hand) <= domain.HandSize {
			return nil
		}
		return append([]domain.Card(nil), p.Hand...)
	case domain.PhasePegging:
		if game.CurrentTurn != playerID {
			return nil
		}
		var legal []domain.Card
		for _, c := range p.Hand {
			if game.PegTotal+c.Value() <= domain.PegLimit {
				legal = append(legal, c)
			}
		}
		return legal
	}
	return nil
}

// CanAct reports whether the player has a move available: a throw, a play,
// a joker of their own to resolve, or the crib owner's pending resolution.
func (s *Service) CanAct(game *domain.Game, playerID string) bool {
	if game.Ended {
		return false
	}
	if len(s.LegalPlays(game, playerID)) > 0 {
		return true
	}
	if p, ok := game.Player(playerID); ok && domain.FirstJoker(p.Hand) >= 0 {
		return true
	}
	res := s.AwaitResolution(game)
	return res.Pending && res.Authority == playerID
}

func (s *Service) run(game *domain.Game, op, playerID string, fn func(r *round) error) []Event {
	rec := newRecorder(game)
	r := &round{g: game, rec: rec}
	if err := fn(r); err != nil {
		s.reject(game, op, playerID, err)
		return nil
	}
	if game.Ended {
		s.logger.WithFields(map[string]interface{}{
			"game_id": game.ID,
			"winner":  game.Winner,
		}).Info("cribbage game ended")
	}
	return rec.events()
}

func (s *Service) reject(game *domain.Game, op, playerID string, err error) {
	s.logger.WithFields(map[string]interface{}{
		"game_id": game.ID,
		"op":      op,
		"player":  playerID,
	}).Debug("action rejected: %v", err)
}
