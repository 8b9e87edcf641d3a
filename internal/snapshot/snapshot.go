// Package snapshot converts game state to and from its serialized form, the
// only shape in which state crosses between replicas.
package snapshot

import (
	"errors"
	"fmt"

	"cribbage/internal/domain"
)

// ErrMalformed wraps every rejection of a snapshot.
var ErrMalformed = errors.New("malformed snapshot")

type Card struct {
	ID       int    `json:"id"`
	Rank     string `json:"rank"`
	Suit     string `json:"suit"`
	Color    string `json:"color"`
	Revealed bool   `json:"revealed"`
}

type Variant struct {
	Deck    string `json:"deck"`
	Scoring string `json:"scoring"`
}

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Team   string `json:"team"`
	Seat   int    `json:"seat"`
	Hand   []Card `json:"hand"`
	Played []Card `json:"played"`
	Score  int    `json:"score"`
}

type Team struct {
	Name    string   `json:"name"`
	Score   int      `json:"score"`
	Members []string `json:"members"`
}

// Snapshot is the complete serialized state of one game.
type Snapshot struct {
	GameID              string   `json:"gameId"`
	Variant             Variant  `json:"variant"`
	Seed                int64    `json:"seed"`
	DealNo              int      `json:"dealNo"`
	Players             []Player `json:"players"`
	Teams               []Team   `json:"teams"`
	Deck                []Card   `json:"deck"`
	Turned              *Card    `json:"turned"`
	Crib                []Card   `json:"crib"`
	Pegging             []Card   `json:"pegging"`
	PegTotal            int      `json:"pegTotal"`
	Phase               string   `json:"phase"`
	CurrentTurn         string   `json:"currentTurn"`
	CribOwner           string   `json:"cribOwner"`
	LastPlayer          string   `json:"lastPlayer"`
	PendingSubstitution bool     `json:"pendingSubstitution"`
	PointGoal           int      `json:"pointGoal"`
	SkunkLine           int      `json:"skunkLine"`
	Log                 []string `json:"log"`
	Started             bool     `json:"started"`
	Ended               bool     `json:"ended"`
	Winner              string   `json:"winner"`
}

// Capture copies the game into a snapshot. The game is not retained.
func Capture(g *domain.Game) *Snapshot {
	s := &Snapshot{
		GameID:              g.ID,
		Variant:             Variant{Deck: string(g.Variant.Deck), Scoring: string(g.Variant.Scoring)},
		Seed:                g.Seed,
		DealNo:              g.DealNo,
		Players:             make([]Player, 0, len(g.Players)),
		Teams:               make([]Team, 0, len(g.Teams)),
		Deck:                captureCards(g.Deck),
		Crib:                captureCards(g.Crib),
		Pegging:             captureCards(g.Pegging),
		PegTotal:            g.PegTotal,
		Phase:               string(g.Phase),
		CurrentTurn:         g.CurrentTurn,
		CribOwner:           g.CribOwner,
		LastPlayer:          g.LastPlayer,
		PendingSubstitution: g.PendingSubstitution,
		PointGoal:           g.PointGoal,
		SkunkLine:           g.SkunkLine,
		Log:                 append([]string{}, g.Log...),
		Started:             g.Started,
		Ended:               g.Ended,
		Winner:              g.Winner,
	}
	for i, p := range g.Players {
		s.Players = append(s.Players, Player{
			ID:     p.ID,
			Name:   p.Name,
			Team:   p.Team,
			Seat:   i,
			Hand:   captureCards(p.Hand),
			Played: captureCards(p.Played),
			Score:  p.Score,
		})
	}
	for _, t := range g.Teams {
		s.Teams = append(s.Teams, Team{Name: t.Name, Score: t.Score, Members: append([]string{}, t.Members...)})
	}
	if g.Turned != nil {
		c := captureCard(*g.Turned)
		s.Turned = &c
	}
	return s
}

func captureCards(cards []domain.Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, captureCard(c))
	}
	return out
}

func captureCard(c domain.Card) Card {
	return Card{ID: c.ID, Rank: string(c.Rank), Suit: string(c.Suit), Color: string(c.Color), Revealed: c.Revealed}
}

// Restore rebuilds a game from the snapshot after checking it is internally
// consistent. Every error wraps ErrMalformed.
func Restore(s *Snapshot) (*domain.Game, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrMalformed)
	}
	deckVariant, err := domain.ParseDeckVariant(s.Variant.Deck)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	scoringVariant, err := domain.ParseScoringVariant(s.Variant.Scoring)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	phase := domain.Phase(s.Phase)
	if !domain.ValidPhase(phase) {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrMalformed, s.Phase)
	}
	if len(s.Players) < domain.MinPlayers || len(s.Players) > domain.MaxPlayers {
		return nil, fmt.Errorf("%w: %d players", ErrMalformed, len(s.Players))
	}
	if s.PegTotal < 0 || s.PegTotal > domain.PegLimit {
		return nil, fmt.Errorf("%w: pegging total %d", ErrMalformed, s.PegTotal)
	}
	if s.PointGoal <= 0 {
		return nil, fmt.Errorf("%w: point goal %d", ErrMalformed, s.PointGoal)
	}
	if s.SkunkLine < 0 {
		return nil, fmt.Errorf("%w: skunk line %d", ErrMalformed, s.SkunkLine)
	}

	g := &domain.Game{
		ID:                  s.GameID,
		Variant:             domain.Variant{Deck: deckVariant, Scoring: scoringVariant},
		Seed:                s.Seed,
		DealNo:              s.DealNo,
		Phase:               phase,
		PegTotal:            s.PegTotal,
		CurrentTurn:         s.CurrentTurn,
		CribOwner:           s.CribOwner,
		LastPlayer:          s.LastPlayer,
		PendingSubstitution: s.PendingSubstitution,
		PointGoal:           s.PointGoal,
		SkunkLine:           s.SkunkLine,
		Log:                 append([]string{}, s.Log...),
		Started:             s.Started,
		Ended:               s.Ended,
		Winner:              s.Winner,
	}

	for i, sp := range s.Players {
		if sp.ID == "" {
			return nil, fmt.Errorf("%w: player %d has no id", ErrMalformed, i)
		}
		if _, dup := g.Player(sp.ID); dup {
			return nil, fmt.Errorf("%w: duplicate player %q", ErrMalformed, sp.ID)
		}
		if sp.Seat != i {
			return nil, fmt.Errorf("%w: player %q at position %d claims seat %d", ErrMalformed, sp.ID, i, sp.Seat)
		}
		p := &domain.Player{ID: sp.ID, Name: sp.Name, Team: sp.Team, Score: sp.Score}
		if p.Hand, err = restoreCards(sp.Hand); err != nil {
			return nil, err
		}
		if p.Played, err = restoreCards(sp.Played); err != nil {
			return nil, err
		}
		g.Players = append(g.Players, p)
	}
	for _, st := range s.Teams {
		if _, dup := g.Team(st.Name); dup {
			return nil, fmt.Errorf("%w: duplicate team %q", ErrMalformed, st.Name)
		}
		g.Teams = append(g.Teams, &domain.Team{Name: st.Name, Score: st.Score, Members: append([]string{}, st.Members...)})
	}

	if g.Deck, err = restoreCards(s.Deck); err != nil {
		return nil, err
	}
	if g.Crib, err = restoreCards(s.Crib); err != nil {
		return nil, err
	}
	if g.Pegging, err = restoreCards(s.Pegging); err != nil {
		return nil, err
	}
	if s.Turned != nil {
		c, err := restoreCard(*s.Turned)
		if err != nil {
			return nil, err
		}
		g.Turned = &c
	}

	if err := checkReferences(g); err != nil {
		return nil, err
	}
	if err := g.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return g, nil
}

// Validate reports whether the snapshot would restore cleanly.
func Validate(s *Snapshot) error {
	_, err := Restore(s)
	return err
}

func checkReferences(g *domain.Game) error {
	for _, ref := range []struct{ field, id string }{
		{"currentTurn", g.CurrentTurn},
		{"cribOwner", g.CribOwner},
		{"lastPlayer", g.LastPlayer},
	} {
		if ref.id == "" {
			if ref.field != "lastPlayer" && g.Started {
				return fmt.Errorf("%w: %s is empty", ErrMalformed, ref.field)
			}
			continue
		}
		if _, ok := g.Player(ref.id); !ok {
			return fmt.Errorf("%w: %s references unknown player %q", ErrMalformed, ref.field, ref.id)
		}
	}
	if g.Winner != "" {
		if _, ok := g.Team(g.Winner); !ok {
			return fmt.Errorf("%w: winner references unknown team %q", ErrMalformed, g.Winner)
		}
	}
	if g.Ended != (g.Phase == domain.PhaseEnded) {
		return fmt.Errorf("%w: ended flag disagrees with phase %q", ErrMalformed, g.Phase)
	}

	played := make(map[int]bool)
	for _, p := range g.Players {
		for _, c := range p.Played {
			played[c.ID] = true
		}
	}
	total := 0
	for _, c := range g.Pegging {
		if !played[c.ID] {
			return fmt.Errorf("%w: pegged card %d is in no played pile", ErrMalformed, c.ID)
		}
		total += c.Value()
	}
	if total != g.PegTotal {
		return fmt.Errorf("%w: pegging total %d does not match sequence sum %d", ErrMalformed, g.PegTotal, total)
	}
	return nil
}

func restoreCards(cards []Card) ([]domain.Card, error) {
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		dc, err := restoreCard(c)
		if err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, nil
}

func restoreCard(c Card) (domain.Card, error) {
	rank, suit, color := domain.Rank(c.Rank), domain.Suit(c.Suit), domain.Color(c.Color)
	if !domain.ValidRank(rank) || !domain.ValidSuit(suit) {
		return domain.Card{}, fmt.Errorf("%w: card %d has rank %q suit %q", ErrMalformed, c.ID, c.Rank, c.Suit)
	}
	if (rank == domain.RankJoker) != (suit == domain.SuitJoker) {
		return domain.Card{}, fmt.Errorf("%w: card %d mixes joker and concrete fields", ErrMalformed, c.ID)
	}
	if rank == domain.RankJoker && color != domain.ColorRed && color != domain.ColorBlack {
		return domain.Card{}, fmt.Errorf("%w: joker %d has color %q", ErrMalformed, c.ID, c.Color)
	}
	return domain.Card{ID: c.ID, Rank: rank, Suit: suit, Color: color, Revealed: c.Revealed}, nil
}
