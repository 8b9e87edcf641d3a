package app

import "cribbage/internal/domain"

// EventKind identifies emitted domain events for the presentation layer.
type EventKind string

const (
	EventStateChanged     EventKind = "state_changed"
	EventLogAdded         EventKind = "log_added"
	EventHandStateChanged EventKind = "hand_state_changed"
	EventGameEnded        EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

type StateChangedPayload struct {
	Phase               domain.Phase
	CurrentTurn         string
	CribOwner           string
	PegTotal            int
	PendingSubstitution bool
}

type LogAddedPayload struct {
	Line string
}

type HandStateChangedPayload struct {
	PlayerID string
	Hand     []domain.Card
	Played   []domain.Card
}

// Standing is one player's final position.
type Standing struct {
	PlayerID  string
	Name      string
	Team      string
	Score     int
	TeamScore int
	Skunked   bool
}

type GameEndedPayload struct {
	WinningTeam string
	Winners     []Standing
	Losers      []Standing
}

// recorder collects what an entry point touched and turns it into events.
type recorder struct {
	game    *domain.Game
	logFrom int
	hands   []string
}

func newRecorder(g *domain.Game) *recorder {
	return &recorder{game: g, logFrom: len(g.Log)}
}

func (r *recorder) touch(playerID string) {
	for _, id := range r.hands {
		if id == playerID {
			return
		}
	}
	r.hands = append(r.hands, playerID)
}

func (r *recorder) touchAll() {
	for _, p := range r.game.Players {
		r.touch(p.ID)
	}
}

func (r *recorder) events() []Event {
	g := r.game
	events := []Event{{
		Kind: EventStateChanged,
		Payload: StateChangedPayload{
			Phase:               g.Phase,
			CurrentTurn:         g.CurrentTurn,
			CribOwner:           g.CribOwner,
			PegTotal:            g.PegTotal,
			PendingSubstitution: g.PendingSubstitution,
		},
	}}
	for _, line := range g.Log[r.logFrom:] {
		events = append(events, Event{Kind: EventLogAdded, Payload: LogAddedPayload{Line: line}})
	}
	for _, id := range r.hands {
		p, ok := g.Player(id)
		if !ok {
			continue
		}
		events = append(events, Event{
			Kind: EventHandStateChanged,
			Payload: HandStateChangedPayload{
				PlayerID: p.ID,
				Hand:     append([]domain.Card(nil), p.Hand...),
				Played:   append([]domain.Card(nil), p.Played...),
			},
			Recipients: []string{p.ID},
		})
	}
	if g.Ended {
		events = append(events, Event{Kind: EventGameEnded, Payload: Standings(g)})
	}
	return events
}

// Standings partitions the roster into the winning team and everyone else.
func Standings(g *domain.Game) GameEndedPayload {
	out := GameEndedPayload{WinningTeam: g.Winner}
	for _, p := range g.Players {
		teamScore := 0
		if t, ok := g.TeamOf(p.ID); ok {
			teamScore = t.Score
		}
		s := Standing{PlayerID: p.ID, Name: p.Name, Team: p.Team, Score: p.Score, TeamScore: teamScore}
		if p.Team == g.Winner {
			out.Winners = append(out.Winners, s)
			continue
		}
		s.Skunked = teamScore < g.SkunkLine
		out.Losers = append(out.Losers, s)
	}
	return out
}
