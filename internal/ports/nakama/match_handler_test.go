package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"cribbage/internal/app"
	"cribbage/internal/bot"
	"cribbage/internal/config"
	"cribbage/internal/domain"
	"cribbage/internal/ports"
	"cribbage/internal/snapshot"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent        []sentMessage
	labels      []string
	labelUpdate error
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{opCode: opCode, data: append([]byte(nil), data...), recipients: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return md.labelUpdate
}

func (md *mockDispatcher) last(opCode int64) (sentMessage, bool) {
	for i := len(md.sent) - 1; i >= 0; i-- {
		if md.sent[i].opCode == opCode {
			return md.sent[i], true
		}
	}
	return sentMessage{}, false
}

// mockPresence is a connected user.
type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return false }
func (p mockPresence) GetUsername() string               { return p.username }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string                 { return "node" }

// mockMatchData is one client message.
type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMatchData) GetOpCode() int64      { return m.opCode }
func (m mockMatchData) GetData() []byte       { return m.data }
func (m mockMatchData) GetReference() string  { return "" }
func (m mockMatchData) GetReceiveTime() int64 { return 0 }
func (m mockMatchData) GetReliable() bool     { return true }

type mockResults struct {
	entries []ports.ResultEntry
}

func (m *mockResults) RecordResults(ctx context.Context, results []ports.ResultEntry) error {
	m.entries = append(m.entries, results...)
	return nil
}

// seatedState returns a lobby with the given humans joined in order.
func seatedState(t *testing.T, users ...string) (*matchHandler, *MatchState, *mockDispatcher) {
	t.Helper()
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newMatchState(config.Default(), noopLogger{})
	var presences []runtime.Presence
	for _, u := range users {
		presences = append(presences, mockPresence{userID: u, username: "name-" + u})
	}
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, presences)
	return handler, state, dispatcher
}

func decodeStruct(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		t.Fatalf("unmarshal struct: %v", err)
	}
	return st.AsMap()
}

func TestFindFirstHumanSeat(t *testing.T) {
	bot1 := bot.NewIdentity(0, bot.BotLevelGood).UserID
	bot2 := bot.NewIdentity(1, bot.BotLevelGood).UserID

	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{name: "FirstHumanAfterBot", seats: []string{bot1, "user-1", "", ""}, want: 1},
		{name: "AllBots", seats: []string{bot1, bot2, "", ""}, want: -1},
		{name: "AllEmpty", seats: []string{"", "", "", ""}, want: -1},
		{name: "FirstHumanIsSeatZero", seats: []string{"user-1", bot1, "user-2", ""}, want: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestShouldTerminateNoHumans(t *testing.T) {
	botID := bot.NewIdentity(0, bot.BotLevelEasy).UserID
	tests := []struct {
		name      string
		presences map[string]runtime.Presence
		want      bool
	}{
		{name: "Empty", presences: map[string]runtime.Presence{}, want: true},
		{name: "BotsOnly", presences: map[string]runtime.Presence{botID: mockPresence{userID: botID}}, want: true},
		{name: "HumanPresent", presences: map[string]runtime.Presence{"user-1": mockPresence{userID: "user-1"}}, want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := shouldTerminateNoHumans(test.presences); got != test.want {
				t.Fatalf("shouldTerminateNoHumans() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestMatchLabel(t *testing.T) {
	_, state, _ := seatedState(t, "user-1", "user-2")

	tests := []struct {
		name  string
		game  *domain.Game
		open  float64
		phase string
	}{
		{name: "Lobby", open: float64(config.Default().MaxPlayers - 2), phase: "lobby"},
		{name: "Pegging", game: &domain.Game{Phase: domain.PhasePegging}, open: 0, phase: "pegging"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state.Game = test.game
			label, err := matchLabel(state)
			if err != nil {
				t.Fatalf("matchLabel: %v", err)
			}
			var got map[string]interface{}
			if err := json.Unmarshal([]byte(label), &got); err != nil {
				t.Fatalf("label is not JSON: %v", err)
			}
			if got["game"] != "cribbage" || got["open"] != test.open || got["phase"] != test.phase {
				t.Fatalf("label = %v", got)
			}
		})
	}
}

func TestMatchJoinSeatsAndOwner(t *testing.T) {
	_, state, dispatcher := seatedState(t, "user-1", "user-2")

	if state.Seats[0] != "user-1" || state.Seats[1] != "user-2" {
		t.Fatalf("seats = %v", state.Seats)
	}
	if state.OwnerSeat != 0 {
		t.Fatalf("OwnerSeat = %d, want 0", state.OwnerSeat)
	}
	if state.Names["user-2"] != "name-user-2" {
		t.Fatalf("names = %v", state.Names)
	}
	if len(dispatcher.labels) == 0 {
		t.Fatal("expected a label update")
	}
}

func TestMatchJoinAttempt(t *testing.T) {
	handler := &matchHandler{}
	cfg := config.Default()
	cfg.TicketSecret = "secret"
	cfg.MaxPlayers = 2
	state := newMatchState(cfg, noopLogger{})
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_MATCH_ID, "match-1")

	ticket, err := state.Tickets.Issue("user-1", "match-1", "north")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, ok, _ := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, nil, 0, state, mockPresence{userID: "user-1"}, nil); ok {
		t.Fatal("join without a ticket was accepted")
	}
	if _, ok, _ := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, nil, 0, state, mockPresence{userID: "user-2"}, map[string]string{"ticket": ticket}); ok {
		t.Fatal("another user's ticket was accepted")
	}
	if _, ok, reason := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, nil, 0, state, mockPresence{userID: "user-1"}, map[string]string{"ticket": ticket}); !ok {
		t.Fatalf("valid ticket rejected: %s", reason)
	}
	if state.Teams["user-1"] != "north" {
		t.Fatalf("team = %q, want north", state.Teams["user-1"])
	}

	state.Seats = []string{"user-8", "user-9"}
	ticket, _ = state.Tickets.Issue("user-3", "match-1", "south")
	if _, ok, reason := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, nil, 0, state, mockPresence{userID: "user-3"}, map[string]string{"ticket": ticket}); ok || reason != "Match full" {
		t.Fatalf("full match: ok=%t reason=%q", ok, reason)
	}
	if team, stale := state.Teams["user-3"]; stale {
		t.Fatalf("rejected join left team %q behind", team)
	}
}

func TestProcessBots_FillsHeadsUpTable(t *testing.T) {
	handler, state, dispatcher := seatedState(t, "user-1")
	state.BotsEnabled = true
	state.BotAutoFillDelay = 2
	state.LastSinglePlayerTick = 8
	state.Tick = 10

	handler.processBots(context.Background(), state, dispatcher, noopLogger{})

	bots := 0
	for _, seat := range state.Seats {
		if isBotUserId(seat) {
			bots++
		}
	}
	if bots != 1 || len(state.Bots) != 1 {
		t.Fatalf("expected one bot, got %d seats and %d agents", bots, len(state.Bots))
	}
	if state.LastSinglePlayerTick != 0 {
		t.Fatalf("expected auto-fill timer reset, got %d", state.LastSinglePlayerTick)
	}
}

func TestStartGameAndAction(t *testing.T) {
	handler, state, dispatcher := seatedState(t, "user-1", "user-2")
	ctx := context.Background()

	// Only the owner may start.
	handler.handleStartGame(ctx, state, dispatcher, noopLogger{}, mockMatchData{mockPresence: mockPresence{userID: "user-2"}, opCode: OpStartGame})
	if state.Game != nil {
		t.Fatal("non-owner started the game")
	}
	if msg, ok := dispatcher.last(OpError); !ok || msg.recipients[0].GetUserId() != "user-2" {
		t.Fatalf("expected error to user-2, got %+v", msg)
	}

	handler.handleStartGame(ctx, state, dispatcher, noopLogger{}, mockMatchData{mockPresence: mockPresence{userID: "user-1"}, opCode: OpStartGame})
	if state.Game == nil || state.Game.Phase != domain.PhaseThrowing {
		t.Fatalf("game not started: %+v", state.Game)
	}
	msg, ok := dispatcher.last(OpSnapshot)
	if !ok {
		t.Fatal("expected a snapshot broadcast")
	}
	snap, err := snapshot.UnmarshalProto(msg.data)
	if err != nil {
		t.Fatalf("broadcast snapshot: %v", err)
	}
	if snap.GameID != state.Game.ID {
		t.Fatalf("snapshot game %q, want %q", snap.GameID, state.Game.ID)
	}

	p, _ := state.Game.Player("user-1")
	payload, _ := json.Marshal(app.Action{Kind: app.ActionThrow, CardID: p.Hand[0].ID})
	before := len(dispatcher.sent)
	handler.handleAction(ctx, state, dispatcher, noopLogger{}, mockMatchData{mockPresence: mockPresence{userID: "user-1"}, opCode: OpAction, data: payload})
	if len(p.Hand) != 5 || len(state.Game.Crib) != 1 {
		t.Fatalf("throw not applied: hand=%d crib=%d", len(p.Hand), len(state.Game.Crib))
	}
	if len(dispatcher.sent) == before {
		t.Fatal("expected broadcasts after the throw")
	}

	handler.handleAction(ctx, state, dispatcher, noopLogger{}, mockMatchData{mockPresence: mockPresence{userID: "user-1"}, opCode: OpAction, data: []byte(`{"kind":"dance"}`)})
	if msg, ok := dispatcher.last(OpError); !ok || decodeStruct(t, msg.data)["code"] != float64(400) {
		t.Fatalf("expected 400 error, got %+v", msg)
	}
}

func TestPushSnapshot(t *testing.T) {
	handler, state, dispatcher := seatedState(t, "user-1", "user-2")
	ctx := context.Background()

	svc := app.NewService(nil, nil)
	game, _, err := svc.NewGame([]app.PlayerSpec{{ID: "user-1"}, {ID: "user-2"}}, app.GameOptions{})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	data, err := snapshot.MarshalProto(snapshot.Capture(game))
	if err != nil {
		t.Fatalf("MarshalProto: %v", err)
	}

	handler.handlePushSnapshot(ctx, state, dispatcher, noopLogger{}, mockMatchData{mockPresence: mockPresence{userID: "user-2"}, opCode: OpPushSnapshot, data: data})
	if state.Game == nil || state.Game.ID != game.ID {
		t.Fatalf("snapshot not folded in: %+v", state.Game)
	}
	msg, ok := dispatcher.last(OpSnapshot)
	if !ok || string(msg.data) != string(data) {
		t.Fatal("snapshot was not re-broadcast verbatim")
	}

	handler.handlePushSnapshot(ctx, state, dispatcher, noopLogger{}, mockMatchData{mockPresence: mockPresence{userID: "user-2"}, opCode: OpPushSnapshot, data: []byte("junk")})
	if state.Game.ID != game.ID {
		t.Fatal("malformed snapshot replaced the game")
	}
	if _, ok := dispatcher.last(OpError); !ok {
		t.Fatal("expected an error for the malformed snapshot")
	}

	stranger, _, _ := svc.NewGame([]app.PlayerSpec{{ID: "user-1"}, {ID: "user-7"}}, app.GameOptions{})
	data, _ = snapshot.MarshalProto(snapshot.Capture(stranger))
	handler.handlePushSnapshot(ctx, state, dispatcher, noopLogger{}, mockMatchData{mockPresence: mockPresence{userID: "user-1"}, opCode: OpPushSnapshot, data: data})
	if state.Game.ID != game.ID {
		t.Fatal("snapshot with an unseated player was accepted")
	}
}

func TestGameEndRecordsHumanResults(t *testing.T) {
	handler, state, dispatcher := seatedState(t, "user-1")
	results := &mockResults{}
	state.Results = results
	botID := bot.NewIdentity(0, bot.BotLevelGood).UserID
	state.Game = &domain.Game{Phase: domain.PhaseEnded, Ended: true}

	handler.broadcastEvents(context.Background(), state, dispatcher, noopLogger{}, []app.Event{{
		Kind: app.EventGameEnded,
		Payload: app.GameEndedPayload{
			WinningTeam: "user-1",
			Winners:     []app.Standing{{PlayerID: "user-1", Team: "user-1", Score: 121, TeamScore: 121}},
			Losers:      []app.Standing{{PlayerID: botID, Team: botID, Score: 80, TeamScore: 80, Skunked: true}},
		},
	}}, nil)

	if len(results.entries) != 1 || results.entries[0].UserID != "user-1" || !results.entries[0].Won {
		t.Fatalf("results = %+v", results.entries)
	}
	if state.Game != nil || state.LastWinnerTeam != "user-1" {
		t.Fatalf("match did not return to the lobby: game=%v winner=%q", state.Game, state.LastWinnerTeam)
	}
	msg, ok := dispatcher.last(OpGameEnded)
	if !ok {
		t.Fatal("expected a game ended broadcast")
	}
	if got := decodeStruct(t, msg.data)["winning_team"]; got != "user-1" {
		t.Fatalf("winning_team = %v", got)
	}
}

// finishGame lets good bots play the seated users' game to the end.
func finishGame(t *testing.T, players ...string) *domain.Game {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	svc := app.NewService(rng, nil)
	var roster []app.PlayerSpec
	var agents []*bot.Agent
	for _, id := range players {
		roster = append(roster, app.PlayerSpec{ID: id})
		agent, err := bot.NewAgent(bot.Identity{UserID: id, DisplayName: id}, bot.BotLevelGood, rng)
		if err != nil {
			t.Fatalf("NewAgent: %v", err)
		}
		agents = append(agents, agent)
	}
	game, _, err := svc.NewGame(roster, app.GameOptions{PointGoal: 15})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	for step := 0; !game.Ended; step++ {
		if step > 5000 {
			t.Fatal("game did not finish")
		}
		moved := false
		for _, agent := range agents {
			if action, ok := agent.Act(game); ok {
				svc.Apply(game, action)
				moved = true
				break
			}
		}
		if !moved {
			t.Fatalf("no agent could act in phase %s", game.Phase)
		}
	}
	return game
}

func TestPushedEndedSnapshotRecordsResultsOnce(t *testing.T) {
	handler, state, dispatcher := seatedState(t, "user-1", "user-2")
	results := &mockResults{}
	state.Results = results
	ctx := context.Background()

	data, err := snapshot.MarshalProto(snapshot.Capture(finishGame(t, "user-1", "user-2")))
	if err != nil {
		t.Fatalf("MarshalProto: %v", err)
	}
	push := mockMatchData{mockPresence: mockPresence{userID: "user-1"}, opCode: OpPushSnapshot, data: data}

	handler.handlePushSnapshot(ctx, state, dispatcher, noopLogger{}, push)
	if len(results.entries) != 2 {
		t.Fatalf("result entries after first push = %d, want 2", len(results.entries))
	}
	if state.Game != nil {
		t.Fatal("match did not return to the lobby")
	}

	ended := 0
	for _, msg := range dispatcher.sent {
		if msg.opCode == OpGameEnded {
			ended++
		}
	}
	handler.handlePushSnapshot(ctx, state, dispatcher, noopLogger{}, push)
	push.mockPresence = mockPresence{userID: "user-2"}
	handler.handlePushSnapshot(ctx, state, dispatcher, noopLogger{}, push)

	if len(results.entries) != 2 {
		t.Fatalf("result entries after repeated pushes = %d, want 2", len(results.entries))
	}
	if state.Game != nil {
		t.Fatal("finished game was brought back")
	}
	again := 0
	for _, msg := range dispatcher.sent {
		if msg.opCode == OpGameEnded {
			again++
		}
	}
	if again != ended {
		t.Fatalf("game ended broadcast %d times, want %d", again, ended)
	}
}

type mockWallet struct {
	changes map[string]map[string]int64
	fail    error
}

func (m *mockWallet) WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error) {
	if m.fail != nil {
		return nil, nil, m.fail
	}
	if m.changes == nil {
		m.changes = make(map[string]map[string]int64)
	}
	m.changes[userID] = changeset
	return nil, changeset, nil
}

func TestResultsAdapter(t *testing.T) {
	wallet := &mockWallet{}
	adapter := &NakamaResultsAdapter{nk: wallet}
	err := adapter.RecordResults(context.Background(), []ports.ResultEntry{
		{UserID: "w", Won: true, Score: 121},
		{UserID: "l", Skunked: true, Score: 60},
	})
	if err != nil {
		t.Fatalf("RecordResults: %v", err)
	}
	if wallet.changes["w"][WalletKeyWins] != 1 || wallet.changes["w"][WalletKeyPoints] != 121 {
		t.Fatalf("winner changes = %v", wallet.changes["w"])
	}
	if wallet.changes["l"][WalletKeyLosses] != 1 || wallet.changes["l"][WalletKeySkunks] != 1 {
		t.Fatalf("loser changes = %v", wallet.changes["l"])
	}

	wallet.fail = errors.New("db down")
	if err := adapter.RecordResults(context.Background(), []ports.ResultEntry{{UserID: "w"}}); !errors.Is(err, wallet.fail) {
		t.Fatalf("expected wrapped wallet error, got %v", err)
	}
}
