package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"cribbage/internal/app"
	"cribbage/internal/bot"
	"cribbage/internal/config"
	"cribbage/internal/domain"
	"cribbage/internal/ports"
	"cribbage/internal/snapshot"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// MaxSeats is the largest table a match can hold.
const MaxSeats = domain.MaxPlayers

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats                []string                    `json:"seats"`            // User IDs by seat, empty string means seat is empty
	OwnerSeat            int                         `json:"owner_seat"`       // Seat index of the match owner
	LastWinnerTeam       string                      `json:"last_winner_team"` // Winning team of the last game
	Tick                 int64                       `json:"tick"`             // Current tick of the match for turn-based logic
	Presences            map[string]runtime.Presence `json:"-"`                // Map UserId -> Presence for targeted messaging
	Names                map[string]string           `json:"names"`            // Display names by user ID
	Teams                map[string]string           `json:"teams"`            // Team names from seat tickets; empty means a team of one
	App                  *app.Service                `json:"-"`                // Cribbage rules service
	Game                 *domain.Game                `json:"-"`                // Current active game state (nil if in lobby)
	LastSnapshot         []byte                      `json:"-"`                // Most recent snapshot exactly as it went out on the wire
	Config               config.GameConfig           `json:"-"`                // Tunables with runtime env overrides applied
	BotsEnabled          bool                        `json:"bots_enabled"`     // Whether AI players are allowed
	BotMinDelay          int                         `json:"bot_min_delay"`    // Min seconds a bot waits
	BotMaxDelay          int                         `json:"bot_max_delay"`    // Max seconds a bot waits
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`     // Seconds to wait before auto-filling with bots
	BotWaitUntil         int64                       `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"` // Tick when a single player started waiting
	Bots                 map[string]*bot.Agent       `json:"-"`                       // Active bot agents
	Results              ports.ResultsPort           `json:"-"`                       // Lifetime counters in Nakama wallets
	Tickets              *app.TicketService          `json:"-"`                       // Nil when join tickets are not required
	FinishedGames        map[string]bool             `json:"finished_games"`          // IDs of games whose results are already recorded
	rng                  *rand.Rand
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// seatOf returns the seat index of the user or -1.
func (ms *MatchState) seatOf(userID string) int {
	if userID == "" {
		return -1
	}
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when no human is connected.
func shouldTerminateNoHumans(presences map[string]runtime.Presence) bool {
	for userID := range presences {
		if !isBotUserId(userID) {
			return false
		}
	}
	return true
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// newMatchState builds the lobby state for a match using cfg.
func newMatchState(cfg config.GameConfig, logger runtime.Logger) *MatchState {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	state := &MatchState{
		Seats:            make([]string, cfg.MaxPlayers),
		OwnerSeat:        -1,
		Presences:        make(map[string]runtime.Presence),
		Names:            make(map[string]string),
		Teams:            make(map[string]string),
		App:              app.NewService(rng, logger),
		Config:           cfg,
		BotsEnabled:      cfg.BotsEnabled,
		BotMinDelay:      cfg.BotMinDelaySeconds,
		BotMaxDelay:      cfg.BotMaxDelaySeconds,
		BotAutoFillDelay: 5,
		Bots:             make(map[string]*bot.Agent),
		FinishedGames:    make(map[string]bool),
		rng:              rng,
	}
	if cfg.TicketSecret != "" {
		state.Tickets = app.NewTicketService(cfg.TicketSecret, cfg.TicketIssuer, time.Duration(cfg.TicketTTLSeconds)*time.Second)
	}
	return state
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig(GameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := config.GetGameConfig().FromEnv(env)
	if err := cfg.Validate(); err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}

	state := newMatchState(cfg, logger)
	state.Results = NewNakamaResultsAdapter(nk)

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second; bot delays are counted in ticks
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	userID := presence.GetUserId()

	// Seated players may always reconnect.
	if matchState.seatOf(userID) >= 0 {
		return matchState, true, ""
	}
	if matchState.Game != nil {
		return matchState, false, "Game in progress"
	}

	team := ""
	if matchState.Tickets != nil {
		matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
		ticket, err := matchState.Tickets.Verify(metadata["ticket"], userID, matchID)
		if err != nil {
			logger.Warn("MatchJoinAttempt: Rejected %s: %v", userID, err)
			return matchState, false, "Invalid seat ticket"
		}
		team = ticket.Team
	}

	// Allow join if there is an empty seat or a bot to replace.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		for _, seat := range matchState.Seats {
			if isBotUserId(seat) {
				hasBot = true
				break
			}
		}
		if !hasBot {
			return matchState, false, "Match full"
		}
	}

	if matchState.Tickets != nil {
		matchState.Teams[userID] = team
	}
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p
		matchState.Names[userID] = p.GetUsername()

		if matchState.seatOf(userID) >= 0 {
			logger.Debug("MatchJoin: User %s reconnected.", userID)
			continue
		}
		if !mh.assignSeat(matchState, userID, logger) {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", userID)
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats, matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats)
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)

	// Late joiners catch up from the last snapshot.
	if len(matchState.LastSnapshot) > 0 {
		dispatcher.BroadcastMessage(OpSnapshot, matchState.LastSnapshot, presences, nil, true)
	}

	return matchState
}

// assignSeat tries empty seats first, then replaces a lobby bot.
func (mh *matchHandler) assignSeat(state *MatchState, userID string, logger runtime.Logger) bool {
	for i, seat := range state.Seats {
		if seat == "" {
			state.Seats[i] = userID
			return true
		}
	}
	if state.Game != nil {
		return false
	}
	for i, seat := range state.Seats {
		if isBotUserId(seat) {
			logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seat, userID, i)
			delete(state.Bots, seat)
			delete(state.Names, seat)
			state.Seats[i] = userID
			return true
		}
	}
	return false
}

// MatchLeave is called when one or more players leave the match.
// Seats are only freed in the lobby; during a game the seat is held for a reconnect.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		if matchState.Game != nil {
			continue
		}
		if i := matchState.seatOf(userID); i >= 0 {
			matchState.Seats[i] = ""
			delete(matchState.Teams, userID)
			logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, i)
		}
	}

	if newOwnerSeat := findFirstHumanSeat(matchState.Seats); newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		logger.Debug("MatchLeave: Owner set to seat %d.", newOwnerSeat)
	}

	if shouldTerminateNoHumans(matchState.Presences) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpAction:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg)
		case OpPushSnapshot:
			mh.handlePushSnapshot(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots if a single human has been waiting.
	if state.Game == nil {
		if state.GetHumanPlayerCount() != 1 {
			state.LastSinglePlayerTick = 0
			return
		}
		if state.LastSinglePlayerTick == 0 {
			state.LastSinglePlayerTick = state.Tick
			logger.Debug("processBots: Single player detected, starting auto-fill timer.")
		}
		if state.Tick-state.LastSinglePlayerTick < int64(state.BotAutoFillDelay) {
			return
		}
		added := false
		for i, seat := range state.Seats {
			if state.GetOccupiedSeatCount() >= app.MinPlayersToStartGame {
				break
			}
			if seat != "" {
				continue
			}
			identity := bot.NewIdentity(i, bot.BotLevelGood)
			agent, err := bot.NewAgent(identity, bot.BotLevelGood, state.rng)
			if err != nil {
				logger.Error("processBots: Failed to create bot agent for %s: %v", identity.UserID, err)
				continue
			}
			state.Seats[i] = identity.UserID
			state.Names[identity.UserID] = identity.DisplayName
			state.Bots[identity.UserID] = agent
			logger.Info("processBots: Added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
			added = true
		}
		if added {
			mh.updateLabel(state, dispatcher, logger)
		}
		state.LastSinglePlayerTick = 0
		return
	}

	// 2. Handle bot moves in-game.
	var agent *bot.Agent
	var action app.Action
	for _, userID := range state.Seats {
		a, ok := state.Bots[userID]
		if !ok {
			continue
		}
		if act, ok := a.Act(state.Game); ok {
			agent, action = a, act
			break
		}
	}
	if agent == nil {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
			delay += state.rng.Intn(span + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will %s at tick %d (current %d)", agent.ID, action.Kind, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	events := state.App.Apply(state.Game, action)
	if len(events) == 0 {
		logger.Warn("processBots: Bot %s %s was rejected", agent.ID, action.Kind)
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events, nil)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "game already running")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the match owner can start")
		return
	}

	var roster []app.PlayerSpec
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		roster = append(roster, app.PlayerSpec{ID: userID, Name: state.Names[userID], Team: state.Teams[userID]})
	}

	game, events, err := state.App.NewGame(roster, app.GameOptions{
		Variant:   state.Config.Variant(),
		PointGoal: state.Config.PointGoal,
		SkunkLine: state.Config.SkunkLine,
	})
	if err != nil {
		logger.Warn("StartGame: Cannot start with %d players: %v", len(roster), err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Game = game
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events, nil)

	logger.Info("StartGame: Game %s started with %d players.", game.ID, len(roster))
}

func (mh *matchHandler) handleAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleAction: Game not started.")
		mh.sendError(state, dispatcher, logger, senderID, 409, "game not started")
		return
	}
	if state.seatOf(senderID) < 0 {
		mh.sendError(state, dispatcher, logger, senderID, 403, "not seated")
		return
	}

	action, err := app.ParseAction(msg.GetData(), senderID)
	if err != nil {
		logger.Warn("handleAction: Invalid action from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	events := state.App.Apply(state.Game, action)
	if len(events) == 0 {
		mh.sendError(state, dispatcher, logger, senderID, 400, "action rejected")
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events, nil)
}

// handlePushSnapshot folds a replica's snapshot into the match and re-broadcasts it verbatim.
func (mh *matchHandler) handlePushSnapshot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) < 0 {
		mh.sendError(state, dispatcher, logger, senderID, 403, "not seated")
		return
	}

	snap, err := snapshot.UnmarshalProto(msg.GetData())
	if err != nil {
		logger.Warn("handlePushSnapshot: Malformed snapshot from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	if state.FinishedGames[snap.GameID] {
		logger.Debug("handlePushSnapshot: Ignoring snapshot of finished game %s from %s", snap.GameID, senderID)
		return
	}
	for _, p := range snap.Players {
		if state.seatOf(p.ID) < 0 {
			mh.sendError(state, dispatcher, logger, senderID, 400, "snapshot names a player who is not seated")
			return
		}
	}

	game := state.Game
	if game == nil {
		game = &domain.Game{}
	}
	events, err := state.App.Rehydrate(game, snap)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	state.Game = game
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events, msg.GetData())
}

// broadcastEvents dispatches app events to Nakama. A non-nil echo is sent in
// place of a freshly captured snapshot.
func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event, echo []byte) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventStateChanged:
			data := echo
			if data == nil {
				var err error
				data, err = snapshot.MarshalProto(snapshot.Capture(state.Game))
				if err != nil {
					logger.Error("Failed to marshal snapshot: %v", err)
					continue
				}
			}
			state.LastSnapshot = data
			dispatcher.BroadcastMessage(OpSnapshot, data, nil, nil, true)
		case app.EventLogAdded:
			p := ev.Payload.(app.LogAddedPayload)
			mh.broadcastStruct(dispatcher, logger, OpLog, map[string]interface{}{"line": p.Line}, nil)
		case app.EventHandStateChanged:
			// Hands ride along in the snapshot.
		case app.EventGameEnded:
			p := ev.Payload.(app.GameEndedPayload)
			mh.broadcastStruct(dispatcher, logger, OpGameEnded, gameEndedMessage(p), nil)
			if state.Game == nil || !state.FinishedGames[state.Game.ID] {
				mh.recordResults(ctx, state, logger, p)
			}
			if state.Game != nil {
				state.FinishedGames[state.Game.ID] = true
			}
			state.LastWinnerTeam = p.WinningTeam
			state.Game = nil
			mh.updateLabel(state, dispatcher, logger)
		default:
			logger.Warn("Unknown event kind: %v", ev.Kind)
		}
	}
}

func gameEndedMessage(p app.GameEndedPayload) map[string]interface{} {
	standings := func(list []app.Standing) []interface{} {
		out := make([]interface{}, 0, len(list))
		for _, s := range list {
			out = append(out, map[string]interface{}{
				"player_id":  s.PlayerID,
				"name":       s.Name,
				"team":       s.Team,
				"score":      s.Score,
				"team_score": s.TeamScore,
				"skunked":    s.Skunked,
			})
		}
		return out
	}
	return map[string]interface{}{
		"winning_team": p.WinningTeam,
		"winners":      standings(p.Winners),
		"losers":       standings(p.Losers),
	}
}

// recordResults updates lifetime counters for the humans at the table.
func (mh *matchHandler) recordResults(ctx context.Context, state *MatchState, logger runtime.Logger, p app.GameEndedPayload) {
	if state.Results == nil {
		return
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	var entries []ports.ResultEntry
	add := func(list []app.Standing, won bool) {
		for _, s := range list {
			if isBotUserId(s.PlayerID) {
				continue
			}
			entries = append(entries, ports.ResultEntry{
				UserID:  s.PlayerID,
				Won:     won,
				Skunked: s.Skunked,
				Score:   int64(s.Score),
				Metadata: map[string]interface{}{
					"match_id": matchID,
					"team":     s.Team,
					"reason":   "game_result",
				},
			})
		}
	}
	add(p.Winners, true)
	add(p.Losers, false)

	if err := state.Results.RecordResults(ctx, entries); err != nil {
		logger.Error("Failed to record results: %v", err)
	}
}

// broadcastStruct sends m as a structpb.Struct in proto wire format.
func (mh *matchHandler) broadcastStruct(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, m map[string]interface{}, recipients []runtime.Presence) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		logger.Error("Failed to build message %d: %v", opCode, err)
		return
	}
	bytes, err := proto.Marshal(st)
	if err != nil {
		logger.Error("Failed to marshal message %d: %v", opCode, err)
		return
	}
	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendError sends an error message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	mh.broadcastStruct(dispatcher, logger, OpError, map[string]interface{}{
		"code":    code,
		"message": message,
	}, []runtime.Presence{presence})
}

// matchLabel renders the searchable label, e.g. {"game":"cribbage","open":3,"phase":"lobby"}.
func matchLabel(state *MatchState) (string, error) {
	phase := labelLobby
	if state.Game != nil {
		phase = string(state.Game.Phase)
	}
	open := state.GetOpenSeatsCount()
	if state.Game != nil {
		open = 0
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_OpenSeats: open,
		MatchLabelKey_Game:      labelGame,
		MatchLabelKey_Phase:     phase,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
