package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "cribbage_quick_match"

	// RpcSeatTicket issues a signed ticket naming the team a player sits with.
	RpcSeatTicket = "cribbage_seat_ticket"

	// MatchNameCribbage is the authoritative match handler name registered with Nakama.
	MatchNameCribbage = "cribbage_match"

	// GameConfigPath is read once when the first match starts.
	GameConfigPath = "data/game_config.json"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpPushSnapshot int64 = 1
	OpAction       int64 = 2
	OpStartGame    int64 = 3

	// Server -> Client events
	OpSnapshot  int64 = 100
	OpGameEnded int64 = 101
	OpError     int64 = 102
	OpLog       int64 = 103
)

// Match label keys.
const (
	MatchLabelKey_OpenSeats = "open"
	MatchLabelKey_Game      = "game"
	MatchLabelKey_Phase     = "phase"

	labelGame  = "cribbage"
	labelLobby = "lobby"
)
