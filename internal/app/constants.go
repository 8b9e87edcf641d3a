package app

// MinPlayersToStartGame defines the minimum number of occupied seats required to start a game.
// Keep this centralized so tests or local runs can adjust the rule without touching multiple call sites.
const MinPlayersToStartGame = 2

// MaxPlayersPerGame caps the table; eight hands of five still leave a turn card.
const MaxPlayersPerGame = 8

// maxSeed keeps shuffle seeds exactly representable as a JSON number.
const maxSeed = 1 << 53
