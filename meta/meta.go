package meta

// DEFAULT_SIZE is the side length of the board.
const DEFAULT_SIZE = 3

// GO_ROUTINES bounds the number of arena games played at once.
const GO_ROUTINES = 8

// ARENA_GAMES is the number of games per match up.
const ARENA_GAMES = 10

// DEFAULT_ADDR is where the agent server listens.
const DEFAULT_ADDR = ":8080"

const DEFAULT_OUTPUT_DIR = "results"

const ENV_PREFIX = "TICTACTOE"
