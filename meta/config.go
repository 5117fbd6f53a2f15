package meta

import (
	"fmt"
	"strings"

	"tictactoe/game"
	"tictactoe/searcher"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Size       int    `mapstructure:"size"`
	Human      string `mapstructure:"human"`
	Pruning    bool   `mapstructure:"pruning"`
	WinScore   int    `mapstructure:"win_score"`
	LogLevel   string `mapstructure:"log_level"`
	Addr       string `mapstructure:"addr"`
	Remote     string `mapstructure:"remote"`
	Experiment string `mapstructure:"experiment"`
	Games      int    `mapstructure:"games"`
	Limit      int    `mapstructure:"limit"`
	OutputDir  string `mapstructure:"output_dir"`
	Board      string `mapstructure:"board"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("size", DEFAULT_SIZE)
	v.SetDefault("human", game.PlayerA.String())
	v.SetDefault("pruning", true)
	v.SetDefault("win_score", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("addr", DEFAULT_ADDR)
	v.SetDefault("remote", "")
	v.SetDefault("experiment", "baseline")
	v.SetDefault("games", ARENA_GAMES)
	v.SetDefault("limit", GO_ROUTINES)
	v.SetDefault("output_dir", DEFAULT_OUTPUT_DIR)
	v.SetDefault("board", "")
}

// Flags registers a command line flag for every configuration key.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a configuration file")
	fs.Int("size", DEFAULT_SIZE, "board side length; the engine searches at most 3")
	fs.String("human", game.PlayerA.String(), "symbol played by the human (X moves first)")
	fs.Bool("pruning", true, "use alpha-beta pruning")
	fs.Int("win-score", 0, "base score of a win, raised to size*size+1 if lower")
	fs.String("log-level", "info", "zerolog level")
	fs.String("addr", DEFAULT_ADDR, "agent server listen address")
	fs.String("remote", "", "URL of an agent server to play against instead of the local engine")
	fs.String("experiment", "baseline", "arena experiment to run (baseline or pruning)")
	fs.Int("games", ARENA_GAMES, "arena games per match up")
	fs.Int("limit", GO_ROUTINES, "arena games played at once")
	fs.String("output-dir", DEFAULT_OUTPUT_DIR, "arena results directory")
	fs.String("board", "", "board to analyze, rows separated by '/'")
	return fs
}

// Setup resolves the configuration from defaults, an optional file at path,
// TICTACTOE_* environment variables and flags, in increasing precedence.
// Flags that were not set on the command line do not override the others.
func Setup(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if flags != nil {
		var err error
		flags.VisitAll(func(f *pflag.Flag) {
			if err != nil || f.Name == "config" {
				return
			}
			err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Size < 1 || c.Size > game.MaxSize {
		return fmt.Errorf("size must be between 1 and %d, got %d", game.MaxSize, c.Size)
	}
	if err := searcher.CheckSearchable(game.NewBoard(c.Size)); err != nil {
		return fmt.Errorf("size %d: %w", c.Size, err)
	}
	if _, err := game.ParsePlayer(c.Human); err != nil {
		return fmt.Errorf("invalid human player: %w", err)
	}
	if c.Games < 1 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	return nil
}

// HumanPlayer returns the validated human symbol.
func (c *Config) HumanPlayer() game.Player {
	p, _ := game.ParsePlayer(c.Human)
	return p
}
