package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"tictactoe/experiments"
	"tictactoe/game"
	"tictactoe/gamemaster"
	"tictactoe/meta"
	"tictactoe/searcher"
	"tictactoe/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const usage = `usage: tictactoe <command> [flags]

commands:
  play     play against the engine on the terminal
  serve    run the agent HTTP server
  arena    run an arena experiment and store the records
  analyze  print the score and best move of --board
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	flags := meta.Flags(cmd)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	path, _ := flags.GetString("config")
	cfg, err := meta.Setup(path, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "play":
		err = play(ctx, cfg, os.Stdin, os.Stdout)
	case "serve":
		err = agent.Serve(ctx, cfg.Addr, agent.NewMinimaxAgent(newMinimax(cfg)))
	case "arena":
		err = arena(ctx, cfg)
	case "analyze":
		err = analyze(cfg, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if errors.Is(err, context.Canceled) {
		log.Info().Msgf("%s interrupted", cmd)
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", cmd)
	}
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if err != nil {
		log.Warn().Msgf("unknown log level %q, using info", level)
	}
}

func newMinimax(cfg *meta.Config, extra ...searcher.Option) *searcher.Minimax {
	options := append([]searcher.Option{searcher.WithWinScore(cfg.WinScore)}, extra...)
	if !cfg.Pruning {
		options = append(options, searcher.WithoutPruning())
	}
	return searcher.NewMinimax(options...)
}

func engineAgent(cfg *meta.Config) agent.Agent {
	if cfg.Remote != "" {
		return agent.NewRemoteAgent(cfg.Remote, nil)
	}
	return agent.NewMinimaxAgent(newMinimax(cfg))
}

// parseMove reads "row col" or "row,col".
func parseMove(line string) (game.Move, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return game.NoMove, fmt.Errorf("expected a row and a column, got %q", line)
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return game.NoMove, fmt.Errorf("invalid row %q", fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return game.NoMove, fmt.Errorf("invalid column %q", fields[1])
	}
	return game.Move{Row: row, Col: col}, nil
}

// readLines feeds the lines of in to a channel that is closed at EOF, so that
// waiting for input can be combined with ctx.
func readLines(in io.Reader) (<-chan string, func() error) {
	lines := make(chan string)
	scanner := bufio.NewScanner(in)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	// Only valid once lines is closed.
	return lines, scanner.Err
}

func play(ctx context.Context, cfg *meta.Config, in io.Reader, out io.Writer) error {
	session := gamemaster.NewSession(cfg.Size, cfg.HumanPlayer(), engineAgent(cfg))
	lines, inputErr := readLines(in)
	readLine := func() (string, bool, error) {
		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return "", false, inputErr()
			}
			return line, true, nil
		}
	}
	fmt.Fprintf(out, "You play %v. Enter moves as \"row col\".\n", session.Human())

	for {
		fmt.Fprintf(out, "\n%s\n", session.Board().Pretty())

		if over, winner := session.Status(); over {
			switch winner {
			case game.Empty:
				fmt.Fprintln(out, "It's a draw!")
			case session.Human():
				fmt.Fprintln(out, "You win!")
			default:
				fmt.Fprintln(out, "The engine wins!")
			}
			fmt.Fprint(out, "Play again? [y/N] ")
			line, ok, err := readLine()
			if !ok || !strings.EqualFold(strings.TrimSpace(line), "y") {
				return err
			}
			if err := session.Reset(); err != nil {
				return err
			}
			continue
		}

		if session.Turn() == session.Engine() {
			fmt.Fprintln(out, "Engine is thinking...")
			res := <-session.EngineMove(ctx)
			if res.Err != nil {
				return res.Err
			}
			fmt.Fprintf(out, "Engine played %v in %s\n", res.Move, res.Elapsed.Round(time.Millisecond))
			continue
		}

		fmt.Fprint(out, "Your move: ")
		line, ok, err := readLine()
		if !ok {
			return err
		}
		move, err := parseMove(line)
		if err == nil {
			err = session.Play(move)
		}
		if err != nil {
			fmt.Fprintf(out, "Invalid move: %v\n", err)
		}
	}
}

func arena(ctx context.Context, cfg *meta.Config) error {
	exp, err := experiments.Lookup(cfg.Experiment, cfg.Games)
	if err != nil {
		return err
	}
	exp.Size = cfg.Size

	result, err := experiments.Run(ctx, exp, cfg.Limit)
	if err != nil {
		return err
	}
	dir, err := experiments.Store(cfg.OutputDir, exp, result)
	if err != nil {
		return err
	}
	log.Info().Msgf("results stored in %s", dir)
	return nil
}

func analyze(cfg *meta.Config, out io.Writer) error {
	if cfg.Board == "" {
		return errors.New("analyze needs --board")
	}
	board, err := game.ParseBoard(cfg.Board)
	if err != nil {
		return err
	}
	if err := board.Validate(); err != nil {
		return err
	}

	fmt.Fprintln(out, board.Pretty())
	if board.IsTerminal() {
		if winner, _ := board.Winner(); winner != game.Empty {
			fmt.Fprintf(out, "%v has won\n", winner)
		} else {
			fmt.Fprintln(out, "draw")
		}
		return nil
	}

	if err := searcher.CheckSearchable(board); err != nil {
		return err
	}

	player := board.Turn()
	outcome, metric := newMinimax(cfg, searcher.WithMetrics()).Analyze(board, player)
	fmt.Fprintf(out, "%v to move: best move %v, score %d\n", player, outcome.Move, outcome.Score)
	fmt.Fprintf(out, "searched %d nodes (%d leaves, %d cutoffs) in %s\n", metric.Nodes, metric.Leaves, metric.Cutoffs, metric.Duration)
	return nil
}
