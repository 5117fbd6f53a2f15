package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tictactoe/game"
	"tictactoe/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type findMoveRequest struct {
	Board  *game.Board `json:"board"`
	Player string      `json:"player,omitempty"` // Defaults to the player on turn
}

type analyzeResponse struct {
	Move       game.Move `json:"move"`
	Score      int       `json:"score"`
	Nodes      int       `json:"nodes"`
	Leaves     int       `json:"leaves"`
	Cutoffs    int       `json:"cutoffs"`
	DurationMs float64   `json:"durationMs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter exposes agent a over HTTP:
//
//	POST /findmove  {"board":"XX./OO./...","player":"X"} -> {"row":0,"col":2}
//	POST /analyze   same request -> move, score and search metrics
//	GET  /healthz
//
// Unreachable boards are rejected with 400, terminal boards with 409 and
// boards too large to search with 422.
func NewRouter(a Agent) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/findmove", func(w http.ResponseWriter, r *http.Request) {
		board, player, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		move, _, err := a.FindMove(board, player)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, move)
	})
	r.Post("/analyze", func(w http.ResponseWriter, r *http.Request) {
		board, player, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		move, metric, err := a.FindMove(board, player)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, analyzeResponse{
			Move:       move,
			Score:      metric.Score,
			Nodes:      metric.Nodes,
			Leaves:     metric.Leaves,
			Cutoffs:    metric.Cutoffs,
			DurationMs: float64(metric.Duration) / float64(time.Millisecond),
		})
	})
	return r
}

// decodeRequest writes the error response itself and reports false when the
// request cannot be searched.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*game.Board, game.Player, bool) {
	var payload findMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request: " + err.Error()})
		return nil, game.Empty, false
	}
	if payload.Board == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request: missing board"})
		return nil, game.Empty, false
	}
	if err := payload.Board.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, game.Empty, false
	}

	player := payload.Board.Turn()
	if payload.Player != "" {
		var err error
		if player, err = game.ParsePlayer(payload.Player); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return nil, game.Empty, false
		}
	}

	if payload.Board.IsTerminal() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: fmt.Sprintf("board %s is already terminal", payload.Board)})
		return nil, game.Empty, false
	}
	if err := searcher.CheckSearchable(payload.Board); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return nil, game.Empty, false
	}
	return payload.Board, player, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Serve runs the agent server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, a Agent) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(a),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("agent server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down agent server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
