package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/chainreaction-server/internal/config"
	"github.com/vancomm/chainreaction-server/internal/middleware"
	"github.com/vancomm/chainreaction-server/internal/repository"
	"github.com/vancomm/chainreaction-server/internal/session"
)

var ErrForeignSession = fmt.Errorf("puzzle session belongs to another player")

type PuzzleHandler struct {
	logger  *slog.Logger
	repo    *repository.Queries
	ws      *config.WebSocket
	timings session.Timings
}

func NewPuzzleHandler(
	logger *slog.Logger,
	db repository.DBTX,
	ws *config.WebSocket,
	timings session.Timings,
) *PuzzleHandler {
	handler := &PuzzleHandler{
		logger:  logger,
		repo:    repository.New(db),
		ws:      ws,
		timings: timings,
	}

	return handler
}

// logNotifier reports the outcome of attempts resolved over plain HTTP.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Solved(s *session.Session) {
	n.logger.Info("puzzle solved",
		slog.String("difficulty", string(s.Puzzle.Difficulty)),
		slog.Int("serial", s.Puzzle.Serial),
		slog.Int("attempts", s.Attempts),
	)
}

func (n logNotifier) Reset(s *session.Session) {
	n.logger.Debug("attempt failed, board restored", slog.Int("attempts", s.Attempts))
}

func (h PuzzleHandler) NewPuzzle(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewPuzzleDTO(r.URL.Query())
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	puzzle, err := dto.Puzzle()
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}
	s := session.New(puzzle)

	var params repository.CreatePuzzleSessionParams
	if claims, ok := middleware.PlayerClaims(r); ok {
		h.logger.Debug("creating player session", slog.Int64("player_id", claims.PlayerID))
		params.PlayerId = &claims.PlayerID
	} else {
		h.logger.Debug("creating anonymous session")
	}

	row, err := h.repo.CreatePuzzleSession(r.Context(), s, params)
	if err != nil {
		internalError(w, h.logger, "unable to create puzzle session", slog.Any("error", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, h.logger, NewPuzzleSessionDTO(row, s))
}

func (h PuzzleHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	row, s, ok := h.load(w, r, false)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, NewPuzzleSessionDTO(row, s))
}

func (h PuzzleHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseAttemptDTO(r.URL.Query())
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	row, s, ok := h.load(w, r, true)
	if !ok {
		return
	}

	s.SetNotifier(logNotifier{h.logger.With(slog.Int64("puzzle_session_id", row.PuzzleSessionId))})
	sim, ok := s.Attempt(dto.Block)
	if !ok {
		h.logger.Debug("ignoring attempt", slog.Int("block", dto.Block), slog.String("phase", s.Phase.String()))
		sendJSONOrLog(w, h.logger, AttemptResultDTO{Session: NewPuzzleSessionDTO(row, s)})
		return
	}

	row, err = h.save(r.Context(), row.PuzzleSessionId, s)
	if err != nil {
		internalError(w, h.logger, "unable to update puzzle session", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, h.logger, AttemptResultDTO{
		Session: NewPuzzleSessionDTO(row, s),
		Attempt: sim,
	})
}

func (h PuzzleHandler) Restart(w http.ResponseWriter, r *http.Request) {
	row, s, ok := h.load(w, r, true)
	if !ok {
		return
	}

	s.Restart()

	row, err := h.save(r.Context(), row.PuzzleSessionId, s)
	if err != nil {
		internalError(w, h.logger, "unable to update puzzle session", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, h.logger, NewPuzzleSessionDTO(row, s))
}

func (h PuzzleHandler) save(ctx context.Context, id int64, s *session.Session) (*repository.PuzzleSession, error) {
	params, err := repository.SessionUpdate(s, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("unable to serialize session: %w", err)
	}
	return h.repo.UpdatePuzzleSession(ctx, id, params)
}

/*
load fetches the session named by the id path value and writes the error
response itself when it cannot. Sessions owned by a player can only be
modified by that player.
*/
func (h PuzzleHandler) load(
	w http.ResponseWriter, r *http.Request, modify bool,
) (*repository.PuzzleSession, *session.Session, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		badRequest(w, h.logger, fmt.Errorf("invalid puzzle session id"))
		return nil, nil, false
	}

	row, err := h.repo.FetchPuzzleSession(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		internalError(w, h.logger, "unable to fetch puzzle session", slog.Any("error", err))
		return nil, nil, false
	}

	if modify && row.PlayerId != nil {
		claims, ok := middleware.PlayerClaims(r)
		if !ok || claims.PlayerID != *row.PlayerId {
			sendError(w, h.logger, http.StatusForbidden, ErrForeignSession)
			return nil, nil, false
		}
	}

	s, err := row.Decode()
	if err != nil {
		internalError(w, h.logger, "db returned invalid puzzle_session.state", slog.Any("error", err))
		return nil, nil, false
	}

	return row, s, true
}
