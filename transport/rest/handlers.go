package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type matchUseCase interface {
	NewMatch(ctx context.Context, opts usecase.MatchOptions) (entity.MatchSnapshot, error)
	GetMatch(ctx context.Context, matchID string) (entity.MatchSnapshot, error)
	MakeTurn(ctx context.Context, matchID string, row, col int) (entity.MatchSnapshot, error)
	Restart(ctx context.Context, matchID string) (entity.MatchSnapshot, error)
	Reset(ctx context.Context, matchID string) error
}

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type matchHandler struct {
	logger  *slog.Logger
	matches matchUseCase

	defaultDimension int
}

func newMatchHandler(logger *slog.Logger, matches matchUseCase, defaultDimension int) *matchHandler {
	return &matchHandler{
		logger:           logger.With("component", "rest"),
		matches:          matches,
		defaultDimension: defaultDimension,
	}
}

func (that *matchHandler) create(w http.ResponseWriter, r *http.Request) {
	var opts usecase.MatchOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if opts.Rows == 0 && opts.Cols == 0 {
		opts.Rows = that.defaultDimension
	}

	match, err := that.matches.NewMatch(r.Context(), opts)
	if err != nil {
		that.writeError(w, "create", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, match)
}

func (that *matchHandler) get(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "get", err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *matchHandler) turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row and col are required"})
		return
	}

	match, err := that.matches.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Row, *req.Col)
	if err != nil {
		that.writeError(w, "turn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *matchHandler) restart(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "restart", err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *matchHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := that.matches.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "reset", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *matchHandler) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, entity.ErrOutOfBounds),
		errors.Is(err, entity.ErrInvalidDimensions),
		errors.Is(err, entity.ErrInvalidWinLength),
		errors.Is(err, apperror.ErrReservedName),
		errors.Is(err, apperror.ErrEmptyName),
		errors.Is(err, apperror.ErrBoardTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *matchHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
