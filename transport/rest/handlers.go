package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/inarow-backend/internal/apperror"
	"github.com/rocketscienceinc/inarow-backend/internal/entity"
	"github.com/rocketscienceinc/inarow-backend/internal/usecase"
)

type boardUseCase interface {
	Create(ctx context.Context, id string, width, height, lineToWin int) (*usecase.BoardState, error)
	Get(ctx context.Context, id string) (*usecase.BoardState, error)
	Mark(ctx context.Context, id string, x, y int, cell entity.CellState) (*usecase.BoardState, error)
	Clear(ctx context.Context, id string) (*usecase.BoardState, error)
	Delete(ctx context.Context, id string) error
	Render(ctx context.Context, id string) (string, error)
}

type createBoardRequest struct {
	ID        string `json:"id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	LineToWin int    `json:"line_to_win"`
}

type markCellRequest struct {
	X    *int              `json:"x"`
	Y    *int              `json:"y"`
	Cell *entity.CellState `json:"cell"`
}

type boardResponse struct {
	ID      string         `json:"id"`
	Board   *entity.Board  `json:"board"`
	Outcome entity.Outcome `json:"outcome"`
	Text    string         `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
	boards boardUseCase
}

func newHandlers(logger *slog.Logger, boards boardUseCase) *handlers {
	return &handlers{
		logger: logger.With("component", "rest_handlers"),
		boards: boards,
	}
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *handlers) createBoard(w http.ResponseWriter, r *http.Request) {
	var req createBoardRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	state, err := that.boards.Create(r.Context(), req.ID, req.Width, req.Height, req.LineToWin)
	if err != nil {
		that.writeError(w, "createBoard", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, toBoardResponse(state))
}

func (that *handlers) getBoard(w http.ResponseWriter, r *http.Request) {
	state, err := that.boards.Get(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		that.writeError(w, "getBoard", err)
		return
	}

	that.writeJSON(w, http.StatusOK, toBoardResponse(state))
}

func (that *handlers) renderBoard(w http.ResponseWriter, r *http.Request) {
	text, err := that.boards.Render(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		that.writeError(w, "renderBoard", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write([]byte(text)); err != nil {
		that.logger.Error("failed to write board text", "error", err)
	}
}

func (that *handlers) markCell(w http.ResponseWriter, r *http.Request) {
	var req markCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.X == nil || req.Y == nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "x, y and a valid cell are required"})
		return
	}

	state, err := that.boards.Mark(r.Context(), chi.URLParam(r, "boardID"), *req.X, *req.Y, *req.Cell)
	if err != nil {
		that.writeError(w, "markCell", err)
		return
	}

	that.writeJSON(w, http.StatusOK, toBoardResponse(state))
}

func (that *handlers) clearBoard(w http.ResponseWriter, r *http.Request) {
	state, err := that.boards.Clear(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		that.writeError(w, "clearBoard", err)
		return
	}

	that.writeJSON(w, http.StatusOK, toBoardResponse(state))
}

func (that *handlers) deleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := that.boards.Delete(r.Context(), chi.URLParam(r, "boardID")); err != nil {
		that.writeError(w, "deleteBoard", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrBoardNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrBoardAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, apperror.ErrInvalidBoardSize),
		errors.Is(err, apperror.ErrInvalidCellState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func toBoardResponse(state *usecase.BoardState) boardResponse {
	return boardResponse{
		ID:      state.ID,
		Board:   state.Board,
		Outcome: state.Outcome,
		Text:    state.Board.String(),
	}
}
