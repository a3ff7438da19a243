package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/inarow-backend/internal/apperror"
	"github.com/rocketscienceinc/inarow-backend/internal/entity"
)

type boardRepo interface {
	Create(ctx context.Context, id string, board *entity.Board) error
	CreateOrUpdate(ctx context.Context, id string, board *entity.Board) error
	GetByID(ctx context.Context, id string) (*entity.Board, error)
	DeleteByID(ctx context.Context, id string) error
}

// BoardDefaults - dimensions used when a board is created with zero values.
// MaxCells caps width*height of new boards; zero means no cap.
type BoardDefaults struct {
	Width     int
	Height    int
	LineToWin int
	MaxCells  int
}

// BoardState - a stored board together with its current outcome.
type BoardState struct {
	ID      string
	Board   *entity.Board
	Outcome entity.Outcome
}

// BoardManager - keeps one board per chat. Turn order is up to the caller.
type BoardManager struct {
	logger    *slog.Logger
	boardRepo boardRepo
	defaults  BoardDefaults

	// serializes read-modify-write of stored boards
	mu sync.Mutex
}

func NewBoardManager(logger *slog.Logger, boardRepo boardRepo, defaults BoardDefaults) *BoardManager {
	return &BoardManager{
		logger:    logger.With("component", "board_manager"),
		boardRepo: boardRepo,
		defaults:  defaults,
	}
}

func (that *BoardManager) Create(ctx context.Context, id string, width, height, lineToWin int) (*BoardState, error) {
	if width == 0 {
		width = that.defaults.Width
	}
	if height == 0 {
		height = that.defaults.Height
	}
	if lineToWin == 0 {
		lineToWin = that.defaults.LineToWin
	}

	if that.defaults.MaxCells > 0 && width > 0 && height > 0 && width > that.defaults.MaxCells/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", apperror.ErrInvalidBoardSize, width, height, that.defaults.MaxCells)
	}

	board, err := entity.NewBoard(width, height, lineToWin)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	if err = that.boardRepo.Create(ctx, id, board); err != nil {
		return nil, fmt.Errorf("failed to save board: %w", err)
	}

	that.logger.Info("board created", "board_id", id, "width", width, "height", height, "line_to_win", lineToWin)

	return newBoardState(id, board), nil
}

func (that *BoardManager) Get(ctx context.Context, id string) (*BoardState, error) {
	board, err := that.boardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	return newBoardState(id, board), nil
}

// Mark - puts cell at (x, y). Empty un-marks the cell.
func (that *BoardManager) Mark(ctx context.Context, id string, x, y int, cell entity.CellState) (*BoardState, error) {
	log := that.logger.With("method", "Mark", "board_id", id)

	return that.update(ctx, id, func(board *entity.Board) error {
		if !board.InBounds(x, y) {
			return fmt.Errorf("%w: (%d, %d) on %dx%d board", apperror.ErrOutOfBounds, x, y, board.Width(), board.Height())
		}

		if err := board.Set(x, y, cell); err != nil {
			log.Debug("illegal move", "x", x, "y", y, "cell", cell, "error", err)
			return err
		}

		log.Debug("cell marked", "x", x, "y", y, "cell", cell)

		return nil
	})
}

func (that *BoardManager) Clear(ctx context.Context, id string) (*BoardState, error) {
	return that.update(ctx, id, func(board *entity.Board) error {
		board.Clear()
		return nil
	})
}

func (that *BoardManager) Delete(ctx context.Context, id string) error {
	if err := that.boardRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	that.logger.Info("board deleted", "board_id", id)

	return nil
}

// Render - plain text dump of the board for chat messages.
func (that *BoardManager) Render(ctx context.Context, id string) (string, error) {
	state, err := that.Get(ctx, id)
	if err != nil {
		return "", err
	}

	return state.Board.String(), nil
}

func (that *BoardManager) update(ctx context.Context, id string, apply func(board *entity.Board) error) (*BoardState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	board, err := that.boardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	if err = apply(board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	if err = that.boardRepo.CreateOrUpdate(ctx, id, board); err != nil {
		return nil, fmt.Errorf("failed to save board: %w", err)
	}

	state := newBoardState(id, board)
	if state.Outcome.Status != entity.StatusInProgress {
		that.logger.Info("board finished", "board_id", id, "status", state.Outcome.Status, "winner", state.Outcome.Winner)
	}

	return state, nil
}

func newBoardState(id string, board *entity.Board) *BoardState {
	return &BoardState{
		ID:      id,
		Board:   board,
		Outcome: board.Outcome(),
	}
}
