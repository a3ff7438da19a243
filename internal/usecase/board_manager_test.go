package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/inarow-backend/internal/apperror"
	"github.com/rocketscienceinc/inarow-backend/internal/entity"
)

var errRedisDown = errors.New("redis down")

type mockBoardRepo struct {
	mock.Mock
}

func (m *mockBoardRepo) Create(ctx context.Context, id string, board *entity.Board) error {
	return m.Called(ctx, id, board).Error(0)
}

func (m *mockBoardRepo) CreateOrUpdate(ctx context.Context, id string, board *entity.Board) error {
	return m.Called(ctx, id, board).Error(0)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, id string) (*entity.Board, error) {
	args := m.Called(ctx, id)
	board, _ := args.Get(0).(*entity.Board)
	return board, args.Error(1)
}

func (m *mockBoardRepo) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestManager(t *testing.T) (*BoardManager, *mockBoardRepo) {
	t.Helper()

	repo := &mockBoardRepo{}
	t.Cleanup(func() { repo.AssertExpectations(t) })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	defaults := BoardDefaults{Width: 3, Height: 3, LineToWin: 3, MaxCells: 100}

	return NewBoardManager(logger, repo, defaults), repo
}

func TestBoardManager_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Uses defaults for zero dimensions", func(t *testing.T) {
		// Given: a manager with 3x3x3 defaults
		manager, repo := newTestManager(t)
		repo.On("Create", mock.Anything, "chat-1", mock.AnythingOfType("*entity.Board")).Return(nil).Once()

		// When: creating a board without dimensions
		state, err := manager.Create(ctx, "chat-1", 0, 0, 0)

		// Then: a classic empty board is stored
		require.NoError(t, err)
		assert.Equal(t, "chat-1", state.ID)
		assert.Equal(t, entity.NewDefaultBoard(), state.Board)
		assert.Equal(t, entity.StatusInProgress, state.Outcome.Status)
	})

	t.Run("Keeps explicit dimensions", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Create", mock.Anything, "chat-1", mock.AnythingOfType("*entity.Board")).Return(nil).Once()

		state, err := manager.Create(ctx, "chat-1", 5, 4, 4)

		require.NoError(t, err)
		assert.Equal(t, 5, state.Board.Width())
		assert.Equal(t, 4, state.Board.Height())
		assert.Equal(t, 4, state.Board.LineToWin())
	})

	t.Run("Invalid size is not stored", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.Create(ctx, "chat-1", -2, 3, 3)

		assert.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})

	t.Run("Board above the cell cap is not stored", func(t *testing.T) {
		// Given: a manager capped at 100 cells
		manager, _ := newTestManager(t)

		// When: asking for a 100000x100000 board
		_, err := manager.Create(ctx, "chat-1", 100000, 100000, 3)

		// Then: it is rejected before anything is allocated or saved
		assert.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})

	t.Run("Board at the cell cap is allowed", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Create", mock.Anything, "chat-1", mock.AnythingOfType("*entity.Board")).Return(nil).Once()

		state, err := manager.Create(ctx, "chat-1", 10, 10, 5)

		require.NoError(t, err)
		assert.Equal(t, 10, state.Board.Width())
	})

	t.Run("Existing board is reported", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Create", mock.Anything, "chat-1", mock.Anything).Return(apperror.ErrBoardAlreadyExists).Once()

		_, err := manager.Create(ctx, "chat-1", 0, 0, 0)

		assert.ErrorIs(t, err, apperror.ErrBoardAlreadyExists)
	})
}

func TestBoardManager_Mark(t *testing.T) {
	ctx := context.Background()

	t.Run("Marks a cell and saves the board", func(t *testing.T) {
		// Given: a stored empty board
		manager, repo := newTestManager(t)
		board := entity.NewDefaultBoard()
		repo.On("GetByID", mock.Anything, "chat-1").Return(board, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, "chat-1", board).Return(nil).Once()

		// When: X marks the center
		state, err := manager.Mark(ctx, "chat-1", 1, 1, entity.PlayerX)

		// Then: the cell is taken and the game goes on
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, state.Board.Get(1, 1))
		assert.Equal(t, entity.Outcome{Status: entity.StatusInProgress}, state.Outcome)
	})

	t.Run("Winning mark finishes the board", func(t *testing.T) {
		manager, repo := newTestManager(t)
		board := entity.NewDefaultBoard()
		require.NoError(t, board.Set(0, 0, entity.PlayerO))
		require.NoError(t, board.Set(1, 0, entity.PlayerO))
		repo.On("GetByID", mock.Anything, "chat-1").Return(board, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, "chat-1", board).Return(nil).Once()

		state, err := manager.Mark(ctx, "chat-1", 2, 0, entity.PlayerO)

		require.NoError(t, err)
		assert.Equal(t, entity.Outcome{Status: entity.StatusWon, Winner: entity.PlayerO}, state.Outcome)
	})

	t.Run("Occupied cell is an illegal move", func(t *testing.T) {
		// Given: a board with X in the corner
		manager, repo := newTestManager(t)
		board := entity.NewDefaultBoard()
		require.NoError(t, board.Set(0, 0, entity.PlayerX))
		repo.On("GetByID", mock.Anything, "chat-1").Return(board, nil).Once()

		// When: O plays the same corner
		_, err := manager.Mark(ctx, "chat-1", 0, 0, entity.PlayerO)

		// Then: ErrCellOccupied is returned and nothing is saved
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Out of bounds is rejected before touching the board", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "chat-1").Return(entity.NewDefaultBoard(), nil).Once()

		_, err := manager.Mark(ctx, "chat-1", 3, 0, entity.PlayerX)

		assert.ErrorIs(t, err, apperror.ErrOutOfBounds)
	})

	t.Run("Missing board", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "nope").Return(nil, apperror.ErrBoardNotFound).Once()

		_, err := manager.Mark(ctx, "nope", 0, 0, entity.PlayerX)

		assert.ErrorIs(t, err, apperror.ErrBoardNotFound)
	})

	t.Run("Storage failure is propagated", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "chat-1").Return(entity.NewDefaultBoard(), nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, "chat-1", mock.Anything).Return(errRedisDown).Once()

		_, err := manager.Mark(ctx, "chat-1", 0, 0, entity.PlayerX)

		assert.ErrorIs(t, err, errRedisDown)
	})
}

func TestBoardManager_Clear(t *testing.T) {
	// Given: a full drawn board
	manager, repo := newTestManager(t)
	board := entity.NewDefaultBoard()
	for i, cell := range []entity.CellState{
		entity.PlayerX, entity.PlayerO, entity.PlayerX,
		entity.PlayerO, entity.PlayerX, entity.PlayerO,
		entity.PlayerO, entity.PlayerX, entity.PlayerO,
	} {
		require.NoError(t, board.Set(i%3, i/3, cell))
	}
	require.Equal(t, entity.StatusDraw, board.Outcome().Status)

	repo.On("GetByID", mock.Anything, "chat-1").Return(board, nil).Once()
	repo.On("CreateOrUpdate", mock.Anything, "chat-1", board).Return(nil).Once()

	// When: clearing it
	state, err := manager.Clear(context.Background(), "chat-1")

	// Then: the board is empty and in progress again
	require.NoError(t, err)
	assert.Equal(t, entity.NewDefaultBoard(), state.Board)
	assert.Equal(t, entity.StatusInProgress, state.Outcome.Status)
}

func TestBoardManager_Render(t *testing.T) {
	manager, repo := newTestManager(t)
	board := entity.NewDefaultBoard()
	require.NoError(t, board.Set(2, 1, entity.PlayerX))
	repo.On("GetByID", mock.Anything, "chat-1").Return(board, nil).Once()

	text, err := manager.Render(context.Background(), "chat-1")

	require.NoError(t, err)
	assert.Equal(t, "- - -\n- - X\n- - -\n", text)
}

func TestBoardManager_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the board", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("DeleteByID", mock.Anything, "chat-1").Return(nil).Once()

		assert.NoError(t, manager.Delete(ctx, "chat-1"))
	})

	t.Run("Missing board", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("DeleteByID", mock.Anything, "chat-1").Return(apperror.ErrBoardNotFound).Once()

		assert.ErrorIs(t, manager.Delete(ctx, "chat-1"), apperror.ErrBoardNotFound)
	})
}
