package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rocketscienceinc/inarow-backend/internal/apperror"
)

const (
	DefaultWidth     = 3
	DefaultHeight    = 3
	DefaultLineToWin = 3
)

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDraw       = "draw"
)

// Board - a width x height grid of cells with a win condition of lineToWin marks in a row.
// x is the column and y the row: String prints one line per y, and rows are scanned before columns.
// Board is not safe for concurrent use.
type Board struct {
	width     int
	height    int
	lineToWin int
	cells     []CellState
}

// Outcome tells an unfinished board apart from a drawn one.
type Outcome struct {
	Status string    `json:"status"`
	Winner CellState `json:"winner,omitempty"`
}

func NewBoard(width, height, lineToWin int) (*Board, error) {
	if width <= 0 || height <= 0 || lineToWin <= 0 {
		return nil, fmt.Errorf("%w: %dx%d with line %d", apperror.ErrInvalidBoardSize, width, height, lineToWin)
	}

	if width > math.MaxInt/height {
		return nil, fmt.Errorf("%w: %dx%d cells overflow", apperror.ErrInvalidBoardSize, width, height)
	}

	return &Board{
		width:     width,
		height:    height,
		lineToWin: lineToWin,
		cells:     make([]CellState, width*height),
	}, nil
}

// NewDefaultBoard - classic 3x3 tic-tac-toe.
func NewDefaultBoard() *Board {
	board, _ := NewBoard(DefaultWidth, DefaultHeight, DefaultLineToWin)
	return board
}

func (that *Board) Width() int {
	return that.width
}

func (that *Board) Height() int {
	return that.height
}

func (that *Board) LineToWin() int {
	return that.lineToWin
}

// Clear - resets every cell to Empty.
func (that *Board) Clear() {
	for i := range that.cells {
		that.cells[i] = Empty
	}
}

func (that *Board) InBounds(x, y int) bool {
	return x >= 0 && x < that.width && y >= 0 && y < that.height
}

// Get panics when (x, y) is outside the board.
func (that *Board) Get(x, y int) CellState {
	return that.cells[that.index(x, y)]
}

func (that *Board) Taken(x, y int) bool {
	return that.Get(x, y) != Empty
}

// Set - writes cell at (x, y). A mark cannot replace another mark, but any cell can be reset to Empty.
func (that *Board) Set(x, y int, cell CellState) error {
	if !cell.IsValid() {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidCellState, uint8(cell))
	}

	i := that.index(x, y)
	if cell != Empty && that.cells[i] != Empty {
		return fmt.Errorf("%w: (%d, %d) already set to %s", apperror.ErrCellOccupied, x, y, that.cells[i])
	}

	that.cells[i] = cell

	return nil
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

// Win reports the winner of a full board. A board with empty cells always reports no winner,
// as does a full board without a winning line; use Outcome to tell these apart.
func (that *Board) Win() (CellState, bool) {
	if !that.IsFull() {
		return Empty, false
	}

	return that.Winner()
}

// Winner scans rows, then columns, then both diagonal directions for a run of lineToWin marks,
// whether or not the board is full. X is checked before O on every line.
func (that *Board) Winner() (CellState, bool) {
	for _, line := range that.lines() {
		if len(line) < that.lineToWin {
			continue
		}

		if that.checkWinLine(line, PlayerX) {
			return PlayerX, true
		}

		if that.checkWinLine(line, PlayerO) {
			return PlayerO, true
		}
	}

	return Empty, false
}

func (that *Board) Outcome() Outcome {
	if winner, ok := that.Winner(); ok {
		return Outcome{Status: StatusWon, Winner: winner}
	}

	if that.IsFull() {
		return Outcome{Status: StatusDraw}
	}

	return Outcome{Status: StatusInProgress}
}

// Inverse returns a copy with X and O swapped.
func (that *Board) Inverse() *Board {
	inverse := &Board{
		width:     that.width,
		height:    that.height,
		lineToWin: that.lineToWin,
		cells:     make([]CellState, len(that.cells)),
	}

	for i, cell := range that.cells {
		inverse.cells[i] = cell.Opponent()
	}

	return inverse
}

// String - one row per line, cells separated by a space, empty cells as "-".
func (that *Board) String() string {
	var builder strings.Builder

	for y := 0; y < that.height; y++ {
		for x := 0; x < that.width; x++ {
			if x > 0 {
				builder.WriteByte(' ')
			}
			builder.WriteString(that.Get(x, y).Glyph())
		}
		builder.WriteByte('\n')
	}

	return builder.String()
}

type boardJSON struct {
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	LineToWin int           `json:"line_to_win"`
	Rows      [][]CellState `json:"rows"`
}

func (that *Board) MarshalJSON() ([]byte, error) {
	rows := make([][]CellState, that.height)
	for y := range rows {
		rows[y] = that.cells[y*that.width : (y+1)*that.width]
	}

	return json.Marshal(boardJSON{
		Width:     that.width,
		Height:    that.height,
		LineToWin: that.lineToWin,
		Rows:      rows,
	})
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	board, err := NewBoard(raw.Width, raw.Height, raw.LineToWin)
	if err != nil {
		return err
	}

	if len(raw.Rows) != raw.Height {
		return fmt.Errorf("%w: got %d rows, want %d", apperror.ErrInvalidBoardSize, len(raw.Rows), raw.Height)
	}

	for y, row := range raw.Rows {
		if len(row) != raw.Width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrInvalidBoardSize, y, len(row), raw.Width)
		}
		copy(board.cells[y*raw.Width:], row)
	}

	*that = *board

	return nil
}

func (that *Board) index(x, y int) int {
	if !that.InBounds(x, y) {
		panic(fmt.Sprintf("entity: cell (%d, %d) is outside %dx%d board", x, y, that.width, that.height))
	}

	return y*that.width + x
}

// lines - rows, columns, down-right diagonals, then down-left diagonals, in scan order.
func (that *Board) lines() [][]CellState {
	w, h := that.width, that.height
	lines := make([][]CellState, 0, w+h+2*(w+h-1))

	for y := 0; y < h; y++ {
		row := make([]CellState, w)
		copy(row, that.cells[y*w:(y+1)*w])
		lines = append(lines, row)
	}

	for x := 0; x < w; x++ {
		column := make([]CellState, 0, h)
		for y := 0; y < h; y++ {
			column = append(column, that.cells[y*w+x])
		}
		lines = append(lines, column)
	}

	// x - y is constant along a down-right diagonal
	for d := -(h - 1); d <= w-1; d++ {
		var diagonal []CellState
		for y := max(0, -d); y < h && y+d < w; y++ {
			diagonal = append(diagonal, that.cells[y*w+y+d])
		}
		lines = append(lines, diagonal)
	}

	// x + y is constant along a down-left diagonal
	for s := 0; s <= w+h-2; s++ {
		var diagonal []CellState
		for y := max(0, s-(w-1)); y < h && s-y >= 0; y++ {
			diagonal = append(diagonal, that.cells[y*w+s-y])
		}
		lines = append(lines, diagonal)
	}

	return lines
}

func (that *Board) checkWinLine(line []CellState, player CellState) bool {
	count := 0
	for _, cell := range line {
		if cell != player {
			count = 0
			continue
		}

		count++
		if count >= that.lineToWin {
			return true
		}
	}

	return false
}
