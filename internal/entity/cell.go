package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/inarow-backend/internal/apperror"
)

// CellState - the content of a single board cell.
type CellState uint8

const (
	Empty CellState = iota
	PlayerX
	PlayerO
)

// EmptyGlyph is how an empty cell is rendered.
const EmptyGlyph = "-"

func (that CellState) String() string {
	switch that {
	case Empty:
		return "Empty"
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return fmt.Sprintf("CellState(%d)", uint8(that))
	}
}

func (that CellState) IsValid() bool {
	return that <= PlayerO
}

// Opponent returns the other player's mark; Empty stays Empty.
func (that CellState) Opponent() CellState {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return that
	}
}

// Glyph - textual form used in board dumps and JSON.
func (that CellState) Glyph() string {
	if that == Empty {
		return EmptyGlyph
	}

	return that.String()
}

func (that CellState) MarshalText() ([]byte, error) {
	if !that.IsValid() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidCellState, uint8(that))
	}

	return []byte(that.Glyph()), nil
}

func (that *CellState) UnmarshalText(text []byte) error {
	cell, err := ParseCellState(string(text))
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

// ParseCellState - accepts "X", "O" and "-" (or an empty string) for Empty.
func ParseCellState(s string) (CellState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", EmptyGlyph, "EMPTY":
		return Empty, nil
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidCellState, s)
	}
}
