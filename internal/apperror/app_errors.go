package apperror

import "errors"

var (
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInvalidCellState   = errors.New("invalid cell state")
	ErrInvalidBoardSize   = errors.New("invalid board size")
	ErrOutOfBounds        = errors.New("cell is out of board bounds")
	ErrBoardNotFound      = errors.New("board not found")
	ErrBoardAlreadyExists = errors.New("board already exists")
)
