package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrMatchNotFound = errors.New("match not found")
	ErrReservedName  = errors.New("player name is reserved")
	ErrEmptyName     = errors.New("player name is empty")
	ErrBoardTooLarge = errors.New("board is too large")
)
