package entity

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultWinLength - number of identical markers in a line needed to win.
const DefaultWinLength = 3

type Marker byte

const (
	Empty Marker = iota
	X
	O
)

type State int

const (
	StateInProgress State = iota
	StateTie
	StateWin
)

var (
	ErrOutOfBounds        = errors.New("cell is out of bounds")
	ErrUninitializedBoard = errors.New("board is not built")
	ErrInvalidDimensions  = errors.New("board dimensions must be positive")
	ErrInvalidWinLength   = errors.New("win length must be positive")
	ErrInvalidMarker      = errors.New("invalid marker")
)

// directions in scan priority order: row, column, main diagonal, anti diagonal.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Outcome - result of the terminal-state check.
type Outcome struct {
	State       State      `json:"state"`
	Marker      Marker     `json:"marker,omitempty"`
	WinningLine []Position `json:"winning_line,omitempty"`
}

// MaxCells - upper bound on rows*cols for any board.
const MaxCells = 1 << 20

// Board - n x m grid of markers with a fixed run-length win condition.
// A Board has a single writer; it is not safe for concurrent use.
type Board struct {
	rows      int
	cols      int
	winLength int

	grid        []Marker
	winningLine []Position
}

func NewBoard(rows, cols, winLength int) (*Board, error) {
	if winLength <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWinLength, winLength)
	}

	board := &Board{winLength: winLength}
	if err := board.Build(rows, cols); err != nil {
		return nil, err
	}

	return board, nil
}

// Build - allocates an empty grid, discarding any previous grid and winning line.
func (that *Board) Build(rows, cols int) error {
	if rows <= 0 || cols <= 0 || rows > MaxCells/cols {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}

	that.rows = rows
	that.cols = cols
	that.grid = make([]Marker, rows*cols)
	that.winningLine = nil

	return nil
}

// Destroy - drops the grid and the dimensions. The board must be rebuilt before use.
func (that *Board) Destroy() {
	that.rows = 0
	that.cols = 0
	that.grid = nil
	that.winningLine = nil
}

// Clear - resets every cell to Empty, keeping the dimensions.
func (that *Board) Clear() {
	for i := range that.grid {
		that.grid[i] = Empty
	}
	that.winningLine = nil
}

func (that *Board) Rows() int      { return that.rows }
func (that *Board) Cols() int      { return that.cols }
func (that *Board) WinLength() int { return that.winLength }

func (that *Board) IsBuilt() bool {
	return that.grid != nil
}

// SetCell - writes marker at (i, j). Overwriting an occupied cell is allowed.
func (that *Board) SetCell(i, j int, marker Marker) error {
	if marker != X && marker != O {
		return fmt.Errorf("%w: %d", ErrInvalidMarker, marker)
	}

	idx, err := that.index(i, j)
	if err != nil {
		return err
	}

	that.grid[idx] = marker

	return nil
}

func (that *Board) ClearCell(i, j int) error {
	idx, err := that.index(i, j)
	if err != nil {
		return err
	}

	that.grid[idx] = Empty

	return nil
}

func (that *Board) At(i, j int) (Marker, error) {
	idx, err := that.index(i, j)
	if err != nil {
		return Empty, err
	}

	return that.grid[idx], nil
}

func (that *Board) IsEmpty(i, j int) (bool, error) {
	marker, err := that.At(i, j)
	if err != nil {
		return false, err
	}

	return marker == Empty, nil
}

// EmptyCells - empty positions in row-major order.
func (that *Board) EmptyCells() []Position {
	cells := make([]Position, 0, len(that.grid))
	for idx, marker := range that.grid {
		if marker == Empty {
			cells = append(cells, Position{Row: idx / that.cols, Col: idx % that.cols})
		}
	}

	return cells
}

// State - scans the grid once in row-major order and reports the terminal state.
// The first run found wins; per cell the directions are tried as row, column,
// main diagonal, anti diagonal.
func (that *Board) State() (Outcome, error) {
	if !that.IsBuilt() {
		return Outcome{}, ErrUninitializedBoard
	}

	that.winningLine = nil

	filled := 0
	for i := 0; i < that.rows; i++ {
		for j := 0; j < that.cols; j++ {
			if that.grid[i*that.cols+j] != Empty {
				filled++
			}

			for _, dir := range directions {
				if !that.runStartsAt(i, j, dir[0], dir[1]) {
					continue
				}

				that.winningLine = make([]Position, that.winLength)
				for k := range that.winningLine {
					that.winningLine[k] = Position{Row: i + dir[0]*k, Col: j + dir[1]*k}
				}

				return Outcome{
					State:       StateWin,
					Marker:      that.grid[i*that.cols+j],
					WinningLine: that.WinningLine(),
				}, nil
			}
		}
	}

	if filled == len(that.grid) {
		return Outcome{State: StateTie}, nil
	}

	return Outcome{State: StateInProgress}, nil
}

// WinningLine - copy of the line recorded by the last winning State call.
func (that *Board) WinningLine() []Position {
	if that.winningLine == nil {
		return nil
	}

	line := make([]Position, len(that.winningLine))
	copy(line, that.winningLine)

	return line
}

// Serialize - canonical key of the occupancy pattern, injective for fixed dimensions.
func (that *Board) Serialize() string {
	var sb strings.Builder
	sb.Grow(len(that.grid) + that.rows)

	for idx, marker := range that.grid {
		if idx > 0 && idx%that.cols == 0 {
			sb.WriteByte('|')
		}
		sb.WriteByte(marker.symbol())
	}

	return sb.String()
}

func (that *Board) String() string {
	var sb strings.Builder
	for i := 0; i < that.rows; i++ {
		for j := 0; j < that.cols; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(that.grid[i*that.cols+j].symbol())
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (that *Board) runStartsAt(i, j, stepI, stepJ int) bool {
	endI := i + stepI*(that.winLength-1)
	endJ := j + stepJ*(that.winLength-1)
	if endI < 0 || endI >= that.rows || endJ < 0 || endJ >= that.cols {
		return false
	}

	first := that.grid[i*that.cols+j]
	if first == Empty {
		return false
	}

	for k := 1; k < that.winLength; k++ {
		if that.grid[(i+stepI*k)*that.cols+j+stepJ*k] != first {
			return false
		}
	}

	return true
}

func (that *Board) index(i, j int) (int, error) {
	if !that.IsBuilt() {
		return 0, ErrUninitializedBoard
	}

	if i < 0 || i >= that.rows || j < 0 || j >= that.cols {
		return 0, fmt.Errorf("%w: (%d, %d) on %dx%d board", ErrOutOfBounds, i, j, that.rows, that.cols)
	}

	return i*that.cols + j, nil
}

// Opponent - the other player's marker. Empty has no opponent.
func (that Marker) Opponent() Marker {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Marker) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

func (that Marker) symbol() byte {
	switch that {
	case X:
		return 'X'
	case O:
		return 'O'
	default:
		return '.'
	}
}

// ParseMarker - inverse of Marker.String, also accepting lowercase.
func ParseMarker(s string) (Marker, error) {
	switch strings.ToUpper(s) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidMarker, s)
	}
}

func (that State) String() string {
	switch that {
	case StateWin:
		return "win"
	case StateTie:
		return "tie"
	default:
		return "in_progress"
	}
}

func (that Marker) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Marker) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*that = Empty
		return nil
	}

	marker, err := ParseMarker(string(text))
	if err != nil {
		return err
	}
	*that = marker

	return nil
}

func (that State) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}
