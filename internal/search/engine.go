package search

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	CostLoss int8 = -1
	CostTie  int8 = 0
	CostWin  int8 = 1
)

// Result - minimax value of a position. Position is nil for terminal boards.
type Result struct {
	Cost     int8
	Position *entity.Position
}

// Engine - optimal move selection by memoized minimax.
// The transposition cache belongs to one engine and only grows; an Engine
// must not be shared between goroutines, and the board passed to it must not
// be touched by anyone else while a search runs.
type Engine struct {
	logger *slog.Logger
	cache  map[cacheKey]Result
}

func New(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger.With("component", "search"),
		cache:  make(map[cacheKey]Result),
	}
}

// ChooseMove - returns an optimal move for marker, or nil when the board has no move left.
// The board is left exactly as it was passed in.
func (that *Engine) ChooseMove(board *entity.Board, marker entity.Marker) (*entity.Position, error) {
	if marker != entity.X && marker != entity.O {
		return nil, fmt.Errorf("%w: %d", entity.ErrInvalidMarker, marker)
	}

	if !board.IsBuilt() {
		return nil, entity.ErrUninitializedBoard
	}

	started := time.Now()
	result, err := that.Search(board, marker, true)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	that.logger.Debug("move chosen",
		"marker", marker.String(),
		"position", result.Position,
		"cost", result.Cost,
		"cache_size", len(that.cache),
		"elapsed", time.Since(started),
	)

	return copyPosition(result.Position), nil
}

// Evaluate - cost of a terminal board from marker's point of view; ok is false while the game is in progress.
func (that *Engine) Evaluate(board *entity.Board, marker entity.Marker) (cost int8, ok bool, err error) {
	outcome, err := board.State()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get board state: %w", err)
	}

	switch outcome.State {
	case entity.StateWin:
		if outcome.Marker == marker {
			return CostWin, true, nil
		}
		return CostLoss, true, nil
	case entity.StateTie:
		return CostTie, true, nil
	default:
		return 0, false, nil
	}
}

// Search - minimax value of board when toMove plays next. Costs are taken from
// the maximizing side's point of view; maximizing tells whether toMove is that side.
// Among equal moves the first in row-major order is kept, and the scan stops as
// soon as the side to move finds its best possible cost.
func (that *Engine) Search(board *entity.Board, toMove entity.Marker, maximizing bool) (Result, error) {
	key := cacheKey{board: board.Serialize(), toMove: toMove, maximizing: maximizing}
	if cached, ok := that.cache[key]; ok {
		return cached, nil
	}

	perspective := toMove
	if !maximizing {
		perspective = toMove.Opponent()
	}

	cost, terminal, err := that.Evaluate(board, perspective)
	if err != nil {
		return Result{}, err
	}

	if terminal {
		result := Result{Cost: cost}
		that.cache[key] = result
		return result, nil
	}

	best := Result{Cost: worstCost(maximizing)}
	for _, pos := range board.EmptyCells() {
		var child Result
		err = tryMove(board, pos, toMove, func() error {
			var searchErr error
			child, searchErr = that.Search(board, toMove.Opponent(), !maximizing)
			return searchErr
		})
		if err != nil {
			return Result{}, err
		}

		if !isBetter(child.Cost, best.Cost, maximizing) {
			continue
		}

		best = Result{Cost: child.Cost, Position: copyPosition(&pos)}

		if best.Cost == bestCost(maximizing) {
			break
		}
	}

	that.cache[key] = best

	return best, nil
}

// tryMove - places marker at pos for the duration of fn. The cell is emptied
// again on every exit path.
func tryMove(board *entity.Board, pos entity.Position, marker entity.Marker, fn func() error) (err error) {
	if err = board.SetCell(pos.Row, pos.Col, marker); err != nil {
		return fmt.Errorf("failed to place tentative move: %w", err)
	}

	defer func() {
		if clearErr := board.ClearCell(pos.Row, pos.Col); clearErr != nil && err == nil {
			err = fmt.Errorf("failed to revert tentative move: %w", clearErr)
		}
	}()

	return fn()
}

func isBetter(candidate, current int8, maximizing bool) bool {
	if maximizing {
		return candidate > current
	}
	return candidate < current
}

// worstCost - sentinel below (or above) every reachable cost.
func worstCost(maximizing bool) int8 {
	if maximizing {
		return CostLoss - 1
	}
	return CostWin + 1
}

func bestCost(maximizing bool) int8 {
	if maximizing {
		return CostWin
	}
	return CostLoss
}

func copyPosition(pos *entity.Position) *entity.Position {
	if pos == nil {
		return nil
	}

	cp := *pos

	return &cp
}
