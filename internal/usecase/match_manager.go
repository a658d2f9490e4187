package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type solutionRepo interface {
	Save(ctx context.Context, variant string, entries []search.CacheEntry) error
	Load(ctx context.Context, variant string) ([]search.CacheEntry, error)
}

type Settings struct {
	WinLength int
	// MaxDimension - largest row or column count of any match.
	MaxDimension int
	// MaxBotDimension - largest row or column count a bot match may use.
	MaxBotDimension int
}

type MatchOptions struct {
	Rows         int    `json:"rows"`
	Cols         int    `json:"cols"`
	FirstPlayer  string `json:"player1"`
	SecondPlayer string `json:"player2"`
	WithBot      bool   `json:"with_bot"`
}

type matchSlot struct {
	mu     sync.Mutex
	match  *entity.Match
	engine *search.Engine

	// savedEntries - engine cache size at the last successful save.
	savedEntries int
}

// MatchManager - drives matches for the presentation layer. Human and bot
// moves go through the same path, so state checks and notifications are
// identical for both kinds of players.
type MatchManager struct {
	logger       *slog.Logger
	engineLogger *slog.Logger
	settings     Settings
	notifier     Notifier
	solutionRepo solutionRepo

	mu      sync.Mutex
	matches map[string]*matchSlot
}

// NewMatchManager - solutionRepo may be nil, bots then start with an empty cache.
func NewMatchManager(logger *slog.Logger, settings Settings, notifier Notifier, solutionRepo solutionRepo) *MatchManager {
	if settings.WinLength <= 0 {
		settings.WinLength = entity.DefaultWinLength
	}

	return &MatchManager{
		logger:       logger.With("component", "match_manager"),
		engineLogger: logger,
		settings:     settings,
		notifier:     notifier,
		solutionRepo: solutionRepo,
		matches:      make(map[string]*matchSlot),
	}
}

func (that *MatchManager) NewMatch(ctx context.Context, opts MatchOptions) (entity.MatchSnapshot, error) {
	if opts.Cols == 0 {
		opts.Cols = opts.Rows
	}

	firstName, secondName, err := entity.ResolvePlayerNames(opts.FirstPlayer, opts.SecondPlayer, opts.WithBot)
	if err != nil {
		return entity.MatchSnapshot{}, fmt.Errorf("failed to resolve player names: %w", err)
	}

	if that.settings.MaxDimension > 0 &&
		(opts.Rows > that.settings.MaxDimension || opts.Cols > that.settings.MaxDimension) {
		return entity.MatchSnapshot{}, fmt.Errorf("%w: %dx%d, max %d",
			apperror.ErrBoardTooLarge, opts.Rows, opts.Cols, that.settings.MaxDimension)
	}

	if opts.WithBot && that.settings.MaxBotDimension > 0 &&
		(opts.Rows > that.settings.MaxBotDimension || opts.Cols > that.settings.MaxBotDimension) {
		return entity.MatchSnapshot{}, fmt.Errorf("%w: %dx%d, max %d",
			apperror.ErrBoardTooLarge, opts.Rows, opts.Cols, that.settings.MaxBotDimension)
	}

	board, err := entity.NewBoard(opts.Rows, opts.Cols, that.settings.WinLength)
	if err != nil {
		return entity.MatchSnapshot{}, fmt.Errorf("failed to create board: %w", err)
	}

	slot := &matchSlot{}

	var second entity.Player
	if opts.WithBot {
		slot.engine = search.New(that.engineLogger)
		that.loadSolutions(ctx, slot.engine, board)
		second = entity.NewBotPlayer(secondName, entity.O, slot.engine)
	} else {
		second = entity.NewHumanPlayer(secondName, entity.O)
	}

	slot.match = entity.NewMatch(uuid.NewString(), board, entity.NewHumanPlayer(firstName, entity.X), second)

	slot.mu.Lock()
	defer slot.mu.Unlock()

	that.mu.Lock()
	that.matches[slot.match.ID] = slot
	that.mu.Unlock()

	that.notify(ctx, slot.match, EventRoundStarted, nil)

	if err = that.playBots(ctx, slot); err != nil {
		return entity.MatchSnapshot{}, err
	}

	return slot.match.Snapshot(), nil
}

func (that *MatchManager) GetMatch(_ context.Context, matchID string) (entity.MatchSnapshot, error) {
	slot, err := that.getSlot(matchID)
	if err != nil {
		return entity.MatchSnapshot{}, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	return slot.match.Snapshot(), nil
}

// MakeTurn - applies a human move at (row, col); if the next player is the bot it answers at once.
func (that *MatchManager) MakeTurn(ctx context.Context, matchID string, row, col int) (entity.MatchSnapshot, error) {
	slot, err := that.getSlot(matchID)
	if err != nil {
		return entity.MatchSnapshot{}, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	match := slot.match
	if err = match.ConfirmOngoingState(); err != nil {
		return match.Snapshot(), err
	}

	if _, ok := match.CurrentPlayer().(*entity.HumanPlayer); !ok {
		return match.Snapshot(), apperror.ErrNotYourTurn
	}

	empty, err := match.Board.IsEmpty(row, col)
	if err != nil {
		return match.Snapshot(), fmt.Errorf("invalid turn: %w", err)
	}

	if !empty {
		return match.Snapshot(), apperror.ErrCellOccupied
	}

	if err = that.applyMove(ctx, slot, entity.Position{Row: row, Col: col}); err != nil {
		return entity.MatchSnapshot{}, fmt.Errorf("failed to apply move: %w", err)
	}

	if err = that.playBots(ctx, slot); err != nil {
		return entity.MatchSnapshot{}, err
	}

	return match.Snapshot(), nil
}

// Restart - starts the next round on a cleared board; players take turns to open rounds.
func (that *MatchManager) Restart(ctx context.Context, matchID string) (entity.MatchSnapshot, error) {
	slot, err := that.getSlot(matchID)
	if err != nil {
		return entity.MatchSnapshot{}, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	slot.match.StartRound()
	that.notify(ctx, slot.match, EventRoundStarted, nil)

	if err = that.playBots(ctx, slot); err != nil {
		return entity.MatchSnapshot{}, err
	}

	return slot.match.Snapshot(), nil
}

// Reset - drops the match.
func (that *MatchManager) Reset(ctx context.Context, matchID string) error {
	that.mu.Lock()
	slot, ok := that.matches[matchID]
	delete(that.matches, matchID)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, matchID)
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	that.saveSolutions(ctx, slot)

	return nil
}

func (that *MatchManager) applyMove(ctx context.Context, slot *matchSlot, pos entity.Position) error {
	match := slot.match

	if err := match.Board.SetCell(pos.Row, pos.Col, match.CurrentPlayer().Marker()); err != nil {
		return fmt.Errorf("failed to set cell: %w", err)
	}
	that.notify(ctx, match, EventCellMarked, &pos)

	outcome, err := match.Board.State()
	if err != nil {
		return fmt.Errorf("failed to get board state: %w", err)
	}

	switch outcome.State {
	case entity.StateInProgress:
		match.SwitchPlayer()
		that.notify(ctx, match, EventTurnChanged, nil)
	case entity.StateWin:
		match.FinishRound(outcome)
		that.notify(ctx, match, EventRoundWon, nil)
		that.saveSolutions(ctx, slot)
	case entity.StateTie:
		match.FinishRound(outcome)
		that.notify(ctx, match, EventRoundTied, nil)
		that.saveSolutions(ctx, slot)
	}

	return nil
}

// playBots - lets bots move for as long as the round runs and a bot is to play.
func (that *MatchManager) playBots(ctx context.Context, slot *matchSlot) error {
	match := slot.match

	for match.IsOngoing() {
		bot, ok := match.CurrentPlayer().(*entity.BotPlayer)
		if !ok {
			return nil
		}

		pos, err := bot.ChooseMove(match.Board)
		if err != nil {
			return fmt.Errorf("bot failed to make turn: %w", err)
		}

		if pos == nil {
			return ErrNoAvailableMoves
		}

		if err = that.applyMove(ctx, slot, *pos); err != nil {
			return fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	return nil
}

func (that *MatchManager) getSlot(matchID string) (*matchSlot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	slot, ok := that.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, matchID)
	}

	return slot, nil
}

func (that *MatchManager) notify(ctx context.Context, match *entity.Match, kind EventKind, pos *entity.Position) {
	if that.notifier == nil {
		return
	}

	event := Event{
		Kind:     kind,
		MatchID:  match.ID,
		Round:    match.Round + 1,
		Scores:   match.Scores,
		Position: pos,
	}

	switch kind {
	case EventRoundWon:
		winner := match.Players[match.Winner]
		event.Round = match.Round
		event.Player = winner.Name()
		event.Marker = winner.Marker()
		event.WinningLine = append([]entity.Position(nil), match.WinningLine...)
	case EventRoundTied:
		event.Round = match.Round
	default:
		event.Player = match.CurrentPlayer().Name()
		event.Marker = match.CurrentPlayer().Marker()
	}

	that.notifier.Notify(ctx, event)
}

// variant - storage namespace for solved positions; cache keys only compare within one board shape.
func variant(board *entity.Board) string {
	return fmt.Sprintf("%dx%dk%d", board.Rows(), board.Cols(), board.WinLength())
}

func (that *MatchManager) loadSolutions(ctx context.Context, engine *search.Engine, board *entity.Board) {
	if that.solutionRepo == nil {
		return
	}

	log := that.logger.With("method", "loadSolutions", "variant", variant(board))

	entries, err := that.solutionRepo.Load(ctx, variant(board))
	if err != nil {
		log.Error("failed to load solutions", "error", err)
		return
	}

	log.Info("solutions loaded", "added", engine.Preload(entries))
}

func (that *MatchManager) saveSolutions(ctx context.Context, slot *matchSlot) {
	if that.solutionRepo == nil || slot.engine == nil || slot.engine.CacheSize() == slot.savedEntries {
		return
	}

	log := that.logger.With("method", "saveSolutions", "match", slot.match.ID)

	entries := slot.engine.Snapshot()
	if err := that.solutionRepo.Save(ctx, variant(slot.match.Board), entries); err != nil {
		log.Error("failed to save solutions", "error", err)
		return
	}

	slot.savedEntries = len(entries)
	log.Debug("solutions saved", "entries", len(entries))
}
