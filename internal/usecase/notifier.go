package usecase

import (
	"context"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type EventKind string

const (
	EventRoundStarted EventKind = "round:started"
	EventCellMarked   EventKind = "cell:marked"
	EventTurnChanged  EventKind = "turn:changed"
	EventRoundWon     EventKind = "round:won"
	EventRoundTied    EventKind = "round:tied"
)

// Event - state transition published to the presentation layer.
type Event struct {
	Kind        EventKind         `json:"kind"`
	MatchID     string            `json:"match_id"`
	Round       int               `json:"round"`
	Player      string            `json:"player,omitempty"`
	Marker      entity.Marker     `json:"marker,omitempty"`
	Position    *entity.Position  `json:"position,omitempty"`
	WinningLine []entity.Position `json:"winning_line,omitempty"`
	Scores      [2]int            `json:"scores"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier - notifier that only writes events to the log.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger.With("component", "notifier")}
}

func (that *logNotifier) Notify(ctx context.Context, event Event) {
	that.logger.InfoContext(ctx, "match event",
		"kind", event.Kind,
		"match", event.MatchID,
		"round", event.Round,
		"player", event.Player,
		"marker", event.Marker.String(),
		"position", event.Position,
	)
}
