package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func TestLogNotifier(t *testing.T) {
	// Given: a notifier writing JSON logs into a buffer
	var buf bytes.Buffer
	notifier := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	// When: a move is published
	notifier.Notify(context.Background(), Event{
		Kind:     EventCellMarked,
		MatchID:  "m1",
		Round:    1,
		Player:   "alice",
		Marker:   entity.X,
		Position: &entity.Position{Row: 2, Col: 0},
	})

	// Then: one record carries the event fields
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "match event", record["msg"])
	assert.Equal(t, "notifier", record["component"])
	assert.Equal(t, string(EventCellMarked), record["kind"])
	assert.Equal(t, "m1", record["match"])
	assert.Equal(t, "X", record["marker"])
	assert.Equal(t, map[string]any{"row": float64(2), "col": float64(0)}, record["position"])
}
