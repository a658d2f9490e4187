package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

// saveBatchSize - hash fields written per HSET command.
const saveBatchSize = 500

var ErrMalformedSolution = errors.New("malformed solution")

type SolutionRepository interface {
	Save(ctx context.Context, variant string, entries []search.CacheEntry) error
	Load(ctx context.Context, variant string) ([]search.CacheEntry, error)
	Delete(ctx context.Context, variant string) error
}

type dbSolution struct {
	client *redis.Client
}

type solutionValue struct {
	Cost     int8             `json:"cost"`
	Position *entity.Position `json:"position,omitempty"`
}

func NewSolutionRepository(client *redis.Client) SolutionRepository {
	return &dbSolution{
		client: client,
	}
}

// Save - merges entries into the variant's hash; existing fields are overwritten.
func (that *dbSolution) Save(ctx context.Context, variant string, entries []search.CacheEntry) error {
	key := solutionKey(variant)

	_, err := that.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		values := make([]any, 0, 2*saveBatchSize)

		for _, entry := range entries {
			value, err := json.Marshal(solutionValue{Cost: entry.Result.Cost, Position: entry.Result.Position})
			if err != nil {
				return fmt.Errorf("could not marshal solution: %w", err)
			}

			values = append(values, solutionField(entry), value)
			if len(values) == cap(values) {
				pipe.HSet(ctx, key, values...)
				values = values[:0]
			}
		}

		if len(values) > 0 {
			pipe.HSet(ctx, key, values...)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save solutions: %w", err)
	}

	return nil
}

func (that *dbSolution) Load(ctx context.Context, variant string) ([]search.CacheEntry, error) {
	fields, err := that.client.HGetAll(ctx, solutionKey(variant)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load solutions: %w", err)
	}

	entries := make([]search.CacheEntry, 0, len(fields))
	for field, raw := range fields {
		entry, err := parseSolution(field, raw)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (that *dbSolution) Delete(ctx context.Context, variant string) error {
	if err := that.client.Del(ctx, solutionKey(variant)).Err(); err != nil {
		return fmt.Errorf("failed to delete solutions: %w", err)
	}

	return nil
}

func solutionKey(variant string) string {
	return "solutions:" + variant
}

// solutionField - "<to move>|<maximizing>|<board>"; the board itself contains '|' so it goes last.
func solutionField(entry search.CacheEntry) string {
	maximizing := "0"
	if entry.Maximizing {
		maximizing = "1"
	}

	return entry.ToMove.String() + "|" + maximizing + "|" + entry.Board
}

func parseSolution(field, raw string) (search.CacheEntry, error) {
	parts := strings.SplitN(field, "|", 3)
	if len(parts) != 3 || (parts[1] != "0" && parts[1] != "1") {
		return search.CacheEntry{}, fmt.Errorf("%w: field %q", ErrMalformedSolution, field)
	}

	toMove, err := entity.ParseMarker(parts[0])
	if err != nil {
		return search.CacheEntry{}, fmt.Errorf("%w: field %q", ErrMalformedSolution, field)
	}

	var value solutionValue
	if err = json.Unmarshal([]byte(raw), &value); err != nil {
		return search.CacheEntry{}, fmt.Errorf("%w: %w", ErrMalformedSolution, err)
	}

	return search.CacheEntry{
		Board:      parts[2],
		ToMove:     toMove,
		Maximizing: parts[1] == "1",
		Result:     search.Result{Cost: value.Cost, Position: value.Position},
	}, nil
}
