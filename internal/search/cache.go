package search

import (
	"sort"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// cacheKey - occupancy plus whose turn it is. toMove and maximizing together
// also pin down which side the cost is measured for.
type cacheKey struct {
	board      string
	toMove     entity.Marker
	maximizing bool
}

// CacheEntry - exported form of one transposition cache entry.
type CacheEntry struct {
	Board      string
	ToMove     entity.Marker
	Maximizing bool
	Result     Result
}

func (that *Engine) CacheSize() int {
	return len(that.cache)
}

// Lookup - cached result for board with toMove to play, if it was already solved.
func (that *Engine) Lookup(board *entity.Board, toMove entity.Marker, maximizing bool) (Result, bool) {
	result, ok := that.cache[cacheKey{board: board.Serialize(), toMove: toMove, maximizing: maximizing}]
	if !ok {
		return Result{}, false
	}

	return Result{Cost: result.Cost, Position: copyPosition(result.Position)}, true
}

// Snapshot - every cached entry, ordered by board then turn.
func (that *Engine) Snapshot() []CacheEntry {
	entries := make([]CacheEntry, 0, len(that.cache))
	for key, result := range that.cache {
		entries = append(entries, CacheEntry{
			Board:      key.board,
			ToMove:     key.toMove,
			Maximizing: key.maximizing,
			Result:     Result{Cost: result.Cost, Position: copyPosition(result.Position)},
		})
	}

	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Board != entries[b].Board {
			return entries[a].Board < entries[b].Board
		}
		if entries[a].ToMove != entries[b].ToMove {
			return entries[a].ToMove < entries[b].ToMove
		}
		return !entries[a].Maximizing && entries[b].Maximizing
	})

	return entries
}

// Preload - seeds the cache with entries solved earlier for the same board dimensions.
// Entries already present are kept.
func (that *Engine) Preload(entries []CacheEntry) int {
	added := 0
	for _, entry := range entries {
		key := cacheKey{board: entry.Board, toMove: entry.ToMove, maximizing: entry.Maximizing}
		if _, ok := that.cache[key]; ok {
			continue
		}

		that.cache[key] = Result{Cost: entry.Result.Cost, Position: copyPosition(entry.Result.Position)}
		added++
	}

	that.logger.Debug("cache preloaded", "added", added, "cache_size", len(that.cache))

	return added
}
