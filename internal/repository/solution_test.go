package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestSolutionRepository_SaveLoad(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSolutionRepository(st.Storage)

	// Given: entries solved on a 3x3 board, terminal and not
	entries := []search.CacheEntry{
		{
			Board:      "XX.|OO.|...",
			ToMove:     entity.X,
			Maximizing: true,
			Result:     search.Result{Cost: search.CostWin, Position: &entity.Position{Row: 0, Col: 2}},
		},
		{
			Board:      "XX.|OO.|...",
			ToMove:     entity.X,
			Maximizing: false,
			Result:     search.Result{Cost: search.CostLoss, Position: &entity.Position{Row: 0, Col: 2}},
		},
		{
			Board:  "XXX|OO.|...",
			ToMove: entity.O,
			Result: search.Result{Cost: search.CostLoss},
		},
	}

	// When: they are saved and loaded back
	require.NoError(t, repo.Save(ctx, "3x3k3", entries))
	loaded, err := repo.Load(ctx, "3x3k3")

	// Then: every entry comes back unchanged
	require.NoError(t, err)
	assert.ElementsMatch(t, entries, loaded)
}

func TestSolutionRepository_Variants(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSolutionRepository(st.Storage)

	// Given: one entry stored for 3x3
	entry := search.CacheEntry{Board: "...|...|...", ToMove: entity.X, Maximizing: true, Result: search.Result{
		Cost: search.CostTie, Position: &entity.Position{},
	}}
	require.NoError(t, repo.Save(ctx, "3x3k3", []search.CacheEntry{entry}))

	t.Run("Other variants are empty", func(t *testing.T) {
		loaded, err := repo.Load(ctx, "4x4k3")

		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("Saving again merges entries", func(t *testing.T) {
		other := entry
		other.ToMove = entity.O
		require.NoError(t, repo.Save(ctx, "3x3k3", []search.CacheEntry{entry, other}))

		loaded, err := repo.Load(ctx, "3x3k3")

		require.NoError(t, err)
		assert.Len(t, loaded, 2)
	})

	t.Run("Large snapshots are written in batches", func(t *testing.T) {
		many := make([]search.CacheEntry, 0, 2*saveBatchSize+1)
		for i := 0; i < cap(many); i++ {
			many = append(many, search.CacheEntry{
				Board:  string(rune('a'+i%26)) + "|" + string(rune('a'+i/26%26)) + "|" + string(rune('a'+i/676)),
				ToMove: entity.X,
				Result: search.Result{Cost: search.CostTie},
			})
		}
		require.NoError(t, repo.Save(ctx, "big", many))

		loaded, err := repo.Load(ctx, "big")

		require.NoError(t, err)
		assert.Len(t, loaded, len(many))
	})

	t.Run("Delete drops the variant", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "3x3k3"))

		loaded, err := repo.Load(ctx, "3x3k3")

		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}

func TestSolutionRepository_Malformed(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSolutionRepository(st.Storage)

	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "Missing parts", field: "X|...|...|...", value: `{"cost":0}`},
		{name: "Unknown marker", field: "Z|1|...|...|...", value: `{"cost":0}`},
		{name: "Broken value", field: "X|1|...|...|...", value: `{cost`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a hash field written by something else
			require.NoError(t, st.Storage.HSet(ctx, solutionKey(tt.name), tt.field, tt.value).Err())

			// When: the variant is loaded
			_, err := repo.Load(ctx, tt.name)

			// Then: the entry is rejected
			require.ErrorIs(t, err, ErrMalformedSolution)
		})
	}
}
