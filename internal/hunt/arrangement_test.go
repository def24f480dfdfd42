package hunt

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poems(clues []Clue) []string {
	out := make([]string, len(clues))
	for i, c := range clues {
		out[i] = c.Poem
	}
	slices.Sort(out)
	return out
}

func locationTrail(arr Arrangement) string {
	locs := make([]string, len(arr))
	for i, c := range arr {
		locs[i] = c.Location
	}
	return strings.Join(locs, "")
}

func hasConsecutiveRepeat(arr Arrangement) bool {
	for i := 1; i < len(arr); i++ {
		if arr[i].Location == arr[i-1].Location {
			return true
		}
	}
	return false
}

func TestArrangements(t *testing.T) {
	catalog := mockCatalog()

	for seed := uint64(1); seed <= 20; seed++ {
		gen, err := NewArrangements(catalog, DefaultArrangementCount, seeded(seed))
		require.NoError(t, err)
		require.Equal(t, DefaultArrangementCount, gen.Fixed())

		arrs := make([]Arrangement, DefaultArrangementCount)
		for i := range arrs {
			arrs[i] = gen.Next()
		}

		for _, arr := range arrs {
			assert.Equal(t, poems(catalog), poems(arr), "arrangements hold every clue exactly once")
			assert.False(t, hasConsecutiveRepeat(arr), "seed %d repeats a location: %s", seed, locationTrail(arr))
		}

		for pos := range catalog {
			seen := make(map[string]bool)
			for _, arr := range arrs {
				seen[arr[pos].Location] = true
			}
			assert.Len(t, seen, len(arrs), "seed %d sends two teams to one location at step %d", seed, pos)
		}
	}
}

func TestArrangementsDeterministicForSeed(t *testing.T) {
	a, err := NewArrangements(mockCatalog(), 4, seeded(42))
	require.NoError(t, err)
	b, err := NewArrangements(mockCatalog(), 4, seeded(42))
	require.NoError(t, err)

	for range 6 {
		assert.Equal(t, locationTrail(a.Next()), locationTrail(b.Next()))
	}
}

// Arrangements past the fixed ones are plain shuffles of the base and are
// allowed to put a location twice in a row.
func TestTailArrangementsKeepCluesButMayRepeatLocations(t *testing.T) {
	catalog := mockCatalog()
	gen, err := NewArrangements(catalog, 4, seeded(7))
	require.NoError(t, err)
	for range gen.Fixed() {
		gen.Next()
	}

	repeats := 0
	for range 200 {
		arr := gen.Next()
		require.Equal(t, poems(catalog), poems(arr))
		if hasConsecutiveRepeat(arr) {
			repeats++
		}
	}
	assert.Positive(t, repeats, "tail arrangements are not filtered for repeated locations")
}

func TestNextReturnsIndependentCopies(t *testing.T) {
	gen, err := NewArrangements(mockCatalog(), 1, seeded(3))
	require.NoError(t, err)

	first := gen.Next()
	first[0].Poem = "changed"
	second := gen.Next()
	for _, c := range second {
		assert.NotEqual(t, "changed", c.Poem)
	}
}

func TestArrangementGenerationFails(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		k       int
	}{
		{
			name:    "one location holds every clue",
			catalog: Catalog{mockClue(0, "A"), mockClue(1, "A"), mockClue(2, "A")},
			k:       1,
		},
		{
			name: "one location holds a majority",
			catalog: Catalog{
				mockClue(0, "A"), mockClue(1, "A"), mockClue(2, "A"), mockClue(3, "A"),
				mockClue(4, "B"), mockClue(5, "C"),
			},
			k: 1,
		},
		{
			name:    "fewer locations than teams",
			catalog: Catalog{mockClue(0, "A"), mockClue(1, "B"), mockClue(2, "C")},
			k:       4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArrangements(tt.catalog, tt.k, seeded(1))
			require.ErrorIs(t, err, ErrArrangementGeneration)
		})
	}
}

func TestArrangementCountMustBePositive(t *testing.T) {
	_, err := NewArrangements(mockCatalog(), 0, seeded(1))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrArrangementGeneration)
}

func TestSingleClueCatalog(t *testing.T) {
	gen, err := NewArrangements(Catalog{mockClue(0, "A")}, 1, seeded(1))
	require.NoError(t, err)
	assert.Len(t, gen.Next(), 1)
	assert.Len(t, gen.Next(), 1)
}
