package hunt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// MaxArrangementAttempts bounds both randomized searches.
const MaxArrangementAttempts = 1000

// DefaultArrangementCount is how many teams get collision-free arrangements.
const DefaultArrangementCount = 4

// ErrArrangementGeneration means the catalog cannot be arranged without
// repeating locations: too few locations, or one location holds most clues.
var ErrArrangementGeneration = errors.New("arrangement generation failed")

// Arrangement is one ordering of the whole catalog.
type Arrangement []Clue

// Arrangements hands out one arrangement per new team. The first few are
// built so that teams starting together are never at the same location at
// the same step; after those run out every pull is a plain reshuffle.
type Arrangements struct {
	rng   *rand.Rand
	fixed []Arrangement
	next  int
	tail  Arrangement
}

// NewArrangements builds the base arrangement and k-1 cross-team variants.
func NewArrangements(catalog Catalog, k int, rng *rand.Rand) (*Arrangements, error) {
	if k < 1 {
		return nil, fmt.Errorf("arrangement count must be at least 1, got %d", k)
	}

	base, err := createBaseArrangement(catalog, rng)
	if err != nil {
		return nil, err
	}
	fixed, err := buildKArrangements(base, k, rng)
	if err != nil {
		return nil, err
	}

	return &Arrangements{
		rng:   rng,
		fixed: fixed,
		tail:  slices.Clone(base),
	}, nil
}

// Next returns a fresh arrangement. Pulls consume randomness and cannot be
// replayed.
//
// Arrangements past the first k are shuffles of the base arrangement and are
// not checked for consecutive repeated locations.
func (a *Arrangements) Next() Arrangement {
	if a.next < len(a.fixed) {
		arr := a.fixed[a.next]
		a.next++
		return slices.Clone(arr)
	}
	a.rng.Shuffle(len(a.tail), func(i, j int) {
		a.tail[i], a.tail[j] = a.tail[j], a.tail[i]
	})
	return slices.Clone(a.tail)
}

// Fixed returns the number of collision-free arrangements.
func (a *Arrangements) Fixed() int {
	return len(a.fixed)
}

// createBaseArrangement deals clues out location by location, in a fresh
// random location order each pass, never putting two clues from the same
// location next to each other. A pass that cannot place anything means one
// location is left dominating the pool; start over.
func createBaseArrangement(catalog Catalog, rng *rand.Rand) (Arrangement, error) {
	var locations []string
	byLocation := make(map[string][]Clue)
	for _, clue := range catalog {
		if _, ok := byLocation[clue.Location]; !ok {
			locations = append(locations, clue.Location)
		}
		byLocation[clue.Location] = append(byLocation[clue.Location], clue)
	}

	n := len(catalog)
	for range MaxArrangementAttempts {
		pools := make(map[string][]Clue, len(byLocation))
		for loc, clues := range byLocation {
			pools[loc] = slices.Clone(clues)
		}

		arr := make(Arrangement, 0, n)
		for len(arr) < n {
			rng.Shuffle(len(locations), func(i, j int) {
				locations[i], locations[j] = locations[j], locations[i]
			})

			placed := false
			for _, loc := range locations {
				pool := pools[loc]
				if len(pool) == 0 {
					continue
				}
				if len(arr) > 0 && arr[len(arr)-1].Location == loc {
					continue
				}
				arr = append(arr, pool[len(pool)-1])
				pools[loc] = pool[:len(pool)-1]
				placed = true
			}
			if !placed {
				break
			}
		}
		if len(arr) == n {
			return arr, nil
		}
	}

	return nil, fmt.Errorf("%w: no base arrangement without repeated locations after %d attempts",
		ErrArrangementGeneration, MaxArrangementAttempts)
}

// buildKArrangements keeps the base as arrangement 0 and draws the others
// from shuffled queues so that, at every step, all k arrangements are at
// distinct locations and none repeats its own previous location.
func buildKArrangements(base Arrangement, k int, rng *rand.Rand) ([]Arrangement, error) {
	n := len(base)
	for range MaxArrangementAttempts {
		if arrs, ok := tryKArrangements(base, k, n, rng); ok {
			return arrs, nil
		}
	}
	return nil, fmt.Errorf("%w: no %d collision-free arrangements after %d attempts",
		ErrArrangementGeneration, k, MaxArrangementAttempts)
}

func tryKArrangements(base Arrangement, k, n int, rng *rand.Rand) ([]Arrangement, bool) {
	queues := make([]Arrangement, k)
	queues[0] = slices.Clone(base)
	for i := 1; i < k; i++ {
		q := slices.Clone(base)
		rng.Shuffle(len(q), func(a, b int) { q[a], q[b] = q[b], q[a] })
		queues[i] = q
	}

	arrs := make([]Arrangement, k)
	for i := range arrs {
		arrs[i] = make(Arrangement, 0, n)
	}

	used := make(map[string]bool, k)
	for range n {
		clear(used)

		clue := queues[0][0]
		queues[0] = queues[0][1:]
		arrs[0] = append(arrs[0], clue)
		used[clue.Location] = true

		for i := 1; i < k; i++ {
			q := queues[i]
			var prev string
			hasPrev := len(arrs[i]) > 0
			if hasPrev {
				prev = arrs[i][len(arrs[i])-1].Location
			}

			pick := -1
			for j, c := range q {
				if used[c.Location] || (hasPrev && c.Location == prev) {
					continue
				}
				pick = j
				break
			}
			if pick < 0 {
				return nil, false
			}

			// Clues passed over go to the back in their original order.
			rest := make(Arrangement, 0, len(q)-1)
			rest = append(rest, q[pick+1:]...)
			rest = append(rest, q[:pick]...)
			queues[i] = rest

			arrs[i] = append(arrs[i], q[pick])
			used[q[pick].Location] = true
		}
	}
	return arrs, true
}
