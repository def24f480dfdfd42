package hunt

import (
	"math/rand/v2"
	"strconv"
	"time"
)

func mockClue(seed int, location string) Clue {
	hash := AnswerDigest(strconv.Itoa(seed))
	text := hash.String()
	return Clue{
		Location:   location,
		Poem:       text,
		Hint:       "hint " + text,
		Item:       "item " + text,
		SecretHash: hash,
	}
}

// mockCatalog has 14 clues over 8 locations; D holds three of them.
func mockCatalog() Catalog {
	locations := []string{"A", "B", "C", "D", "D", "D", "E", "E", "F", "F", "G", "G", "H", "H"}
	clues := make(Catalog, len(locations))
	for i, loc := range locations {
		clues[i] = mockClue(i, loc)
	}
	return clues
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
