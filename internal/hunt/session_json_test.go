package hunt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionJSONRoundTrip(t *testing.T) {
	clock := newFakeClock()
	s := newMockSession(clock)

	requireCurrent(t, s, 0)
	clock.Advance(2 * time.Minute)
	solve(t, s, 0, ClueScore(Unaided, 2*time.Minute))
	requireCurrent(t, s, 1)
	s.HintCurrent()
	s.SkipCurrent()
	requireCurrent(t, s, 2)
	s.TrySolve("9")
	clock.Advance(3 * time.Minute)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	restored, err := RestoreSession(data, clock.Now)
	require.NoError(t, err)

	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, s.NegativePoints(), restored.NegativePoints())
	assert.Equal(t, s.TotalScore(), restored.TotalScore())
	assert.Equal(t, s.Arrangement(), restored.Arrangement())
	assert.Equal(t, s.Statuses(), restored.Statuses())

	view := requireCurrent(t, restored, 2)
	assert.Equal(t, 3*time.Minute, view.Duration, "the timer carries on across a restore")
}

func TestRestoreAfterDowntime(t *testing.T) {
	clock := newFakeClock()
	s := newMockSession(clock)
	requireCurrent(t, s, 0)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	restored, err := RestoreSession(data, clock.Now)
	require.NoError(t, err)

	d, ok := restored.CurrentClueDuration()
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute, d)
}

func TestSessionJSONShape(t *testing.T) {
	clock := newFakeClock()
	s := newMockSession(clock)
	requireCurrent(t, s, 0)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw struct {
		ID    string `json:"id"`
		Clues []struct {
			Clue struct {
				SecretHash string `json:"secretHash"`
			} `json:"clue"`
			Status map[string]any `json:"status"`
		} `json:"clues"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "TEST", raw.ID)
	require.Len(t, raw.Clues, len(mockCatalog()))
	assert.Equal(t, AnswerDigest("0").String(), raw.Clues[0].Clue.SecretHash)
	assert.Equal(t, "seen", raw.Clues[0].Status["kind"])
	assert.Equal(t, "unaided", raw.Clues[0].Status["knowledge"])
	assert.Contains(t, raw.Clues[0].Status, "enteredAt")
	assert.Equal(t, map[string]any{"kind": "unread"}, raw.Clues[1].Status)
}

func TestRestoreSessionRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad id", `{"id":"TOOLONG","negativePoints":0,"clues":[]}`},
		{"bad hash", `{"id":"ABCD","clues":[{"clue":{"secretHash":"zz"},"status":{"kind":"unread"}}]}`},
		{"short hash", `{"id":"ABCD","clues":[{"clue":{"secretHash":"abcd"},"status":{"kind":"unread"}}]}`},
		{"seen without time", `{"id":"ABCD","clues":[{"clue":{"secretHash":"` + AnswerDigest("x").String() + `"},"status":{"kind":"seen","knowledge":"unaided"}}]}`},
		{"solved without duration", `{"id":"ABCD","clues":[{"clue":{"secretHash":"` + AnswerDigest("x").String() + `"},"status":{"kind":"solved","knowledge":"unaided"}}]}`},
		{"unknown kind", `{"id":"ABCD","clues":[{"clue":{"secretHash":"` + AnswerDigest("x").String() + `"},"status":{"kind":"lost"}}]}`},
		{"not json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RestoreSession([]byte(tt.data), newFakeClock().Now)
			assert.Error(t, err)
		})
	}
}
