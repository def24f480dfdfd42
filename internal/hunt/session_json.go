package hunt

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

type sessionJSON struct {
	ID             string      `json:"id"`
	NegativePoints int32       `json:"negativePoints"`
	Clues          []entryJSON `json:"clues"`
}

type entryJSON struct {
	Clue   clueJSON   `json:"clue"`
	Status statusJSON `json:"status"`
}

type clueJSON struct {
	Location   string `json:"location"`
	Poem       string `json:"poem"`
	Hint       string `json:"hint"`
	Item       string `json:"item"`
	SecretHash string `json:"secretHash"`
}

type statusJSON struct {
	Kind       StatusKind     `json:"kind"`
	Knowledge  *KnowledgeKind `json:"knowledge,omitempty"`
	EnteredAt  *time.Time     `json:"enteredAt,omitempty"`
	DurationNS *int64         `json:"durationNs,omitempty"`
}

// MarshalJSON stores clue entry times as wall-clock instants, computed from
// the time elapsed since the clue was seen.
func (s *Session) MarshalJSON() ([]byte, error) {
	now := s.now()
	wallNow := now.Round(0).UTC()

	out := sessionJSON{
		ID:             s.ID.String(),
		NegativePoints: s.negativePoints,
		Clues:          make([]entryJSON, len(s.clues)),
	}
	for i, e := range s.clues {
		st := statusJSON{Kind: e.status.Kind}
		switch e.status.Kind {
		case Seen, Skipped:
			k := e.status.Knowledge
			at := wallNow.Add(-now.Sub(e.status.EnteredAt))
			st.Knowledge = &k
			st.EnteredAt = &at
		case Solved:
			k := e.status.Knowledge
			d := int64(e.status.Duration)
			st.Knowledge = &k
			st.DurationNS = &d
		}
		out.Clues[i] = entryJSON{
			Clue: clueJSON{
				Location:   e.clue.Location,
				Poem:       e.clue.Poem,
				Hint:       e.clue.Hint,
				Item:       e.clue.Item,
				SecretHash: e.clue.SecretHash.String(),
			},
			Status: st,
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds entry times relative to the session clock so that
// elapsed durations carry on from where they were when saved.
func (s *Session) UnmarshalJSON(data []byte) error {
	var in sessionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	id, err := ParseSessionID(in.ID)
	if err != nil {
		return fmt.Errorf("session %q: %w", in.ID, err)
	}
	if s.now == nil {
		s.now = time.Now
	}
	now := s.now()
	wallNow := now.Round(0)

	clues := make([]entry, len(in.Clues))
	for i, e := range in.Clues {
		hash, err := decodeDigest(e.Clue.SecretHash)
		if err != nil {
			return fmt.Errorf("clue %d: %w", i, err)
		}

		st := Status{Kind: e.Status.Kind}
		if e.Status.Knowledge != nil {
			st.Knowledge = *e.Status.Knowledge
		}
		switch st.Kind {
		case Seen, Skipped:
			if e.Status.EnteredAt == nil {
				return fmt.Errorf("clue %d: %s status without enteredAt", i, st.Kind)
			}
			elapsed := wallNow.Sub(*e.Status.EnteredAt)
			if elapsed < 0 {
				elapsed = 0
			}
			st.EnteredAt = now.Add(-elapsed)
		case Solved:
			if e.Status.DurationNS == nil {
				return fmt.Errorf("clue %d: solved status without duration", i)
			}
			st.Duration = time.Duration(*e.Status.DurationNS)
		}

		clues[i] = entry{
			clue: Clue{
				Location:   e.Clue.Location,
				Poem:       e.Clue.Poem,
				Hint:       e.Clue.Hint,
				Item:       e.Clue.Item,
				SecretHash: hash,
			},
			status: st,
		}
	}

	s.ID = id
	s.negativePoints = in.NegativePoints
	s.clues = clues
	return nil
}

// RestoreSession decodes a session saved with MarshalJSON.
func RestoreSession(data []byte, now Clock) (*Session, error) {
	s := &Session{now: now}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("decoding secret hash: %w", err)
	}
	if len(b) != len(d) {
		return d, fmt.Errorf("secret hash has %d bytes, want %d", len(b), len(d))
	}
	copy(d[:], b)
	return d, nil
}
