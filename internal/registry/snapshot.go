package registry

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// SessionRecord is one persisted session. Data is the session's JSON with
// wall-clock times.
type SessionRecord struct {
	ID       string
	TeamName string
	Data     json.RawMessage
}

// Snapshot is the state of every session at TakenAt.
type Snapshot struct {
	TakenAt  time.Time
	Sessions []SessionRecord
}

// Persister receives a snapshot after every command that changed a session.
// Persist is called from the registry goroutine and must not block.
type Persister interface {
	Persist(Snapshot)
}

func (st *state) snapshot() (Snapshot, error) {
	records := make([]SessionRecord, 0, len(st.sessions))
	for id, ts := range st.sessions {
		data, err := json.Marshal(ts.session)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encoding session %s: %w", id, err)
		}
		records = append(records, SessionRecord{
			ID:       id.String(),
			TeamName: ts.team.String(),
			Data:     data,
		})
	}
	slices.SortFunc(records, func(a, b SessionRecord) int {
		return strings.Compare(a.ID, b.ID)
	})
	return Snapshot{TakenAt: st.clock(), Sessions: records}, nil
}
