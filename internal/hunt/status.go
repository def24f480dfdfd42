package hunt

import (
	"fmt"
	"time"
)

// KnowledgeKind is how much help a team has had on a clue. It only ever
// moves forward: Unaided, then WithHint, then KnowingItem.
type KnowledgeKind int

const (
	Unaided KnowledgeKind = iota
	WithHint
	KnowingItem
)

var knowledgeNames = [...]string{"unaided", "with_hint", "knowing_item"}

func (k KnowledgeKind) String() string {
	if k < Unaided || k > KnowingItem {
		return fmt.Sprintf("KnowledgeKind(%d)", int(k))
	}
	return knowledgeNames[k]
}

func (k KnowledgeKind) MarshalText() ([]byte, error) {
	if k < Unaided || k > KnowingItem {
		return nil, fmt.Errorf("invalid knowledge kind %d", int(k))
	}
	return []byte(knowledgeNames[k]), nil
}

func (k *KnowledgeKind) UnmarshalText(text []byte) error {
	for i, name := range knowledgeNames {
		if string(text) == name {
			*k = KnowledgeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown knowledge kind %q", text)
}

// StatusKind tags the variant held by a Status.
type StatusKind int

const (
	Unread StatusKind = iota
	Seen
	Skipped
	Solved
	Declined
)

var statusNames = [...]string{"unread", "seen", "skipped", "solved", "declined"}

func (s StatusKind) String() string {
	if s < Unread || s > Declined {
		return fmt.Sprintf("StatusKind(%d)", int(s))
	}
	return statusNames[s]
}

func (s StatusKind) MarshalText() ([]byte, error) {
	if s < Unread || s > Declined {
		return nil, fmt.Errorf("invalid status kind %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *StatusKind) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if string(text) == name {
			*s = StatusKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status kind %q", text)
}

// Status is the state of one clue for one team.
//
// Knowledge and EnteredAt are meaningful for Seen and Skipped; Knowledge and
// Duration for Solved. Unread and Declined carry nothing.
type Status struct {
	Kind      StatusKind
	Knowledge KnowledgeKind
	EnteredAt time.Time
	Duration  time.Duration
}

// Score is zero unless the clue was solved.
func (s Status) Score() int32 {
	if s.Kind != Solved {
		return 0
	}
	return ClueScore(s.Knowledge, s.Duration)
}

// markSeen is the only transition out of Unread.
func (s *Status) markSeen(now time.Time) bool {
	if s.Kind != Unread {
		return false
	}
	*s = Status{Kind: Seen, Knowledge: Unaided, EnteredAt: now}
	return true
}

// currentClue is a handle on the clue a team is working on. It can only be
// built around a Seen or Skipped status, and it is the only way to hint,
// reveal, solve or skip a clue.
type currentClue struct {
	clue   *Clue
	status *Status
}

func newCurrentClue(clue *Clue, status *Status) (currentClue, bool) {
	switch status.Kind {
	case Seen, Skipped:
		return currentClue{clue: clue, status: status}, true
	default:
		return currentClue{}, false
	}
}

func (c currentClue) knowledge() KnowledgeKind {
	return c.status.Knowledge
}

func (c currentClue) previouslySkipped() bool {
	return c.status.Kind == Skipped
}

func (c currentClue) elapsed(now time.Time) time.Duration {
	d := now.Sub(c.status.EnteredAt)
	if d < 0 {
		return 0
	}
	return d
}

// hinted is ignored unless the team is still unaided.
func (c currentClue) hinted() {
	if c.status.Knowledge == Unaided {
		c.status.Knowledge = WithHint
	}
}

// revealed is ignored unless the team already has the hint.
func (c currentClue) revealed() {
	if c.status.Knowledge == WithHint {
		c.status.Knowledge = KnowingItem
	}
}

func (c currentClue) solved(now time.Time) Status {
	*c.status = Status{
		Kind:      Solved,
		Knowledge: c.status.Knowledge,
		Duration:  c.elapsed(now),
	}
	return *c.status
}

// skip parks a Seen clue for later. Skipping it a second time gives it up for good.
func (c currentClue) skip() {
	switch c.status.Kind {
	case Seen:
		c.status.Kind = Skipped
	case Skipped:
		*c.status = Status{Kind: Declined}
	}
}
