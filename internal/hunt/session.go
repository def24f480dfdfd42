package hunt

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"
)

// SessionIDLength is the number of letters in a session code.
const SessionIDLength = 4

var ErrInvalidSessionCode = errors.New("invalid session code")

// SessionID is the public code a team uses to get back to its session.
type SessionID [SessionIDLength]byte

// NewSessionID draws a random code of uppercase letters.
func NewSessionID(rng *rand.Rand) SessionID {
	var id SessionID
	for i := range id {
		id[i] = byte('A' + rng.IntN(26))
	}
	return id
}

// ParseSessionID accepts any ASCII code of the right length and upper-cases it.
func ParseSessionID(code string) (SessionID, error) {
	var id SessionID
	if len(code) != SessionIDLength {
		return id, ErrInvalidSessionCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] >= 0x80 {
			return id, ErrInvalidSessionCode
		}
	}
	copy(id[:], strings.ToUpper(code))
	return id, nil
}

func (id SessionID) String() string {
	return string(id[:])
}

// Clock returns the current time. Sessions measure clue durations with it.
type Clock func() time.Time

type entry struct {
	clue   Clue
	status Status
}

// Session is one team's progress through its arrangement.
type Session struct {
	ID SessionID

	clues          []entry
	negativePoints int32
	now            Clock
}

// NewSession starts a session with every clue unread.
func NewSession(id SessionID, arrangement Arrangement, now Clock) *Session {
	if now == nil {
		now = time.Now
	}
	clues := make([]entry, len(arrangement))
	for i, c := range arrangement {
		clues[i] = entry{clue: c}
	}
	return &Session{ID: id, clues: clues, now: now}
}

// ClueView is what a team gets to know about its current clue.
type ClueView struct {
	Clue              Clue
	Knowledge         KnowledgeKind
	PreviouslySkipped bool
	Duration          time.Duration
}

// AnswerOutcome classifies a submitted answer.
type AnswerOutcome int

const (
	// AnswerWrong matches no clue. Nothing changes.
	AnswerWrong AnswerOutcome = iota
	// AnswerCorrect solved the current clue.
	AnswerCorrect
	// AnswerOtherClue is the answer of a different clue and costs a penalty.
	AnswerOtherClue
)

func (o AnswerOutcome) String() string {
	switch o {
	case AnswerCorrect:
		return "correct"
	case AnswerOtherClue:
		return "penalty"
	default:
		return "wrong"
	}
}

// AnswerResult carries the points won or lost by an answer.
type AnswerResult struct {
	Outcome AnswerOutcome
	Points  int32
}

// current resolves the clue the team is working on, in arrangement order:
// the Seen clue if there is one, otherwise the first Unread clue (which
// becomes Seen), otherwise the first Skipped clue. With none of those the
// session is complete.
func (s *Session) current() (currentClue, bool) {
	firstSkipped := -1
	for i := range s.clues {
		e := &s.clues[i]
		switch e.status.Kind {
		case Seen:
			return newCurrentClue(&e.clue, &e.status)
		case Unread:
			e.status.markSeen(s.now())
			return newCurrentClue(&e.clue, &e.status)
		case Skipped:
			if firstSkipped < 0 {
				firstSkipped = i
			}
		}
	}
	if firstSkipped < 0 {
		return currentClue{}, false
	}
	e := &s.clues[firstSkipped]
	return newCurrentClue(&e.clue, &e.status)
}

// CurrentClue returns the current clue, marking the next unread clue as seen
// when needed. It reports false once every clue is solved or declined.
func (s *Session) CurrentClue() (ClueView, bool) {
	cur, ok := s.current()
	if !ok {
		return ClueView{}, false
	}
	return ClueView{
		Clue:              *cur.clue,
		Knowledge:         cur.knowledge(),
		PreviouslySkipped: cur.previouslySkipped(),
		Duration:          cur.elapsed(s.now()),
	}, true
}

// CurrentClueDuration is how long the team has been on the current clue,
// counted from when it was first seen.
func (s *Session) CurrentClueDuration() (time.Duration, bool) {
	cur, ok := s.current()
	if !ok {
		return 0, false
	}
	return cur.elapsed(s.now()), true
}

// TrySolve checks an answer against the current clue, then against every
// other clue of the session.
func (s *Session) TrySolve(answer string) AnswerResult {
	cur, ok := s.current()
	if !ok {
		return AnswerResult{Outcome: AnswerWrong}
	}

	digest := AnswerDigest(answer)
	if cur.clue.SecretHash == digest {
		solved := cur.solved(s.now())
		return AnswerResult{Outcome: AnswerCorrect, Points: solved.Score()}
	}

	for _, e := range s.clues {
		if e.clue.SecretHash == digest {
			s.negativePoints = saturatingAdd(s.negativePoints, WrongCluePenalty)
			return AnswerResult{Outcome: AnswerOtherClue, Points: WrongCluePenalty}
		}
	}
	return AnswerResult{Outcome: AnswerWrong}
}

// SkipCurrent skips the current clue, or declines it if it was already skipped.
func (s *Session) SkipCurrent() {
	if cur, ok := s.current(); ok {
		cur.skip()
	}
}

// HintCurrent returns the hint of the current clue, recording that the team
// asked for it if they were unaided.
func (s *Session) HintCurrent() (string, bool) {
	cur, ok := s.current()
	if !ok {
		return "", false
	}
	cur.hinted()
	return cur.clue.Hint, true
}

// RevealCurrentItem returns the item of the current clue, recording the
// reveal if the team already had the hint.
func (s *Session) RevealCurrentItem() (string, bool) {
	cur, ok := s.current()
	if !ok {
		return "", false
	}
	cur.revealed()
	return cur.clue.Item, true
}

// TotalScore adds penalties and the score of every solved clue.
func (s *Session) TotalScore() int32 {
	total := s.negativePoints
	for _, e := range s.clues {
		total = saturatingAdd(total, e.status.Score())
	}
	return total
}

// NegativePoints is the sum of all wrong-clue penalties.
func (s *Session) NegativePoints() int32 {
	return s.negativePoints
}

// Statuses returns a copy of the clue statuses in arrangement order.
func (s *Session) Statuses() []Status {
	out := make([]Status, len(s.clues))
	for i, e := range s.clues {
		out[i] = e.status
	}
	return out
}

// Arrangement returns the clues in the order assigned to the team.
func (s *Session) Arrangement() Arrangement {
	out := make(Arrangement, len(s.clues))
	for i, e := range s.clues {
		out[i] = e.clue
	}
	return out
}
