package registry

import (
	"cmp"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/playperu/treasurehunt/internal/hunt"
)

// state is only touched by the registry goroutine.
type state struct {
	sessions     map[hunt.SessionID]*teamSession
	names        map[TeamName]hunt.SessionID
	arrangements *hunt.Arrangements
	catalogSize  int
	rng          *rand.Rand
	clock        hunt.Clock
	cooldowns    Cooldowns
	logger       *slog.Logger

	// dirty is set by any command that changed a session.
	dirty bool
	// reranked is set when a team joined or a score changed.
	reranked bool
}

type teamSession struct {
	team    TeamName
	session *hunt.Session
}

// View is a team's position in the hunt: the current clue, or the final
// score once Complete.
type View struct {
	SessionID hunt.SessionID
	Team      TeamName
	Clue      hunt.ClueView
	Complete  bool
	Score     int32
}

func (ts *teamSession) view() View {
	v := View{
		SessionID: ts.session.ID,
		Team:      ts.team,
		Score:     ts.session.TotalScore(),
	}
	clue, ok := ts.session.CurrentClue()
	if !ok {
		v.Complete = true
		return v
	}
	v.Clue = clue
	return v
}

func (st *state) register(name TeamName) (*teamSession, error) {
	if _, taken := st.names[name]; taken {
		return nil, ErrDuplicateTeamName
	}

	id := hunt.NewSessionID(st.rng)
	for st.sessions[id] != nil {
		id = hunt.NewSessionID(st.rng)
	}

	ts := &teamSession{
		team:    name,
		session: hunt.NewSession(id, st.arrangements.Next(), st.clock),
	}
	st.sessions[id] = ts
	st.names[name] = id
	st.dirty = true
	st.reranked = true
	st.logger.Info("session created", "session", id.String(), "team", name.String())
	return ts, nil
}

// withSession runs fn on a known session. Showing a clue for the first time
// starts its timer, so that also counts as a change to persist.
func (st *state) withSession(id hunt.SessionID, fn func(ts *teamSession) (View, error)) (View, error) {
	ts, ok := st.sessions[id]
	if !ok {
		return View{}, ErrUnknownSession
	}
	before := unread(ts.session)
	v, err := fn(ts)
	if unread(ts.session) != before {
		st.dirty = true
	}
	return v, err
}

func unread(s *hunt.Session) int {
	n := 0
	for _, status := range s.Statuses() {
		if status.Kind == hunt.Unread {
			n++
		}
	}
	return n
}

// current fails with ErrStaleClue unless clueID names the clue the team is on.
func (st *state) current(ts *teamSession, clueID string) (hunt.ClueView, error) {
	clue, ok := ts.session.CurrentClue()
	if !ok || clue.Clue.ID() != clueID {
		return hunt.ClueView{}, ErrStaleClue
	}
	return clue, nil
}

func (st *state) hint(ts *teamSession, clueID string) (View, error) {
	clue, err := st.current(ts, clueID)
	if err != nil {
		return ts.view(), err
	}
	if clue.Knowledge != hunt.Unaided {
		return ts.view(), nil
	}
	if clue.Duration < st.cooldowns.Hint {
		return ts.view(), &CooldownError{Action: "hint", Remaining: st.cooldowns.Hint - clue.Duration}
	}
	ts.session.HintCurrent()
	st.dirty = true
	return ts.view(), nil
}

func (st *state) reveal(ts *teamSession, clueID string) (View, error) {
	clue, err := st.current(ts, clueID)
	if err != nil {
		return ts.view(), err
	}
	if clue.Knowledge != hunt.WithHint {
		return ts.view(), nil
	}
	if clue.Duration < st.cooldowns.Reveal {
		return ts.view(), &CooldownError{Action: "reveal", Remaining: st.cooldowns.Reveal - clue.Duration}
	}
	ts.session.RevealCurrentItem()
	st.dirty = true
	return ts.view(), nil
}

func (st *state) skip(ts *teamSession, clueID string) (View, error) {
	clue, err := st.current(ts, clueID)
	if err != nil {
		return ts.view(), err
	}
	if clue.Duration < st.cooldowns.Skip {
		return ts.view(), &CooldownError{Action: "skip", Remaining: st.cooldowns.Skip - clue.Duration}
	}
	ts.session.SkipCurrent()
	st.dirty = true
	return ts.view(), nil
}

func (st *state) restore(records []SessionRecord) error {
	for _, rec := range records {
		name, err := ParseTeamName(rec.TeamName)
		if err != nil {
			return fmt.Errorf("restoring session %s: %w", rec.ID, err)
		}
		s, err := hunt.RestoreSession(rec.Data, st.clock)
		if err != nil {
			return fmt.Errorf("restoring session %s: %w", rec.ID, err)
		}
		if s.ID.String() != rec.ID {
			return fmt.Errorf("restoring session %s: data belongs to session %q", rec.ID, s.ID)
		}
		if n := len(s.Arrangement()); n != st.catalogSize {
			return fmt.Errorf("restoring session %s: %d clues, catalog has %d", rec.ID, n, st.catalogSize)
		}
		if _, dup := st.sessions[s.ID]; dup {
			return fmt.Errorf("restoring session %s: duplicate session id", s.ID)
		}
		if _, dup := st.names[name]; dup {
			return fmt.Errorf("restoring session %s: %w", s.ID, ErrDuplicateTeamName)
		}
		st.sessions[s.ID] = &teamSession{team: name, session: s}
		st.names[name] = s.ID
	}
	return nil
}

// standings ranks every team by score, highest first, ties by team name.
func (st *state) standings(you hunt.SessionID) []Standing {
	rows := make([]Standing, 0, len(st.sessions))
	for id, ts := range st.sessions {
		rows = append(rows, Standing{
			Team:  ts.team,
			Score: ts.session.TotalScore(),
			You:   id == you,
		})
	}
	slices.SortFunc(rows, func(a, b Standing) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Team, b.Team)
	})
	return rows
}
