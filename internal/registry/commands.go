package registry

import (
	"context"

	"github.com/playperu/treasurehunt/internal/hunt"
)

// Registration identifies a newly created session.
type Registration struct {
	SessionID hunt.SessionID
	Team      TeamName
}

// NewSession registers a team and assigns it the next arrangement.
func (r *Registry) NewSession(ctx context.Context, teamName string) (Registration, error) {
	name, err := ParseTeamName(teamName)
	if err != nil {
		return Registration{}, err
	}
	return call(ctx, r, func(st *state) (Registration, error) {
		ts, err := st.register(name)
		if err != nil {
			return Registration{}, err
		}
		return Registration{SessionID: ts.session.ID, Team: ts.team}, nil
	})
}

// Current shows the team its current clue, starting the timer the first time
// a clue is shown.
func (r *Registry) Current(ctx context.Context, id hunt.SessionID) (View, error) {
	return call(ctx, r, func(st *state) (View, error) {
		return st.withSession(id, func(ts *teamSession) (View, error) {
			return ts.view(), nil
		})
	})
}

// Hint records that the team took the hint for clueID. Asking again, or
// asking when the item is already revealed, changes nothing.
func (r *Registry) Hint(ctx context.Context, id hunt.SessionID, clueID string) (View, error) {
	return call(ctx, r, func(st *state) (View, error) {
		return st.withSession(id, func(ts *teamSession) (View, error) {
			return st.hint(ts, clueID)
		})
	})
}

// Reveal records that the team had the item of clueID revealed. It changes
// nothing unless the team already took the hint.
func (r *Registry) Reveal(ctx context.Context, id hunt.SessionID, clueID string) (View, error) {
	return call(ctx, r, func(st *state) (View, error) {
		return st.withSession(id, func(ts *teamSession) (View, error) {
			return st.reveal(ts, clueID)
		})
	})
}

// Skip parks clueID for later, or gives it up if it was skipped before.
func (r *Registry) Skip(ctx context.Context, id hunt.SessionID, clueID string) (View, error) {
	return call(ctx, r, func(st *state) (View, error) {
		return st.withSession(id, func(ts *teamSession) (View, error) {
			return st.skip(ts, clueID)
		})
	})
}

// AnswerReply is the outcome of an answer and the view that follows it.
type AnswerReply struct {
	Result hunt.AnswerResult
	View   View
}

// Answer submits an answer for clueID.
func (r *Registry) Answer(ctx context.Context, id hunt.SessionID, clueID, answer string) (AnswerReply, error) {
	return call(ctx, r, func(st *state) (AnswerReply, error) {
		var res hunt.AnswerResult
		v, err := st.withSession(id, func(ts *teamSession) (View, error) {
			if _, err := st.current(ts, clueID); err != nil {
				return ts.view(), err
			}
			res = ts.session.TrySolve(answer)
			if res.Outcome != hunt.AnswerWrong {
				st.dirty = true
				st.reranked = true
			}
			return ts.view(), nil
		})
		return AnswerReply{Result: res, View: v}, err
	})
}

// Standing is one row of the leaderboard.
type Standing struct {
	Team  TeamName
	Score int32
	You   bool
}

// Leaderboard ranks every team by score, highest first, ties by team name.
// The row of session you, if any, is marked.
func (r *Registry) Leaderboard(ctx context.Context, you hunt.SessionID) ([]Standing, error) {
	return call(ctx, r, func(st *state) ([]Standing, error) {
		return st.standings(you), nil
	})
}

// Snapshot encodes every session as it stands.
func (r *Registry) Snapshot(ctx context.Context) (Snapshot, error) {
	return call(ctx, r, func(st *state) (Snapshot, error) {
		return st.snapshot()
	})
}

// Team returns the team name of a session without touching its clues.
func (r *Registry) Team(ctx context.Context, id hunt.SessionID) (TeamName, error) {
	return call(ctx, r, func(st *state) (TeamName, error) {
		ts, ok := st.sessions[id]
		if !ok {
			return "", ErrUnknownSession
		}
		return ts.team, nil
	})
}

// Check reports whether the registry goroutine is answering commands.
func (r *Registry) Check(ctx context.Context) error {
	_, err := call(ctx, r, func(*state) (struct{}, error) {
		return struct{}{}, nil
	})
	return err
}
