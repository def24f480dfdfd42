package server

import (
	"context"

	"github.com/playperu/treasurehunt/internal/hunt"
	"github.com/playperu/treasurehunt/internal/registry"
)

// Hunt is the session registry as seen by the HTTP handlers.
type Hunt interface {
	NewSession(ctx context.Context, teamName string) (registry.Registration, error)
	Team(ctx context.Context, id hunt.SessionID) (registry.TeamName, error)
	Current(ctx context.Context, id hunt.SessionID) (registry.View, error)
	Hint(ctx context.Context, id hunt.SessionID, clueID string) (registry.View, error)
	Reveal(ctx context.Context, id hunt.SessionID, clueID string) (registry.View, error)
	Skip(ctx context.Context, id hunt.SessionID, clueID string) (registry.View, error)
	Answer(ctx context.Context, id hunt.SessionID, clueID, answer string) (registry.AnswerReply, error)
	Leaderboard(ctx context.Context, you hunt.SessionID) ([]registry.Standing, error)
}
