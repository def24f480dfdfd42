package server

import (
	"time"

	"github.com/playperu/treasurehunt/internal/hunt"
	"github.com/playperu/treasurehunt/internal/registry"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type RegisterRequest struct {
	TeamName string `json:"teamName" validate:"required,max=200"`
}

type RegisterResponse struct {
	SessionID string `json:"sessionId"`
	TeamName  string `json:"teamName"`
}

// ClueResponse shows the poem always, the hint once taken and the item once
// revealed.
type ClueResponse struct {
	ID                string `json:"id"`
	Poem              string `json:"poem"`
	Hint              string `json:"hint,omitempty"`
	Item              string `json:"item,omitempty"`
	Knowledge         string `json:"knowledge"`
	PreviouslySkipped bool   `json:"previouslySkipped"`
	ElapsedSeconds    int64  `json:"elapsedSeconds"`
	SkipAction        string `json:"skipAction"`
}

type SessionResponse struct {
	SessionID string        `json:"sessionId"`
	TeamName  string        `json:"teamName"`
	Score     int32         `json:"score"`
	Complete  bool          `json:"complete"`
	Clue      *ClueResponse `json:"clue,omitempty"`
}

type ClueRequest struct {
	ClueID string `json:"clueId" validate:"required,hexadecimal,len=16"`
}

type AnswerRequest struct {
	ClueID string `json:"clueId" validate:"required,hexadecimal,len=16"`
	Answer string `json:"answer" validate:"required,max=500"`
}

type AnswerResponse struct {
	Result  string          `json:"result" enum:"correct,penalty,wrong"`
	Points  int32           `json:"points"`
	Session SessionResponse `json:"session"`
}

// StaleClueResponse is returned with 409 when the request named a clue the
// team is no longer on.
type StaleClueResponse struct {
	Error   string          `json:"error"`
	Session SessionResponse `json:"session"`
}

// CooldownResponse is returned with 429 when an action is asked for too early.
type CooldownResponse struct {
	Error             string `json:"error"`
	RetryAfterSeconds int64  `json:"retryAfterSeconds"`
}

type StandingResponse struct {
	TeamName string `json:"teamName"`
	Score    int32  `json:"score"`
	IsYou    bool   `json:"isYou"`
}

// HealthStatus is the state of one dependency in the /healthz response.
type HealthStatus struct {
	Status string `json:"status" enum:"ok,error"`
}

func toSessionResponse(v registry.View) SessionResponse {
	resp := SessionResponse{
		SessionID: v.SessionID.String(),
		TeamName:  v.Team.String(),
		Score:     v.Score,
		Complete:  v.Complete,
	}
	if v.Complete {
		return resp
	}

	clue := &ClueResponse{
		ID:                v.Clue.Clue.ID(),
		Poem:              v.Clue.Clue.Poem,
		Knowledge:         v.Clue.Knowledge.String(),
		PreviouslySkipped: v.Clue.PreviouslySkipped,
		ElapsedSeconds:    int64(v.Clue.Duration / time.Second),
		SkipAction:        "skip_for_now",
	}
	if v.Clue.Knowledge >= hunt.WithHint {
		clue.Hint = v.Clue.Clue.Hint
	}
	if v.Clue.Knowledge >= hunt.KnowingItem {
		clue.Item = v.Clue.Clue.Item
	}
	if v.Clue.PreviouslySkipped {
		clue.SkipAction = "skip_forever"
	}
	resp.Clue = clue
	return resp
}

func toStandings(rows []registry.Standing) []StandingResponse {
	out := make([]StandingResponse, len(rows))
	for i, row := range rows {
		out[i] = StandingResponse{TeamName: row.Team.String(), Score: row.Score, IsYou: row.You}
	}
	return out
}
