package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

type sessionPath struct {
	ID string `path:"id" description:"Four-letter session code, case-insensitive."`
}

type clueActionRequest struct {
	sessionPath
	ClueRequest
}

type answerRequest struct {
	sessionPath
	AnswerRequest
}

type leaderboardQuery struct {
	Session string `query:"session" description:"Session code whose row is marked isYou."`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Treasure Hunt API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for a team treasure hunt: clues, hints, answers and the leaderboard.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the session store and the registry.")
	getHealthz.AddRespStructure(map[string]HealthStatus{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]HealthStatus{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/register")
	postRegister.SetSummary("Register a team")
	postRegister.SetDescription("Creates a session with its own clue order. Team names are trimmed and must be unique.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(RegisterResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// GET /api/sessions/{id}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}")
	getSession.SetSummary("Current clue")
	getSession.SetDescription("Returns the team's current clue, or the final score once every clue is solved or given up. The clue timer starts the first time a clue is shown.")
	getSession.AddReqStructure(sessionPath{})
	getSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// POST /api/sessions/{id}/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Answers are compared exactly. The answer of another clue costs 100 points.")
	postAnswer.AddReqStructure(answerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postAnswer.AddRespStructure(StaleClueResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	for _, action := range []struct{ path, summary, description string }{
		{"/api/sessions/{id}/hint", "Take the hint", "Shows the hint of the current clue. Allowed once the clue has been open for the hint wait."},
		{"/api/sessions/{id}/reveal", "Reveal the item", "Shows the item of the current clue after the hint. Allowed once the clue has been open for the reveal wait."},
		{"/api/sessions/{id}/skip", "Skip the clue", "Skips the current clue for now, or for good if it was skipped before. Allowed once the clue has been open for the skip wait."},
	} {
		op, _ := r.NewOperationContext(http.MethodPost, action.path)
		op.SetSummary(action.summary)
		op.SetDescription(action.description)
		op.AddReqStructure(clueActionRequest{})
		op.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
		op.AddRespStructure(StaleClueResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
		op.AddRespStructure(CooldownResponse{}, openapi.WithHTTPStatus(http.StatusTooManyRequests))
		_ = r.AddOperation(op)
	}

	// GET /api/sessions/{id}/qr.png
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/qr.png")
	getQR.SetSummary("Session QR code")
	getQR.SetDescription("PNG QR code of the team's clue page.")
	getQR.AddReqStructure(sessionPath{})
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.SetDescription("Every team by score, highest first, ties by name.")
	getLeaderboard.AddReqStructure(leaderboardQuery{})
	getLeaderboard.AddRespStructure([]StandingResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/leaderboard/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/events")
	getEvents.SetSummary("Leaderboard event stream")
	getEvents.SetDescription("Server-Sent Events stream with the full leaderboard after every change.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
