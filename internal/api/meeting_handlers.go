package api

import (
	"net/http"

	"github.com/impactasaurus/impact/internal/middleware"
	"github.com/impactasaurus/impact/internal/services"
	"github.com/impactasaurus/impact/internal/utils"
)

func (rt *Router) authorizeMeeting(r *http.Request, meetingID string) (*services.Meeting, error) {
	m, err := rt.meetings.GetMeeting(meetingID)
	if err != nil {
		return nil, err
	}
	if err := canSeeBeneficiary(r, m.Beneficiary); err != nil {
		return nil, err
	}
	return m, nil
}

func (rt *Router) authorizeSession(r *http.Request, sessionID string) error {
	v, err := rt.meetings.Session(sessionID)
	if err != nil {
		return err
	}
	_, err = rt.authorizeMeeting(r, v.MeetingID)
	return err
}

// GET /api/meetings/{id}
func (rt *Router) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	m, err := rt.authorizeMeeting(r, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"meeting":   m,
		"questions": services.ActiveQuestions(m.OutcomeSet.Questions),
	})
}

func (rt *Router) writeSession(w http.ResponseWriter, r *http.Request, status int, v *services.SessionView) {
	out := map[string]any{"session": v}
	if v.State.Review {
		key := "meeting.review"
		if v.Total == 0 {
			key = "meeting.no_questions"
		}
		out["message"] = utils.T(middleware.LocaleFromContext(r.Context()), key)
	}
	writeJSON(w, status, out)
}

// POST /api/meetings/{id}/sessions
func (rt *Router) handleStartSession(w http.ResponseWriter, r *http.Request) {
	m, err := rt.authorizeMeeting(r, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	v, err := rt.meetings.StartSession(m.ID)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	rt.writeSession(w, r, http.StatusCreated, v)
}

// sessionStep runs one navigation action after checking access to the
// session's meeting.
func (rt *Router) sessionStep(w http.ResponseWriter, r *http.Request, step func(sid string) (*services.SessionView, error)) {
	sid := r.PathValue("sid")
	if err := rt.authorizeSession(r, sid); err != nil {
		writeError(w, r, err, "")
		return
	}
	v, err := step(sid)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	rt.writeSession(w, r, http.StatusOK, v)
}

// GET /api/sessions/{sid}
func (rt *Router) handleSession(w http.ResponseWriter, r *http.Request) {
	rt.sessionStep(w, r, rt.meetings.Session)
}

// POST /api/sessions/{sid}/next
func (rt *Router) handleNext(w http.ResponseWriter, r *http.Request) {
	rt.sessionStep(w, r, rt.meetings.Next)
}

// POST /api/sessions/{sid}/previous
func (rt *Router) handlePrevious(w http.ResponseWriter, r *http.Request) {
	rt.sessionStep(w, r, rt.meetings.Previous)
}

// POST /api/sessions/{sid}/goto {"index": 2} or {"question_id": "q2"}
func (rt *Router) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index      *int   `json:"index"`
		QuestionID string `json:"question_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	if req.Index == nil && req.QuestionID == "" {
		writeError(w, r, services.NewInvalidError("index or question_id required"), "")
		return
	}
	rt.sessionStep(w, r, func(sid string) (*services.SessionView, error) {
		if req.Index != nil {
			return rt.meetings.GoTo(sid, *req.Index)
		}
		return rt.meetings.GoToQuestionID(sid, req.QuestionID)
	})
}

// POST /api/sessions/{sid}/answer {"value": 4}
func (rt *Router) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value *float64 `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	if req.Value == nil {
		writeError(w, r, services.NewInvalidError("value required"), "")
		return
	}
	rt.sessionStep(w, r, func(sid string) (*services.SessionView, error) {
		return rt.meetings.Answer(sid, *req.Value)
	})
}

// POST /api/sessions/{sid}/complete
func (rt *Router) handleComplete(w http.ResponseWriter, r *http.Request) {
	sid := r.PathValue("sid")
	if err := rt.authorizeSession(r, sid); err != nil {
		writeError(w, r, err, "")
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	res, err := rt.meetings.Complete(sid, uid)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/outcome-sets
func (rt *Router) handleListOutcomeSets(w http.ResponseWriter, r *http.Request) {
	sets, err := rt.outcomeSets.List()
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outcome_sets": sets})
}

// GET /api/outcome-sets/{id}
func (rt *Router) handleGetOutcomeSet(w http.ResponseWriter, r *http.Request) {
	set, err := rt.outcomeSets.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, set)
}
