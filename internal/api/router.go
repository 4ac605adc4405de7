package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/impactasaurus/impact/internal/middleware"
	"github.com/impactasaurus/impact/internal/services"
	"github.com/impactasaurus/impact/internal/utils"
)

// Options wires the router's collaborators. Zero values get in-memory
// defaults so tests can build a router from a Store alone.
type Options struct {
	Store       Store
	Sessions    *services.SessionStore
	Prefs       *services.PrefStore
	Tracker     services.Tracker
	IDPSecret   string
	IDPAudience string
}

type Router struct {
	store       Store
	prefs       *services.PrefStore
	sessions    *services.SessionStore
	review      *services.ReviewService
	tags        *services.TagService
	meetings    *services.MeetingService
	auth        *services.AuthService
	assessments *services.AssessmentService
	outcomeSets *services.OutcomeSetService
}

func NewRouter(opts Options) *Router {
	if opts.Store == nil {
		opts.Store = newMemoryStore()
	}
	if opts.Sessions == nil {
		opts.Sessions = services.NewSessionStore()
	}
	if opts.Prefs == nil {
		opts.Prefs = services.NewPrefStore()
	}
	if opts.Tracker == nil {
		opts.Tracker = services.NopTracker{}
	}
	adapter := NewMeetingSource(opts.Store)
	return &Router{
		store:       opts.Store,
		prefs:       opts.Prefs,
		sessions:    opts.Sessions,
		review:      services.NewReviewService(adapter),
		tags:        services.NewTagService(adapter),
		meetings:    services.NewMeetingService(adapter, opts.Sessions, opts.Tracker),
		auth:        services.NewAuthService(opts.IDPSecret, opts.IDPAudience, middleware.SignToken, opts.Tracker),
		assessments: services.NewAssessmentService(opts.Tracker),
		outcomeSets: services.NewOutcomeSetService(adapter),
	}
}

func (rt *Router) Sessions() *services.SessionStore { return rt.sessions }

func protect(h http.HandlerFunc) http.Handler {
	return middleware.WithAuth(middleware.RequireAuth(h))
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/callback", rt.handleAuthCallback)

	mux.Handle("GET /api/beneficiaries/{id}/review", protect(rt.handleReview))
	mux.Handle("GET /api/beneficiaries/{id}/comparison", protect(rt.handleComparison))
	mux.Handle("GET /api/beneficiaries/{id}/radar", protect(rt.handleRadar))
	mux.Handle("GET /api/beneficiaries/{id}/records", protect(rt.handleRecords))
	mux.Handle("GET /api/beneficiaries/{id}/tags/suggest", protect(rt.handleSuggestTags))

	mux.Handle("GET /api/outcome-sets", protect(rt.handleListOutcomeSets))
	mux.Handle("GET /api/outcome-sets/{id}", protect(rt.handleGetOutcomeSet))

	mux.Handle("GET /api/meetings/{id}", protect(rt.handleGetMeeting))
	mux.Handle("POST /api/meetings/{id}/sessions", protect(rt.handleStartSession))
	mux.Handle("GET /api/sessions/{sid}", protect(rt.handleSession))
	mux.Handle("POST /api/sessions/{sid}/next", protect(rt.handleNext))
	mux.Handle("POST /api/sessions/{sid}/previous", protect(rt.handlePrevious))
	mux.Handle("POST /api/sessions/{sid}/goto", protect(rt.handleGoTo))
	mux.Handle("POST /api/sessions/{sid}/answer", protect(rt.handleAnswer))
	mux.Handle("POST /api/sessions/{sid}/complete", protect(rt.handleComplete))

	mux.Handle("GET /api/prefs", protect(rt.handleGetPrefs))
	mux.Handle("PUT /api/prefs", protect(rt.handleSetPref))

	mux.Handle("GET /api/assessments/types", protect(rt.handleAssessmentTypes))
	mux.Handle("POST /api/assessments/type", protect(rt.handleSelectAssessmentType))

	mux.Handle("GET /api/audit", protect(rt.handleAudit))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorBadGateway:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError maps service errors onto HTTP statuses. Upstream failures are
// reported with the localized message for msgKey when one is given.
func writeError(w http.ResponseWriter, r *http.Request, err error, msgKey string) {
	se, ok := services.AsServiceError(err)
	if !ok {
		log.Printf("api: %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	msg := se.Message
	if se.Code == services.ErrorBadGateway {
		log.Printf("api: %s %s: %v", r.Method, r.URL.Path, errors.Unwrap(err))
		if msgKey != "" {
			msg = utils.T(middleware.LocaleFromContext(r.Context()), msgKey)
		}
	}
	writeJSON(w, statusFor(se.Code), map[string]string{"error": msg, "code": string(se.Code)})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return services.NewInvalidError("invalid request body")
	}
	return nil
}

// canSeeBeneficiary enforces that beneficiary tokens stay within their own
// records. Staff tokens carry no beneficiary and see everything.
func canSeeBeneficiary(r *http.Request, beneficiaryID string) error {
	c, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return services.NewUnauthorizedError("unauthorized")
	}
	if c.Ben != "" && c.Ben != beneficiaryID {
		return services.NewForbiddenError("forbidden")
	}
	return nil
}

// prefKey scopes preferences to the signed-in user.
func prefKey(r *http.Request) string {
	uid, _ := middleware.UserIDFromContext(r.Context())
	return uid
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeExport(w http.ResponseWriter, res *services.ExportResult) {
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
	_, _ = w.Write(res.Data)
}
