package api

import (
	"net/http"

	"github.com/impactasaurus/impact/internal/middleware"
	"github.com/impactasaurus/impact/internal/services"
	"github.com/impactasaurus/impact/internal/utils"
)

// GET /api/prefs
func (rt *Router) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.prefs.Get(prefKey(r)))
}

// PUT /api/prefs {"key": "aggregation", "value": "category"}
func (rt *Router) handleSetPref(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	p, err := rt.prefs.SetPref(prefKey(r), req.Key, req.Value)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /api/auth/callback {"hash": "#id_token=..."}
func (rt *Router) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hash string `json:"hash"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	out := rt.auth.ParseRedirect(req.Hash)
	if !out.OK {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"ok":      false,
			"error":   utils.T(middleware.LocaleFromContext(r.Context()), "auth.failed"),
			"message": out.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/assessments/types
func (rt *Router) handleAssessmentTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"types":             services.AssessmentTypes(),
		"remote_limit_days": services.DefaultRemoteMeetingLimit,
	})
}

// POST /api/assessments/type {"type": "remote"}
func (rt *Router) handleSelectAssessmentType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	t, err := rt.assessments.SelectType(req.Type)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	out := map[string]any{"type": t, "message": utils.T(middleware.LocaleFromContext(r.Context()), "assessment.typeChosen")}
	if t == services.AssessmentRemote {
		out["remote_limit_days"] = services.DefaultRemoteMeetingLimit
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/audit is for staff tokens only.
func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	if c, _ := middleware.ClaimsFromContext(r.Context()); c == nil || c.Ben != "" {
		writeError(w, r, services.NewForbiddenError("forbidden"), "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": rt.store.ListAudit()})
}
