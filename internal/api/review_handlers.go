package api

import (
	"net/http"

	"github.com/impactasaurus/impact/internal/middleware"
	"github.com/impactasaurus/impact/internal/services"
	"github.com/impactasaurus/impact/internal/utils"
)

const loadFailedKey = "review.load_failed"

// GET /api/beneficiaries/{id}/review
func (rt *Router) handleReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := canSeeBeneficiary(r, id); err != nil {
		writeError(w, r, err, "")
		return
	}
	ov, err := rt.review.Overview(id, rt.prefs.Get(prefKey(r)))
	if err != nil {
		writeError(w, r, err, loadFailedKey)
		return
	}
	out := map[string]any{"overview": ov}
	if ov.MeetingCount == 0 {
		out["message"] = utils.T(middleware.LocaleFromContext(r.Context()), "review.no_meetings")
	}
	writeJSON(w, http.StatusOK, out)
}

func parseAggregation(raw string) (services.Aggregation, error) {
	if raw == "" {
		return "", nil
	}
	a, ok := services.ParseAggregation(raw)
	if !ok {
		return "", services.NewInvalidError("unknown aggregation " + raw)
	}
	return a, nil
}

// GET /api/beneficiaries/{id}/comparison?q=&first=&second=&agg=&format=json|csv
func (rt *Router) handleComparison(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := canSeeBeneficiary(r, id); err != nil {
		writeError(w, r, err, "")
		return
	}
	q := r.URL.Query()
	agg, err := parseAggregation(q.Get("agg"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	format := q.Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeError(w, r, services.NewInvalidError("unsupported format"), "")
		return
	}
	c, err := rt.review.Comparison(id, rt.prefs.Get(prefKey(r)), services.ComparisonParams{
		QuestionSetID: q.Get("q"),
		FirstID:       q.Get("first"),
		LastID:        q.Get("second"),
		Aggregation:   agg,
	})
	if err != nil {
		writeError(w, r, err, loadFailedKey)
		return
	}
	if format == "csv" {
		locale := middleware.LocaleFromContext(r.Context())
		res, err := services.ExportComparisonCSV(c, services.ColumnLabels{
			Question: utils.T(locale, "comparison.question"),
			Category: utils.T(locale, "comparison.category"),
			First:    utils.T(locale, "comparison.first"),
			Second:   utils.T(locale, "comparison.second"),
		})
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeExport(w, res)
		return
	}
	out := map[string]any{"comparison": c}
	if c.SameRecord {
		out["notice"] = utils.T(middleware.LocaleFromContext(r.Context()), "comparison.same")
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/beneficiaries/{id}/radar?q=&agg=
func (rt *Router) handleRadar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := canSeeBeneficiary(r, id); err != nil {
		writeError(w, r, err, "")
		return
	}
	agg, err := parseAggregation(r.URL.Query().Get("agg"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	radar, err := rt.review.Radar(id, rt.prefs.Get(prefKey(r)), r.URL.Query().Get("q"), agg)
	if err != nil {
		writeError(w, r, err, loadFailedKey)
		return
	}
	writeJSON(w, http.StatusOK, radar)
}

// GET /api/beneficiaries/{id}/records?format=json|csv
func (rt *Router) handleRecords(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := canSeeBeneficiary(r, id); err != nil {
		writeError(w, r, err, "")
		return
	}
	recs, err := rt.review.Records(id)
	if err != nil {
		writeError(w, r, err, loadFailedKey)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		res, err := services.ExportRecordsCSV(recs)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeExport(w, res)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	for i := range recs {
		for j := range recs[i].Actions {
			recs[i].Actions[j].Label = utils.T(locale, "records."+recs[i].Actions[j].Key)
		}
	}
	out := map[string]any{"records": recs}
	if len(recs) == 0 {
		out["message"] = utils.T(locale, "review.no_meetings")
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/beneficiaries/{id}/tags/suggest?selected=a,b
func (rt *Router) handleSuggestTags(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := canSeeBeneficiary(r, id); err != nil {
		writeError(w, r, err, "")
		return
	}
	res, err := rt.tags.SuggestTags(id, splitList(r.URL.Query().Get("selected")))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	out := map[string]any{"suggestions": res}
	locale := middleware.LocaleFromContext(r.Context())
	switch res.Status {
	case services.TagsNoneAvailable:
		out["message"] = utils.T(locale, "tags.none_available")
	case services.TagsAllSelected:
		out["message"] = utils.T(locale, "tags.all_selected")
	}
	writeJSON(w, http.StatusOK, out)
}
