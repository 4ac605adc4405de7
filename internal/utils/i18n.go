package utils

// Minimal server-side i18n for fixed keys.
// UI strings should live in the frontend; server provides only essentials.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":             "ok",
		"review.no_meetings":    "No meetings found",
		"review.load_failed":    "Failed to load assessments",
		"comparison.same":       "You are currently comparing the same record.",
		"records.coming_soon":   "Coming Soon",
		"records.continue":      "Continue",
		"tags.none_available":   "No suggested tags available",
		"tags.all_selected":     "All suggested tags selected",
		"meeting.review":        "Review your answers",
		"meeting.no_questions":  "This questionnaire has no questions",
		"auth.failed":           "Login failed",
		"comparison.first":      "First meeting",
		"comparison.second":     "Second meeting",
		"comparison.question":   "Question",
		"comparison.category":   "Category",
		"assessment.typeChosen": "Assessment type selected",
	},
	"de": {
		"health.ok":             "ok",
		"review.no_meetings":    "Keine Treffen gefunden",
		"review.load_failed":    "Bewertungen konnten nicht geladen werden",
		"comparison.same":       "Sie vergleichen gerade denselben Eintrag.",
		"records.coming_soon":   "Demnächst verfügbar",
		"records.continue":      "Fortsetzen",
		"tags.none_available":   "Keine vorgeschlagenen Tags verfügbar",
		"tags.all_selected":     "Alle vorgeschlagenen Tags ausgewählt",
		"meeting.review":        "Antworten überprüfen",
		"auth.failed":           "Anmeldung fehlgeschlagen",
		"comparison.first":      "Erstes Treffen",
		"comparison.second":     "Zweites Treffen",
		"comparison.question":   "Frage",
		"comparison.category":   "Kategorie",
		"meeting.no_questions":  "Dieser Fragebogen hat keine Fragen",
		"assessment.typeChosen": "Bewertungsart ausgewählt",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
