package utils

import (
	"strings"

	"golang.org/x/text/language"
)

// DetermineLocale resolves a locale from an explicit query param, then the
// Accept-Language header, then def. Supported values are base tags like "en".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	names := make([]string, 0, len(supported))
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		t, err := language.Parse(s)
		if err != nil {
			continue
		}
		names = append(names, strings.ToLower(s))
		tags = append(tags, t)
	}
	if len(tags) == 0 {
		return def
	}
	matcher := language.NewMatcher(tags)
	pick := func(prefs []language.Tag) (string, bool) {
		if len(prefs) == 0 {
			return "", false
		}
		_, idx, conf := matcher.Match(prefs...)
		if conf == language.No {
			return "", false
		}
		return names[idx], true
	}

	if t, err := language.Parse(strings.TrimSpace(queryLang)); err == nil && queryLang != "" {
		if v, ok := pick([]language.Tag{t}); ok {
			return v
		}
	}
	if prefs, _, err := language.ParseAcceptLanguage(acceptLang); err == nil {
		if v, ok := pick(prefs); ok {
			return v
		}
	}
	for _, n := range names {
		if n == strings.ToLower(def) {
			return n
		}
	}
	return names[0]
}
