package services

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// HumanisedDate renders dates the way record tables show them, e.g. "3rd Jan 2017".
func HumanisedDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Ordinal(t.Day()) + " " + t.Format("Jan 2006")
}

// SortMeetingsByConducted returns a sorted copy; ascending when asc is true.
func SortMeetingsByConducted(meetings []*Meeting, asc bool) []*Meeting {
	out := append([]*Meeting(nil), meetings...)
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return out[i].Conducted.Before(out[j].Conducted)
		}
		return out[i].Conducted.After(out[j].Conducted)
	})
	return out
}

// RecordAction is what a record row offers; Label is filled in per locale.
type RecordAction struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Record is one line of a beneficiary's record list.
type Record struct {
	ID            string         `json:"id"`
	Date          string         `json:"date"`
	Conducted     time.Time      `json:"conducted"`
	Questionnaire string         `json:"questionnaire"`
	Tags          []string       `json:"tags"`
	User          string         `json:"user,omitempty"`
	Incomplete    bool           `json:"incomplete"`
	Actions       []RecordAction `json:"actions"`
}

// BuildRecords lists meetings newest first. Incomplete meetings can be resumed.
func BuildRecords(meetings []*Meeting) []Record {
	sorted := SortMeetingsByConducted(meetings, false)
	out := make([]Record, 0, len(sorted))
	for _, m := range sorted {
		tags := m.Tags
		if tags == nil {
			tags = []string{}
		}
		r := Record{
			ID:            m.ID,
			Date:          HumanisedDate(m.Conducted),
			Conducted:     m.Conducted,
			Questionnaire: m.OutcomeSet.Name,
			Tags:          tags,
			User:          m.User,
			Incomplete:    m.Incomplete,
		}
		if m.Incomplete {
			r.Actions = []RecordAction{{Key: "continue", URL: "/meeting/" + m.ID}}
		} else {
			r.Actions = []RecordAction{{Key: "coming_soon"}}
		}
		out = append(out, r)
	}
	return out
}
