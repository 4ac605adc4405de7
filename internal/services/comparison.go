package services

// SelectInitial returns the earliest conducted meeting, or nil for an empty
// list. A later meeting only replaces the running pick when strictly earlier.
func SelectInitial(meetings []*Meeting) *Meeting {
	return findMeeting(meetings, func(candidate, pick *Meeting) bool {
		return candidate.Conducted.Before(pick.Conducted)
	})
}

// SelectLast returns the latest conducted meeting, or nil for an empty list.
// A later meeting only replaces the running pick when strictly later.
func SelectLast(meetings []*Meeting) *Meeting {
	return findMeeting(meetings, func(candidate, pick *Meeting) bool {
		return candidate.Conducted.After(pick.Conducted)
	})
}

func findMeeting(meetings []*Meeting, replaces func(candidate, pick *Meeting) bool) *Meeting {
	var pick *Meeting
	for _, m := range meetings {
		if m == nil {
			continue
		}
		if pick == nil || replaces(m, pick) {
			pick = m
		}
	}
	return pick
}

// rowSet accumulates comparison rows keyed by display label, keeping the
// order in which labels were first seen.
type rowSet struct {
	order []string
	rows  map[string]*ComparisonRow
}

func newRowSet() *rowSet {
	return &rowSet{rows: map[string]*ComparisonRow{}}
}

func (rs *rowSet) row(name string) *ComparisonRow {
	r, ok := rs.rows[name]
	if !ok {
		r = &ComparisonRow{Name: name}
		rs.rows[name] = r
		rs.order = append(rs.order, name)
	}
	return r
}

func (rs *rowSet) setFirst(name string, v float64) { rs.row(name).First = &v }
func (rs *rowSet) setLast(name string, v float64)  { rs.row(name).Last = &v }

func (rs *rowSet) list() []ComparisonRow {
	out := make([]ComparisonRow, 0, len(rs.order))
	for _, name := range rs.order {
		out = append(out, *rs.rows[name])
	}
	return out
}

// DiffByQuestion compares the answers of two meetings by question text, so
// that revisions of a questionnaire with different question ids still line
// up. Archived questions and answers to unknown questions are dropped.
func DiffByQuestion(first, last *Meeting) []ComparisonRow {
	rs := newRowSet()
	eachAnswer(first, rs.setFirst)
	eachAnswer(last, rs.setLast)
	return rs.list()
}

// DiffByCategory is DiffByQuestion over category aggregates, keyed by
// category name.
func DiffByCategory(first, last *Meeting) []ComparisonRow {
	rs := newRowSet()
	eachCategory(first, rs.setFirst)
	eachCategory(last, rs.setLast)
	return rs.list()
}

func eachAnswer(m *Meeting, fn func(name string, v float64)) {
	if m == nil {
		return
	}
	questions := make(map[string]Question, len(m.OutcomeSet.Questions))
	for _, q := range m.OutcomeSet.Questions {
		questions[q.ID] = q
	}
	for _, a := range m.Answers {
		q, ok := questions[a.QuestionID]
		if !ok || q.Archived {
			continue
		}
		fn(q.Text, a.Value)
	}
}

func eachCategory(m *Meeting, fn func(name string, v float64)) {
	if m == nil {
		return
	}
	names := make(map[string]string, len(m.OutcomeSet.Categories))
	for _, c := range m.OutcomeSet.Categories {
		names[c.ID] = c.Name
	}
	for _, agg := range m.Aggregates.Category {
		name, ok := names[agg.CategoryID]
		if !ok {
			continue
		}
		fn(name, agg.Value)
	}
}

// Comparison is the table view model for two selected meetings.
type Comparison struct {
	Aggregation Aggregation     `json:"aggregation"`
	First       *MeetingRef     `json:"first,omitempty"`
	Last        *MeetingRef     `json:"last,omitempty"`
	Rows        []ComparisonRow `json:"rows"`
	SameRecord  bool            `json:"same_record"`
	Options     []MeetingRef    `json:"options"`
}

// Compare picks the two meetings to compare and diffs them. Empty ids, or ids
// not present in meetings, fall back to the earliest and latest meeting.
func Compare(meetings []*Meeting, firstID, lastID string, agg Aggregation) Comparison {
	out := Comparison{Aggregation: agg, Rows: []ComparisonRow{}, Options: make([]MeetingRef, 0, len(meetings))}
	for _, m := range meetings {
		if m != nil {
			out.Options = append(out.Options, refFor(m))
		}
	}
	first := meetingByID(meetings, firstID)
	if first == nil {
		first = SelectInitial(meetings)
	}
	last := meetingByID(meetings, lastID)
	if last == nil {
		last = SelectLast(meetings)
	}
	if first == nil || last == nil {
		return out
	}
	fr, lr := refFor(first), refFor(last)
	out.First, out.Last = &fr, &lr
	out.SameRecord = first.ID == last.ID
	if agg == AggregationCategory {
		out.Rows = DiffByCategory(first, last)
	} else {
		out.Rows = DiffByQuestion(first, last)
	}
	return out
}

func meetingByID(meetings []*Meeting, id string) *Meeting {
	if id == "" {
		return nil
	}
	for _, m := range meetings {
		if m != nil && m.ID == id {
			return m
		}
	}
	return nil
}

func refFor(m *Meeting) MeetingRef {
	return MeetingRef{ID: m.ID, Conducted: m.Conducted, Label: HumanisedDate(m.Conducted)}
}
