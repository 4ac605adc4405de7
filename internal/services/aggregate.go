package services

// CategoryAggregates computes the mean answer per category for a meeting.
// Answers to archived or unknown questions, and questions without a category,
// are left out. Categories are returned in questionnaire order.
func CategoryAggregates(m *Meeting) []CategoryAggregate {
	if m == nil {
		return nil
	}
	byQuestion := make(map[string]Question, len(m.OutcomeSet.Questions))
	for _, q := range m.OutcomeSet.Questions {
		byQuestion[q.ID] = q
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, a := range m.Answers {
		q, ok := byQuestion[a.QuestionID]
		if !ok || q.Archived || q.CategoryID == "" {
			continue
		}
		sums[q.CategoryID] += a.Value
		counts[q.CategoryID]++
	}
	out := make([]CategoryAggregate, 0, len(counts))
	for _, c := range m.OutcomeSet.Categories {
		n := counts[c.ID]
		if n == 0 {
			continue
		}
		out = append(out, CategoryAggregate{CategoryID: c.ID, Value: sums[c.ID] / float64(n)})
	}
	return out
}
