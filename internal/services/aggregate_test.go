package services

import "testing"

func TestCategoryAggregates(t *testing.T) {
	m := &Meeting{
		OutcomeSet: OutcomeSet{
			Questions: []Question{
				{ID: "q1", CategoryID: "c1"},
				{ID: "q2", CategoryID: "c1"},
				{ID: "q3", CategoryID: "c2", Archived: true},
				{ID: "q4"},
				{ID: "q5", CategoryID: "c3"},
			},
			Categories: []Category{{ID: "c3", Name: "Skills"}, {ID: "c1", Name: "Health"}, {ID: "c2", Name: "Old"}},
		},
		Answers: []Answer{
			{QuestionID: "q1", Value: 2}, {QuestionID: "q2", Value: 5},
			{QuestionID: "q3", Value: 1}, {QuestionID: "q4", Value: 4},
			{QuestionID: "q5", Value: 3}, {QuestionID: "ghost", Value: 9},
		},
	}
	got := CategoryAggregates(m)
	if len(got) != 2 {
		t.Fatalf("aggregates = %+v, want 2", got)
	}
	if got[0].CategoryID != "c3" || got[0].Value != 3 {
		t.Fatalf("first aggregate = %+v", got[0])
	}
	if got[1].CategoryID != "c1" || got[1].Value != 3.5 {
		t.Fatalf("second aggregate = %+v", got[1])
	}
	if CategoryAggregates(nil) != nil {
		t.Fatalf("nil meeting should give nil")
	}
}
