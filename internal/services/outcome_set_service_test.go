package services

import (
	"errors"
	"testing"
)

type stubOutcomeSetStore struct {
	sets []*OutcomeSet
	err  error
}

func (s *stubOutcomeSetStore) GetOutcomeSet(id string) (*OutcomeSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, set := range s.sets {
		if set.ID == id {
			return set, nil
		}
	}
	return nil, nil
}

func (s *stubOutcomeSetStore) ListOutcomeSets() ([]*OutcomeSet, error) { return s.sets, s.err }

func catalogueFixture() *stubOutcomeSetStore {
	return &stubOutcomeSetStore{sets: []*OutcomeSet{
		{
			ID:         "os1",
			Name:       "Wellbeing",
			Categories: []Category{{ID: "c1", Name: "Health"}},
			Questions: []Question{
				{ID: "q1", Text: "Mood", CategoryID: "c1"},
				{ID: "q2", Text: "Old", Archived: true},
				{ID: "q3", Text: "Sleep", CategoryID: "c1"},
			},
		},
		{ID: "os2", Name: "Skills", Questions: []Question{{ID: "s1", Text: "Cooking"}}},
	}}
}

func TestOutcomeSetListCountsActiveQuestions(t *testing.T) {
	svc := NewOutcomeSetService(catalogueFixture())
	got, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].QuestionCount != 2 || got[0].CategoryCount != 1 || got[1].Name != "Skills" {
		t.Fatalf("List = %+v", got)
	}
}

func TestOutcomeSetGet(t *testing.T) {
	svc := NewOutcomeSetService(catalogueFixture())
	v, err := svc.Get("os1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(v.Questions) != 2 || v.Questions[1].ID != "q3" {
		t.Fatalf("archived question leaked: %+v", v.Questions)
	}
	v, _ = svc.Get("os2")
	if v.Categories == nil {
		t.Fatalf("categories should be an empty list, not nil")
	}
	if _, err := svc.Get("nope"); !isCode(err, ErrorNotFound) {
		t.Fatalf("missing set err = %v", err)
	}
	if _, err := svc.Get(" "); !isCode(err, ErrorInvalid) {
		t.Fatalf("blank id err = %v", err)
	}
}

func TestOutcomeSetStoreFailure(t *testing.T) {
	boom := errors.New("disk gone")
	svc := NewOutcomeSetService(&stubOutcomeSetStore{err: boom})
	if _, err := svc.List(); !isCode(err, ErrorBadGateway) || !errors.Is(err, boom) {
		t.Fatalf("List err = %v", err)
	}
	if _, err := svc.Get("os1"); !isCode(err, ErrorBadGateway) {
		t.Fatalf("Get err = %v", err)
	}
}

func isCode(err error, code ErrorCode) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == code
}
