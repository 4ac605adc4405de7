package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/impactasaurus/impact/internal/api"
	"github.com/impactasaurus/impact/internal/services"
)

func seededSource(t *testing.T) (api.Store, *services.MeetingService) {
	t.Helper()
	st := api.NewMemoryStore()
	seed, err := api.LoadSeed(filepath.Join("..", "api", "testdata", "seed.yaml"))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if err := api.ApplySeed(st, seed); err != nil {
		t.Fatalf("ApplySeed: %v", err)
	}
	svc := services.NewMeetingService(api.NewMeetingSource(st), services.NewSessionStore(), services.NopTracker{})
	return st, svc
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m Questionnaire, msgs ...tea.Msg) (Questionnaire, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Questionnaire)
	}
	return m, cmd
}

func TestQuestionnaireWalkAndComplete(t *testing.T) {
	st, svc := seededSource(t)
	meeting, err := svc.GetMeeting("m-open")
	if err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	start, err := svc.StartSession("m-open")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	m := NewQuestionnaire(svc, meeting, start, "worker-1")
	if v := m.View(); !strings.Contains(v, "Mood") || !strings.Contains(v, "Question 1 of 3") || !strings.Contains(v, "Answer: 5") {
		t.Fatalf("first question view:\n%s", v)
	}

	m, _ = press(t, m, runes("3"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.view.State.Index != 1 || m.err != nil {
		t.Fatalf("after answer state=%+v err=%v", m.view.State, m.err)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runes("4"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.view.State.Review {
		t.Fatalf("expected review, got %+v", m.view.State)
	}
	v := m.View()
	if !strings.Contains(v, "1. Mood  3") || !strings.Contains(v, "2. Sleep  -") || !strings.Contains(v, "3. Friends  4") {
		t.Fatalf("review view:\n%s", v)
	}

	m, _ = press(t, m, runes("2"))
	if m.view.State.Review || m.view.State.Index != 1 {
		t.Fatalf("digit in review should jump, got %+v", m.view.State)
	}
	m, _ = press(t, m, runes("1.5"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("0"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyRight})
	if !m.view.State.Review {
		t.Fatalf("expected review again, got %+v", m.view.State)
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter in review should complete")
	}
	m, cmd = press(t, m, cmd())
	if m.Done() == nil || m.Done().Redirect != "/beneficiary/ben-1?q=wellbeing" {
		t.Fatalf("done = %+v err=%v", m.Done(), m.err)
	}
	if cmd == nil {
		t.Fatalf("expected quit after completion")
	}
	saved, _ := st.GetMeeting("m-open")
	if saved.Incomplete {
		t.Fatalf("meeting should be complete")
	}
	var sleep float64
	for _, a := range saved.Answers {
		if a.QuestionID == "q-sleep" {
			sleep = a.Value
		}
	}
	if sleep != 1 {
		t.Fatalf("sleep answer = %v, want 1", sleep)
	}
}

func TestQuestionnaireRejectsCompletionBeforeReview(t *testing.T) {
	_, svc := seededSource(t)
	meeting, _ := svc.GetMeeting("m-open")
	start, _ := svc.StartSession("m-open")
	m := NewQuestionnaire(svc, meeting, start, "worker-1")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.view.State.Index != 0 {
		t.Fatalf("previous at first question must stay, got %+v", m.view.State)
	}
	m, cmd := press(t, m, CompletedMsg{Err: services.NewConflictError("questionnaire has not been reviewed")})
	if cmd != nil || m.err == nil || !strings.Contains(m.View(), "not been reviewed") {
		t.Fatalf("completion error not shown: %v", m.err)
	}
	m, _ = press(t, m, runes("x"))
	if m.input != "" {
		t.Fatalf("letters must be ignored, input=%q", m.input)
	}
	if _, cmd := press(t, m, runes("q")); cmd == nil {
		t.Fatalf("q should quit")
	}
}

func TestRenderComparison(t *testing.T) {
	one, two := 2.0, 4.0
	c := &services.Comparison{
		Aggregation: services.AggregationCategory,
		First:       &services.MeetingRef{ID: "a", Label: "3rd Jan 2017"},
		Last:        &services.MeetingRef{ID: "b", Label: "21st Jun 2017"},
		Rows: []services.ComparisonRow{
			{Name: "Health", First: &one, Last: &two},
			{Name: "Social", Last: &two},
		},
	}
	out := RenderComparison(c)
	for _, want := range []string{"Category", "3rd Jan 2017", "21st Jun 2017", "Health", "Social", "-"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
	c.SameRecord = true
	if !strings.Contains(RenderComparison(c), "same record") {
		t.Fatalf("same record notice missing")
	}
	if !strings.Contains(RenderComparison(&services.Comparison{}), "No meetings") {
		t.Fatalf("empty comparison should say so")
	}
}

func TestRenderRecords(t *testing.T) {
	out := RenderRecords([]services.Record{
		{Date: "1st Jul 2017", Questionnaire: "Wellbeing Star", Incomplete: true},
		{Date: "3rd Jan 2017", Questionnaire: "Wellbeing Star", Tags: []string{"housing", "intake"}},
	})
	for _, want := range []string{"1st Jul 2017", "incomplete", "housing, intake", "complete"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
	if !strings.Contains(RenderRecords(nil), "No meetings") {
		t.Fatalf("empty records should say so")
	}
}
