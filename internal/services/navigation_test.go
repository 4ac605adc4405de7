package services

import "testing"

func questions(n int) []Question {
	out := make([]Question, n)
	for i := range out {
		out[i] = Question{ID: "q" + string(rune('0'+i)), Text: "Question"}
	}
	return out
}

func wantAt(t *testing.T, n *Navigator, idx int) {
	t.Helper()
	s := n.State()
	if s.Review || s.Index != idx {
		t.Fatalf("state = %+v, want question %d", s, idx)
	}
}

func wantReview(t *testing.T, n *Navigator) {
	t.Helper()
	if !n.State().Review {
		t.Fatalf("state = %+v, want review", n.State())
	}
}

func TestNavigatorWalk(t *testing.T) {
	n := NewNavigator(questions(3))
	wantAt(t, n, 0)
	n.Next()
	wantAt(t, n, 1)
	n.Next()
	wantAt(t, n, 2)
	n.Next()
	wantReview(t, n)
	n.Previous()
	wantAt(t, n, 2)
}

func TestNavigatorEmpty(t *testing.T) {
	n := NewNavigator(nil)
	wantReview(t, n)
	n.Previous()
	wantReview(t, n)
	n.GoTo(3)
	wantReview(t, n)
	if _, ok := n.CurrentQuestion(); ok {
		t.Fatalf("no current question expected in review")
	}
}

func TestNavigatorGoToClamps(t *testing.T) {
	n := NewNavigator(questions(4))
	n.GoTo(-5)
	wantAt(t, n, 0)
	n.GoTo(99)
	wantAt(t, n, 3)
	n.GoTo(2)
	wantAt(t, n, 2)
}

func TestNavigatorPreviousAtStartIsNoop(t *testing.T) {
	n := NewNavigator(questions(2))
	n.Previous()
	wantAt(t, n, 0)
	if n.CanGoPrevious() {
		t.Fatalf("CanGoPrevious at index 0")
	}
	n.Next()
	if !n.CanGoPrevious() {
		t.Fatalf("expected CanGoPrevious at index 1")
	}
	n.Next()
	wantReview(t, n)
	if n.CanGoPrevious() {
		t.Fatalf("CanGoPrevious should be false in review")
	}
}

func TestNavigatorGoToQuestionID(t *testing.T) {
	qs := questions(4)
	n := NewNavigator(qs)
	n.GoToQuestionID(qs[2].ID)
	wantAt(t, n, 2)
	n.GoToQuestionID("unknown")
	wantAt(t, n, 0)
	q, ok := n.CurrentQuestion()
	if !ok || q.ID != qs[0].ID {
		t.Fatalf("current question = %+v", q)
	}
}

func TestNavigatorCallbacks(t *testing.T) {
	n := NewNavigator(questions(2))
	var changes []NavigationState
	reviews := 0
	n.OnChange(func(s NavigationState) { changes = append(changes, s) })
	n.OnReview(func() { reviews++ })

	n.Next()
	n.Next()
	n.Next() // already in review
	n.Previous()
	n.Next()

	if reviews != 2 {
		t.Fatalf("review callbacks = %d, want 2", reviews)
	}
	if len(changes) != 5 {
		t.Fatalf("change callbacks = %d, want 5", len(changes))
	}
	if !changes[1].Review || changes[3].Review || changes[3].Index != 1 {
		t.Fatalf("unexpected change sequence %+v", changes)
	}
}

func TestActiveQuestions(t *testing.T) {
	qs := []Question{{ID: "a"}, {ID: "b", Archived: true}, {ID: "c"}}
	got := ActiveQuestions(qs)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("ActiveQuestions = %+v", got)
	}
}
