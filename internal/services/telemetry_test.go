package services

import (
	"sync"
	"testing"
)

func TestAsyncTrackerDeliversThenCloses(t *testing.T) {
	var mu sync.Mutex
	var got []TrackerEvent
	tr := NewAsyncTracker(8, func(e TrackerEvent) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	tr.Event("login", "failed", "bad token")
	tr.Event("assessment", "typeSelected", "live")
	tr.Close()
	tr.Event("late", "ignored", "")
	tr.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("events = %+v, want 2", got)
	}
	if got[0].Category != "login" || got[1].Label != "live" {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestAsyncTrackerDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	delivered := 0
	tr := NewAsyncTracker(1, func(TrackerEvent) {
		<-block
		delivered++
	})
	for i := 0; i < 10; i++ {
		tr.Event("x", "y", "")
	}
	close(block)
	tr.Close()
	if delivered < 1 || delivered > 2 {
		t.Fatalf("delivered = %d, want between 1 and 2", delivered)
	}
}

func TestAssessmentSelectType(t *testing.T) {
	rec := &recordingTracker{}
	svc := NewAssessmentService(rec)
	if _, err := svc.SelectType("carrier-pigeon"); err == nil {
		t.Fatalf("expected invalid type error")
	}
	got, err := svc.SelectType("remote")
	if err != nil || got != AssessmentRemote {
		t.Fatalf("SelectType = %s %v", got, err)
	}
	if len(rec.events) != 1 || rec.events[0].Action != "typeSelected" || rec.events[0].Label != "remote" {
		t.Fatalf("events = %+v", rec.events)
	}
	if len(AssessmentTypes()) != 3 {
		t.Fatalf("expected three assessment types")
	}
}
