package services

import (
	"errors"
	"reflect"
	"testing"
)

func TestSuggestTags(t *testing.T) {
	svc := NewTagService(reviewFixture())
	got, err := svc.SuggestTags("ben1", nil)
	if err != nil {
		t.Fatalf("SuggestTags error: %v", err)
	}
	if !reflect.DeepEqual(got.Suggested, []string{"q1", "housing"}) {
		t.Fatalf("suggested = %v", got.Suggested)
	}
	if got.Status != TagsOK {
		t.Fatalf("status = %s", got.Status)
	}

	got, _ = svc.SuggestTags("ben1", []string{"q1"})
	if !reflect.DeepEqual(got.Unselected, []string{"housing"}) || got.Status != TagsOK {
		t.Fatalf("unselected = %v status %s", got.Unselected, got.Status)
	}

	got, _ = svc.SuggestTags("ben1", []string{"housing", "q1"})
	if got.Status != TagsAllSelected || len(got.Unselected) != 0 {
		t.Fatalf("expected all selected, got %+v", got)
	}

	got, _ = svc.SuggestTags("nobody", nil)
	if got.Status != TagsNoneAvailable {
		t.Fatalf("expected none available, got %+v", got)
	}
}

func TestSuggestTagsUpstreamError(t *testing.T) {
	svc := NewTagService(&stubReviewStore{err: errors.New("down")})
	_, err := svc.SuggestTags("ben1", nil)
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorBadGateway {
		t.Fatalf("expected bad gateway, got %v", err)
	}
}
