package services

import (
	"sort"
	"strings"
)

type TagStore interface {
	ListMeetingsByBeneficiary(beneficiaryID string) ([]*Meeting, error)
}

type TagSuggestionStatus string

const (
	TagsNoneAvailable TagSuggestionStatus = "none_available"
	TagsAllSelected   TagSuggestionStatus = "all_selected"
	TagsOK            TagSuggestionStatus = "ok"
)

type TagSuggestions struct {
	Suggested  []string            `json:"suggested"`
	Unselected []string            `json:"unselected"`
	Status     TagSuggestionStatus `json:"status"`
}

type TagService struct {
	store TagStore
}

func NewTagService(store TagStore) *TagService {
	return &TagService{store: store}
}

// SuggestTags proposes tags already used on the beneficiary's records, most
// used first, leaving out the ones already selected.
func (s *TagService) SuggestTags(beneficiaryID string, selected []string) (*TagSuggestions, error) {
	if strings.TrimSpace(beneficiaryID) == "" {
		return nil, NewInvalidError("beneficiary id required")
	}
	ms, err := s.store.ListMeetingsByBeneficiary(beneficiaryID)
	if err != nil {
		return nil, NewBadGatewayError("failed to load suggested tags", err)
	}
	suggested := rankTags(ms)
	out := &TagSuggestions{Suggested: suggested, Unselected: FilterSelectedTags(suggested, selected)}
	switch {
	case len(suggested) == 0:
		out.Status = TagsNoneAvailable
	case len(out.Unselected) == 0:
		out.Status = TagsAllSelected
	default:
		out.Status = TagsOK
	}
	return out, nil
}

func rankTags(ms []*Meeting) []string {
	counts := map[string]int{}
	for _, m := range ms {
		for _, t := range m.Tags {
			t = strings.TrimSpace(t)
			if t != "" {
				counts[t]++
			}
		}
	}
	tags := make([]string, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags
}

// FilterSelectedTags removes selected tags from suggested, keeping order.
func FilterSelectedTags(suggested, selected []string) []string {
	skip := make(map[string]struct{}, len(selected))
	for _, t := range selected {
		skip[t] = struct{}{}
	}
	out := make([]string, 0, len(suggested))
	for _, t := range suggested {
		if _, ok := skip[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}
