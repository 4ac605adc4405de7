package services

import "strings"

// ReviewStore is the data source for a beneficiary's meetings.
type ReviewStore interface {
	ListMeetingsByBeneficiary(beneficiaryID string) ([]*Meeting, error)
}

type ReviewService struct {
	store ReviewStore
}

func NewReviewService(store ReviewStore) *ReviewService {
	return &ReviewService{store: store}
}

type QuestionSetOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReviewOverview drives the progress page controls. Empty Meetings is the
// "no meetings found" condition, not an error.
type ReviewOverview struct {
	BeneficiaryID                string              `json:"beneficiary_id"`
	MeetingCount                 int                 `json:"meeting_count"`
	QuestionSets                 []QuestionSetOption `json:"question_sets"`
	SelectedQuestionSetID        string              `json:"selected_question_set_id,omitempty"`
	CategoryAggregationAvailable bool                `json:"category_aggregation_available"`
	Aggregation                  Aggregation         `json:"aggregation"`
	Visualisation                Visualisation       `json:"visualisation"`
}

// QuestionSetOptions lists the distinct questionnaires used by meetings, in
// order of first appearance.
func QuestionSetOptions(meetings []*Meeting) []QuestionSetOption {
	out := []QuestionSetOption{}
	seen := map[string]bool{}
	for _, m := range meetings {
		if m == nil || seen[m.OutcomeSetID] {
			continue
		}
		seen[m.OutcomeSetID] = true
		out = append(out, QuestionSetOption{ID: m.OutcomeSetID, Name: m.OutcomeSet.Name})
	}
	return out
}

// FilterMeetings keeps meetings that used the questionnaire questionSetID.
func FilterMeetings(meetings []*Meeting, questionSetID string) []*Meeting {
	out := make([]*Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m != nil && m.OutcomeSetID == questionSetID {
			out = append(out, m)
		}
	}
	return out
}

// CategoryAggregationAvailable reports whether any meeting of the selected
// questionnaire has categories to aggregate over.
func CategoryAggregationAvailable(meetings []*Meeting, questionSetID string) bool {
	if questionSetID == "" {
		return false
	}
	for _, m := range FilterMeetings(meetings, questionSetID) {
		if len(m.OutcomeSet.Categories) > 0 {
			return true
		}
	}
	return false
}

// selectQuestionSet honours the preferred questionnaire when the beneficiary
// has meetings for it, otherwise picks the first option.
func selectQuestionSet(options []QuestionSetOption, preferred string) string {
	for _, o := range options {
		if o.ID == preferred {
			return preferred
		}
	}
	if len(options) > 0 {
		return options[0].ID
	}
	return ""
}

func (s *ReviewService) meetings(beneficiaryID string) ([]*Meeting, error) {
	if strings.TrimSpace(beneficiaryID) == "" {
		return nil, NewInvalidError("beneficiary id required")
	}
	ms, err := s.store.ListMeetingsByBeneficiary(beneficiaryID)
	if err != nil {
		return nil, NewBadGatewayError("failed to load assessments", err)
	}
	return ms, nil
}

func (s *ReviewService) Overview(beneficiaryID string, prefs Preferences) (*ReviewOverview, error) {
	ms, err := s.meetings(beneficiaryID)
	if err != nil {
		return nil, err
	}
	options := QuestionSetOptions(ms)
	selected := selectQuestionSet(options, prefs.SelectedQuestionSetID)
	canCat := CategoryAggregationAvailable(ms, selected)
	return &ReviewOverview{
		BeneficiaryID:                beneficiaryID,
		MeetingCount:                 len(ms),
		QuestionSets:                 options,
		SelectedQuestionSetID:        selected,
		CategoryAggregationAvailable: canCat,
		Aggregation:                  prefs.EffectiveAggregation(canCat),
		Visualisation:                prefs.EffectiveVisualisation(),
	}, nil
}

// ComparisonParams selects what to compare. Empty fields fall back to the
// session preferences and then to defaults.
type ComparisonParams struct {
	QuestionSetID string
	FirstID       string
	LastID        string
	Aggregation   Aggregation
}

func (s *ReviewService) scoped(beneficiaryID string, prefs Preferences, questionSetID string, agg Aggregation) ([]*Meeting, Aggregation, error) {
	ms, err := s.meetings(beneficiaryID)
	if err != nil {
		return nil, "", err
	}
	if questionSetID == "" {
		questionSetID = selectQuestionSet(QuestionSetOptions(ms), prefs.SelectedQuestionSetID)
	}
	if agg == "" {
		agg = prefs.Aggregation
	}
	canCat := CategoryAggregationAvailable(ms, questionSetID)
	return FilterMeetings(ms, questionSetID), Preferences{Aggregation: agg}.EffectiveAggregation(canCat), nil
}

func (s *ReviewService) Comparison(beneficiaryID string, prefs Preferences, p ComparisonParams) (*Comparison, error) {
	ms, agg, err := s.scoped(beneficiaryID, prefs, p.QuestionSetID, p.Aggregation)
	if err != nil {
		return nil, err
	}
	c := Compare(ms, p.FirstID, p.LastID, agg)
	return &c, nil
}

func (s *ReviewService) Radar(beneficiaryID string, prefs Preferences, questionSetID string, agg Aggregation) (*Radar, error) {
	ms, agg, err := s.scoped(beneficiaryID, prefs, questionSetID, agg)
	if err != nil {
		return nil, err
	}
	r := BuildRadar(ms, agg)
	return &r, nil
}

func (s *ReviewService) Records(beneficiaryID string) ([]Record, error) {
	ms, err := s.meetings(beneficiaryID)
	if err != nil {
		return nil, err
	}
	return BuildRecords(ms), nil
}
