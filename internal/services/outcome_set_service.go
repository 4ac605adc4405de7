package services

import "strings"

// OutcomeSetStore reads questionnaire templates.
type OutcomeSetStore interface {
	GetOutcomeSet(id string) (*OutcomeSet, error)
	ListOutcomeSets() ([]*OutcomeSet, error)
}

type OutcomeSetService struct {
	store OutcomeSetStore
}

func NewOutcomeSetService(store OutcomeSetStore) *OutcomeSetService {
	return &OutcomeSetService{store: store}
}

// OutcomeSetSummary is one line of the questionnaire catalogue. Counts cover
// active questions only.
type OutcomeSetSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
	CategoryCount int    `json:"category_count"`
}

// OutcomeSetView is a questionnaire as a new meeting would ask it.
type OutcomeSetView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Questions  []Question `json:"questions"`
	Categories []Category `json:"categories"`
}

func (s *OutcomeSetService) List() ([]OutcomeSetSummary, error) {
	sets, err := s.store.ListOutcomeSets()
	if err != nil {
		return nil, NewBadGatewayError("failed to load questionnaires", err)
	}
	out := make([]OutcomeSetSummary, 0, len(sets))
	for _, set := range sets {
		out = append(out, OutcomeSetSummary{
			ID:            set.ID,
			Name:          set.Name,
			QuestionCount: len(ActiveQuestions(set.Questions)),
			CategoryCount: len(set.Categories),
		})
	}
	return out, nil
}

func (s *OutcomeSetService) Get(id string) (*OutcomeSetView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidError("questionnaire id required")
	}
	set, err := s.store.GetOutcomeSet(id)
	if err != nil {
		return nil, NewBadGatewayError("failed to load questionnaire", err)
	}
	if set == nil {
		return nil, NewNotFoundError("questionnaire not found")
	}
	cats := set.Categories
	if cats == nil {
		cats = []Category{}
	}
	return &OutcomeSetView{ID: set.ID, Name: set.Name, Questions: ActiveQuestions(set.Questions), Categories: cats}, nil
}
