package models

import "time"

// OutcomeSet is a questionnaire template snapshot as attached to a meeting.
type OutcomeSet struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Questions  []Question `json:"questions" yaml:"questions"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// Question is one questionnaire entry. Archived questions stay in the
// template so that historic answers still resolve.
type Question struct {
	ID         string `json:"id" yaml:"id"`
	Text       string `json:"question" yaml:"question"`
	Archived   bool   `json:"archived,omitempty" yaml:"archived,omitempty"`
	CategoryID string `json:"categoryID,omitempty" yaml:"category,omitempty"`
}

type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type Answer struct {
	QuestionID string  `json:"questionID" yaml:"question"`
	Value      float64 `json:"answer" yaml:"answer"`
}

type CategoryAggregate struct {
	CategoryID string  `json:"categoryID" yaml:"category"`
	Value      float64 `json:"value" yaml:"value"`
}

type Aggregates struct {
	Category []CategoryAggregate `json:"category" yaml:"category"`
}

// Meeting is one assessment instance for a beneficiary.
type Meeting struct {
	ID           string     `json:"id" yaml:"id"`
	Beneficiary  string     `json:"beneficiary" yaml:"beneficiary"`
	User         string     `json:"user,omitempty" yaml:"user,omitempty"`
	Conducted    time.Time  `json:"conducted" yaml:"conducted"`
	OutcomeSetID string     `json:"outcomeSetID" yaml:"outcome_set"`
	OutcomeSet   OutcomeSet `json:"outcomeSet" yaml:"-"`
	Answers      []Answer   `json:"answers" yaml:"answers"`
	Aggregates   Aggregates `json:"aggregates" yaml:"aggregates"`
	Incomplete   bool       `json:"incomplete" yaml:"incomplete,omitempty"`
	Tags         []string   `json:"tags" yaml:"tags,omitempty"`
}
