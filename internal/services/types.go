package services

import (
	"time"

	"github.com/impactasaurus/impact/internal/models"
)

type (
	Meeting           = models.Meeting
	OutcomeSet        = models.OutcomeSet
	Question          = models.Question
	Category          = models.Category
	Answer            = models.Answer
	CategoryAggregate = models.CategoryAggregate
	Aggregates        = models.Aggregates
)

// Aggregation selects whether progress is shown per question or per category.
type Aggregation string

const (
	AggregationQuestion Aggregation = "question"
	AggregationCategory Aggregation = "category"
)

func ParseAggregation(s string) (Aggregation, bool) {
	switch Aggregation(s) {
	case AggregationQuestion, AggregationCategory:
		return Aggregation(s), true
	}
	return "", false
}

type Visualisation string

const (
	VisualisationTable Visualisation = "table"
	VisualisationRadar Visualisation = "radar"
)

func ParseVisualisation(s string) (Visualisation, bool) {
	switch Visualisation(s) {
	case VisualisationTable, VisualisationRadar:
		return Visualisation(s), true
	}
	return "", false
}

// ComparisonRow is one line of a two-meeting comparison. A nil side means the
// meeting has no value for that question or category.
type ComparisonRow struct {
	Name  string   `json:"name"`
	First *float64 `json:"first,omitempty"`
	Last  *float64 `json:"last,omitempty"`
}

// MeetingRef identifies a selected meeting for table headers.
type MeetingRef struct {
	ID        string    `json:"id"`
	Conducted time.Time `json:"conducted"`
	Label     string    `json:"label"`
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
