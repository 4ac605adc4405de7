package api

import (
	"time"

	"github.com/impactasaurus/impact/internal/models"
)

// Store is the persistence surface shared by the in-memory and SQLite
// backends. Reads return copies with the outcome set snapshot attached.
type Store interface {
	AddOutcomeSet(set *models.OutcomeSet) error
	GetOutcomeSet(id string) (*models.OutcomeSet, error)
	ListOutcomeSets() ([]*models.OutcomeSet, error)

	AddMeeting(m *models.Meeting) error
	GetMeeting(id string) (*models.Meeting, error)
	ListMeetingsByBeneficiary(beneficiaryID string) ([]*models.Meeting, error)
	SaveAnswer(meetingID string, a models.Answer) error
	CompleteMeeting(id string, at time.Time, aggregates []models.CategoryAggregate) error

	AddAudit(e AuditEntry)
	ListAudit() []AuditEntry
}

var _ Store = (*memoryStore)(nil)
