package api

import (
	"time"

	"github.com/impactasaurus/impact/internal/services"
)

// MeetingSource exposes a Store to the services layer and computes category
// aggregates on completion.
type MeetingSource struct {
	store Store
}

func NewMeetingSource(store Store) *MeetingSource {
	return &MeetingSource{store: store}
}

func (a *MeetingSource) ListMeetingsByBeneficiary(beneficiaryID string) ([]*services.Meeting, error) {
	return a.store.ListMeetingsByBeneficiary(beneficiaryID)
}

func (a *MeetingSource) GetMeeting(id string) (*services.Meeting, error) {
	return a.store.GetMeeting(id)
}

func (a *MeetingSource) SaveAnswer(meetingID string, ans services.Answer) error {
	return a.store.SaveAnswer(meetingID, ans)
}

// CompleteMeeting recomputes the category aggregates from the saved answers
// before flipping the meeting to complete.
func (a *MeetingSource) CompleteMeeting(id string, at time.Time) error {
	m, err := a.store.GetMeeting(id)
	if err != nil {
		return err
	}
	if m == nil {
		return services.ErrMeetingNotFound
	}
	return a.store.CompleteMeeting(id, at, services.CategoryAggregates(m))
}

func (a *MeetingSource) GetOutcomeSet(id string) (*services.OutcomeSet, error) {
	return a.store.GetOutcomeSet(id)
}

func (a *MeetingSource) ListOutcomeSets() ([]*services.OutcomeSet, error) {
	return a.store.ListOutcomeSets()
}

func (a *MeetingSource) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note})
}

var (
	_ services.ReviewStore     = (*MeetingSource)(nil)
	_ services.TagStore        = (*MeetingSource)(nil)
	_ services.MeetingStore    = (*MeetingSource)(nil)
	_ services.OutcomeSetStore = (*MeetingSource)(nil)
)
