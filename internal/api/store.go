package api

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/impactasaurus/impact/internal/models"
	"github.com/impactasaurus/impact/internal/services"
)

type memoryStore struct {
	mu          sync.RWMutex
	outcomeSets map[string]*models.OutcomeSet
	meetings    map[string]*models.Meeting
	byBen       map[string][]string
	audit       []AuditEntry
}

// NewMemoryStore returns an empty Store kept in process memory.
func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		outcomeSets: map[string]*models.OutcomeSet{},
		meetings:    map[string]*models.Meeting{},
		byBen:       map[string][]string{},
		audit:       []AuditEntry{},
	}
}

func cloneOutcomeSet(set *models.OutcomeSet) *models.OutcomeSet {
	cp := *set
	cp.Questions = append([]models.Question(nil), set.Questions...)
	cp.Categories = append([]models.Category(nil), set.Categories...)
	return &cp
}

func cloneMeeting(m *models.Meeting) *models.Meeting {
	cp := *m
	cp.Answers = append([]models.Answer(nil), m.Answers...)
	cp.Tags = append([]string(nil), m.Tags...)
	cp.Aggregates.Category = append([]models.CategoryAggregate(nil), m.Aggregates.Category...)
	return &cp
}

func (s *memoryStore) AddOutcomeSet(set *models.OutcomeSet) error {
	if set == nil || set.ID == "" {
		return services.NewInvalidError("outcome set id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomeSets[set.ID] = cloneOutcomeSet(set)
	return nil
}

func (s *memoryStore) GetOutcomeSet(id string) (*models.OutcomeSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.outcomeSets[id]
	if set == nil {
		return nil, nil
	}
	return cloneOutcomeSet(set), nil
}

func (s *memoryStore) ListOutcomeSets() ([]*models.OutcomeSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.OutcomeSet, 0, len(s.outcomeSets))
	for _, set := range s.outcomeSets {
		out = append(out, cloneOutcomeSet(set))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) AddMeeting(m *models.Meeting) error {
	if m == nil || m.ID == "" {
		return services.NewInvalidError("meeting id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.outcomeSets[m.OutcomeSetID]; !ok {
		return fmt.Errorf("outcome set %q not found", m.OutcomeSetID)
	}
	prev, exists := s.meetings[m.ID]
	if exists && prev.Beneficiary != m.Beneficiary {
		s.byBen[prev.Beneficiary] = removeID(s.byBen[prev.Beneficiary], m.ID)
		exists = false
	}
	if !exists {
		s.byBen[m.Beneficiary] = append(s.byBen[m.Beneficiary], m.ID)
	}
	s.meetings[m.ID] = cloneMeeting(m)
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// hydrate attaches the outcome set snapshot; callers hold the read lock.
func (s *memoryStore) hydrate(m *models.Meeting) *models.Meeting {
	out := cloneMeeting(m)
	if set := s.outcomeSets[m.OutcomeSetID]; set != nil {
		out.OutcomeSet = *cloneOutcomeSet(set)
	}
	return out
}

func (s *memoryStore) GetMeeting(id string) (*models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.meetings[id]
	if m == nil {
		return nil, nil
	}
	return s.hydrate(m), nil
}

func (s *memoryStore) ListMeetingsByBeneficiary(beneficiaryID string) ([]*models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byBen[beneficiaryID]
	out := make([]*models.Meeting, 0, len(ids))
	for _, id := range ids {
		if m := s.meetings[id]; m != nil {
			out = append(out, s.hydrate(m))
		}
	}
	return out, nil
}

func (s *memoryStore) SaveAnswer(meetingID string, a models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.meetings[meetingID]
	if m == nil {
		return services.ErrMeetingNotFound
	}
	for i := range m.Answers {
		if m.Answers[i].QuestionID == a.QuestionID {
			m.Answers[i] = a
			return nil
		}
	}
	m.Answers = append(m.Answers, a)
	return nil
}

func (s *memoryStore) CompleteMeeting(id string, at time.Time, aggregates []models.CategoryAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.meetings[id]
	if m == nil {
		return services.ErrMeetingNotFound
	}
	m.Incomplete = false
	if m.Conducted.IsZero() {
		m.Conducted = at
	}
	m.Aggregates.Category = append([]models.CategoryAggregate(nil), aggregates...)
	return nil
}

// AuditEntry is one line of the audit log.
type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *memoryStore) ListAudit() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}
