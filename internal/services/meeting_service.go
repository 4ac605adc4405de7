package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MeetingStore loads meetings and accepts the completion mutation.
type MeetingStore interface {
	GetMeeting(id string) (*Meeting, error)
	SaveAnswer(meetingID string, a Answer) error
	CompleteMeeting(id string, at time.Time) error
	AddAudit(entry AuditEntry)
}

type MeetingService struct {
	store    MeetingStore
	sessions *SessionStore
	tracker  Tracker
	now      func() time.Time
}

func NewMeetingService(store MeetingStore, sessions *SessionStore, tracker Tracker) *MeetingService {
	if sessions == nil {
		sessions = NewSessionStore()
	}
	if tracker == nil {
		tracker = NopTracker{}
	}
	return &MeetingService{
		store:    store,
		sessions: sessions,
		tracker:  tracker,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SessionView is what a questionnaire screen renders for the current step.
type SessionView struct {
	SessionID     string          `json:"session_id"`
	MeetingID     string          `json:"meeting_id"`
	State         NavigationState `json:"state"`
	Total         int             `json:"total"`
	Question      *Question       `json:"question,omitempty"`
	Answer        *float64        `json:"answer,omitempty"`
	CanGoPrevious bool            `json:"can_go_previous"`
}

type CompletionResult struct {
	MeetingID string `json:"meeting_id"`
	Redirect  string `json:"redirect"`
}

func (s *MeetingService) GetMeeting(id string) (*Meeting, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidError("meeting id required")
	}
	m, err := s.store.GetMeeting(id)
	if err != nil {
		return nil, NewBadGatewayError("failed to load meeting", err)
	}
	if m == nil {
		return nil, &ServiceError{Code: ErrorNotFound, Message: "meeting not found", Err: ErrMeetingNotFound}
	}
	return m, nil
}

// openMeeting loads a meeting that may still be answered. Completed meetings
// keep aggregates computed from their answers, so they are read only.
func (s *MeetingService) openMeeting(id string) (*Meeting, error) {
	m, err := s.GetMeeting(id)
	if err != nil {
		return nil, err
	}
	if !m.Incomplete {
		return nil, &ServiceError{Code: ErrorConflict, Message: "meeting already completed", Err: ErrMeetingCompleted}
	}
	return m, nil
}

// StartSession opens a fresh navigator over the meeting's active questions.
func (s *MeetingService) StartSession(meetingID string) (*SessionView, error) {
	m, err := s.openMeeting(meetingID)
	if err != nil {
		return nil, err
	}
	nav := NewNavigator(ActiveQuestions(m.OutcomeSet.Questions))
	nav.OnReview(func() { s.tracker.Event("meeting", "review", meetingID) })
	sess := s.sessions.Create(m.ID, nav)
	return s.view(sess, m), nil
}

func (s *MeetingService) session(id string) (*Session, error) {
	sess := s.sessions.Get(id)
	if sess == nil {
		return nil, &ServiceError{Code: ErrorNotFound, Message: "session not found", Err: ErrSessionNotFound}
	}
	return sess, nil
}

// Step applies fn to the session's navigator and returns the new view.
func (s *MeetingService) Step(sessionID string, fn func(*Navigator)) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	m, err := s.GetMeeting(sess.MeetingID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if fn != nil {
		fn(sess.nav)
	}
	return s.viewLocked(sess, m), nil
}

func (s *MeetingService) Session(sessionID string) (*SessionView, error) {
	return s.Step(sessionID, nil)
}

func (s *MeetingService) Next(sessionID string) (*SessionView, error) {
	return s.Step(sessionID, (*Navigator).Next)
}

func (s *MeetingService) Previous(sessionID string) (*SessionView, error) {
	return s.Step(sessionID, (*Navigator).Previous)
}

func (s *MeetingService) GoTo(sessionID string, index int) (*SessionView, error) {
	return s.Step(sessionID, func(n *Navigator) { n.GoTo(index) })
}

func (s *MeetingService) GoToQuestionID(sessionID, questionID string) (*SessionView, error) {
	return s.Step(sessionID, func(n *Navigator) { n.GoToQuestionID(questionID) })
}

// Answer records value for the current question and moves on, the way the
// questionnaire's next button does.
func (s *MeetingService) Answer(sessionID string, value float64) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	q, ok := sess.nav.CurrentQuestion()
	sess.mu.Unlock()
	if !ok {
		return nil, NewConflictError("no question to answer")
	}
	if _, err := s.openMeeting(sess.MeetingID); err != nil {
		return nil, err
	}
	if err := s.store.SaveAnswer(sess.MeetingID, Answer{QuestionID: q.ID, Value: value}); err != nil {
		return nil, NewBadGatewayError("failed to save answer", err)
	}
	return s.Step(sessionID, func(n *Navigator) {
		if cur, ok := n.CurrentQuestion(); ok && cur.ID == q.ID {
			n.Next()
		}
	})
}

// Complete marks the meeting complete once the walk reached review and
// returns where the client should go next.
func (s *MeetingService) Complete(sessionID, actor string) (*CompletionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	reviewing := sess.nav.State().Review
	sess.mu.Unlock()
	if !reviewing {
		return nil, NewConflictError("questionnaire has not been reviewed")
	}
	m, err := s.openMeeting(sess.MeetingID)
	if err != nil {
		return nil, err
	}
	if err := s.store.CompleteMeeting(m.ID, s.now()); err != nil {
		if errors.Is(err, ErrMeetingNotFound) {
			return nil, &ServiceError{Code: ErrorNotFound, Message: "meeting not found", Err: err}
		}
		return nil, NewBadGatewayError("failed to complete meeting", err)
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor, Action: "complete_meeting", Target: m.ID})
	s.tracker.Event("meeting", "completed", m.OutcomeSetID)
	s.sessions.Delete(sess.ID)
	return &CompletionResult{MeetingID: m.ID, Redirect: CompletionRedirect(m)}, nil
}

// CompletionRedirect is the beneficiary page filtered to the questionnaire
// just completed.
func CompletionRedirect(m *Meeting) string {
	return fmt.Sprintf("/beneficiary/%s?q=%s", url.PathEscape(m.Beneficiary), url.QueryEscape(m.OutcomeSetID))
}

func (s *MeetingService) view(sess *Session, m *Meeting) *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.viewLocked(sess, m)
}

func (s *MeetingService) viewLocked(sess *Session, m *Meeting) *SessionView {
	v := &SessionView{
		SessionID:     sess.ID,
		MeetingID:     sess.MeetingID,
		State:         sess.nav.State(),
		Total:         sess.nav.Len(),
		CanGoPrevious: sess.nav.CanGoPrevious(),
	}
	if q, ok := sess.nav.CurrentQuestion(); ok {
		v.Question = &q
		for _, a := range m.Answers {
			if a.QuestionID == q.ID {
				val := a.Value
				v.Answer = &val
				break
			}
		}
	}
	return v
}
