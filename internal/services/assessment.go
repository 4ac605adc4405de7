package services

// AssessmentType is how a questionnaire gets completed.
type AssessmentType string

const (
	AssessmentLive     AssessmentType = "live"
	AssessmentRemote   AssessmentType = "remote"
	AssessmentHistoric AssessmentType = "historic"
)

// DefaultRemoteMeetingLimit is how many days a remote link stays valid.
const DefaultRemoteMeetingLimit = 30

type AssessmentTypeInfo struct {
	Type        AssessmentType `json:"type"`
	Title       string         `json:"title"`
	Header      string         `json:"header"`
	Description string         `json:"description"`
}

func AssessmentTypes() []AssessmentTypeInfo {
	return []AssessmentTypeInfo{
		{Type: AssessmentLive, Title: "Live", Header: "Complete together", Description: "Complete the questionnaire together"},
		{Type: AssessmentRemote, Title: "Remote", Header: "Send a link", Description: "Generates a link that you can send to the beneficiary to complete on their own"},
		{Type: AssessmentHistoric, Title: "Data Entry", Header: "Enter historic data", Description: "Enter data gathered historically into the system"},
	}
}

func ParseAssessmentType(s string) (AssessmentType, bool) {
	switch AssessmentType(s) {
	case AssessmentLive, AssessmentRemote, AssessmentHistoric:
		return AssessmentType(s), true
	}
	return "", false
}

type AssessmentService struct {
	tracker Tracker
}

func NewAssessmentService(tracker Tracker) *AssessmentService {
	if tracker == nil {
		tracker = NopTracker{}
	}
	return &AssessmentService{tracker: tracker}
}

// SelectType validates the chosen type and records the choice.
func (s *AssessmentService) SelectType(raw string) (AssessmentType, error) {
	t, ok := ParseAssessmentType(raw)
	if !ok {
		return "", NewInvalidError("unknown assessment type " + raw)
	}
	s.tracker.Event("assessment", "typeSelected", string(t))
	return t, nil
}
