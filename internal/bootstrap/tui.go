package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/impactasaurus/impact/internal/api"
	"github.com/impactasaurus/impact/internal/services"
	"github.com/impactasaurus/impact/internal/tui"
)

// Meetings returns a meeting service sharing the app's store, sessions and
// tracker, for use outside HTTP.
func (a *App) Meetings() *services.MeetingService {
	return services.NewMeetingService(api.NewMeetingSource(a.Store), a.Router.Sessions(), a.Tracker)
}

func (a *App) Reviews() *services.ReviewService {
	return services.NewReviewService(api.NewMeetingSource(a.Store))
}

// RunQuestionnaire runs the terminal questionnaire for meetingID. The result
// is nil when the user quits before saving.
func (a *App) RunQuestionnaire(meetingID, actor string) (*services.CompletionResult, error) {
	svc := a.Meetings()
	meeting, err := svc.GetMeeting(meetingID)
	if err != nil {
		return nil, err
	}
	start, err := svc.StartSession(meetingID)
	if err != nil {
		return nil, err
	}
	defer a.Router.Sessions().Delete(start.SessionID)

	final, err := tea.NewProgram(tui.NewQuestionnaire(svc, meeting, start, actor), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("run questionnaire: %w", err)
	}
	q, ok := final.(tui.Questionnaire)
	if !ok {
		return nil, nil
	}
	return q.Done(), nil
}
