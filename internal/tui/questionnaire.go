package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/impactasaurus/impact/internal/services"
)

// Port is the slice of the meeting service the questionnaire needs.
type Port interface {
	GetMeeting(id string) (*services.Meeting, error)
	Next(sessionID string) (*services.SessionView, error)
	Previous(sessionID string) (*services.SessionView, error)
	GoTo(sessionID string, index int) (*services.SessionView, error)
	Answer(sessionID string, value float64) (*services.SessionView, error)
	Complete(sessionID, actor string) (*services.CompletionResult, error)
}

// CompletedMsg is sent once the meeting has been saved.
type CompletedMsg struct {
	Result *services.CompletionResult
	Err    error
}

// Questionnaire walks a beneficiary through one meeting's questions.
type Questionnaire struct {
	port    Port
	actor   string
	meeting *services.Meeting
	view    *services.SessionView
	input   string
	err     error
	done    *services.CompletionResult
	width   int
}

func NewQuestionnaire(port Port, meeting *services.Meeting, start *services.SessionView, actor string) Questionnaire {
	return Questionnaire{port: port, actor: actor, meeting: meeting, view: start}
}

func (m Questionnaire) Init() tea.Cmd { return nil }

// Done reports the completion result once the meeting was saved.
func (m Questionnaire) Done() *services.CompletionResult { return m.done }

func (m Questionnaire) step(v *services.SessionView, err error) Questionnaire {
	m.err = err
	if err != nil {
		return m
	}
	m.view = v
	m.input = ""
	if v.State.Review {
		if fresh, err := m.port.GetMeeting(v.MeetingID); err == nil && fresh != nil {
			m.meeting = fresh
		}
	}
	return m
}

func (m Questionnaire) completeCmd() tea.Cmd {
	port, sid, actor := m.port, m.view.SessionID, m.actor
	return func() tea.Msg {
		res, err := port.Complete(sid, actor)
		return CompletedMsg{Result: res, Err: err}
	}
}

func (m Questionnaire) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case CompletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.done = msg.Result
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Questionnaire) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sid := m.view.SessionID
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyLeft:
		return m.step(m.port.Previous(sid)), nil
	case tea.KeyRight:
		return m.step(m.port.Next(sid)), nil
	case tea.KeyBackspace:
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
		return m, nil
	case tea.KeyEnter:
		if m.view.State.Review {
			return m, m.completeCmd()
		}
		if m.input == "" {
			return m.step(m.port.Next(sid)), nil
		}
		v, err := strconv.ParseFloat(m.input, 64)
		if err != nil {
			m.err = fmt.Errorf("%q is not a number", m.input)
			return m, nil
		}
		return m.step(m.port.Answer(sid, v)), nil
	case tea.KeyRunes:
		s := string(msg.Runes)
		if s == "q" {
			return m, tea.Quit
		}
		if m.view.State.Review && len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			return m.step(m.port.GoTo(sid, int(s[0]-'1'))), nil
		}
		for _, r := range s {
			if (r >= '0' && r <= '9') || (r == '.' && !strings.Contains(m.input, ".")) {
				m.input += string(r)
			}
		}
	}
	return m, nil
}

func (m Questionnaire) answerFor(questionID string) string {
	for _, a := range m.meeting.Answers {
		if a.QuestionID == questionID {
			return strconv.FormatFloat(a.Value, 'f', -1, 64)
		}
	}
	return "-"
}

func (m Questionnaire) View() string {
	var b strings.Builder
	b.WriteString(Title.Render(m.meeting.OutcomeSet.Name))
	b.WriteString("\n\n")
	switch {
	case m.done != nil:
		b.WriteString(Good.Render("Saved. ") + Muted.Render(m.done.Redirect))
	case m.view.State.Review:
		b.WriteString(m.renderReview())
	default:
		b.WriteString(m.renderQuestion())
	}
	if m.err != nil {
		b.WriteString("\n" + Hot.Render("Error: "+m.err.Error()))
	}
	return Pane.Render(b.String())
}

func (m Questionnaire) renderQuestion() string {
	q := m.view.Question
	if q == nil {
		return Muted.Render("No questions")
	}
	current := "-"
	if m.view.Answer != nil {
		current = strconv.FormatFloat(*m.view.Answer, 'f', -1, 64)
	}
	lines := []string{
		Muted.Render(fmt.Sprintf("Question %d of %d", m.view.State.Index+1, m.view.Total)),
		q.Text,
		"",
		"Answer: " + current,
		"> " + m.input,
		"",
		Muted.Render("enter save · ← back · → skip · q quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderReview lists every active question with its saved answer.
func (m Questionnaire) renderReview() string {
	if m.view.Total == 0 {
		return Muted.Render("No questions") + "\n\n" + Muted.Render("enter save · q quit")
	}
	lines := []string{Title.Render("Review")}
	for i, q := range services.ActiveQuestions(m.meeting.OutcomeSet.Questions) {
		lines = append(lines, fmt.Sprintf("%d. %s  %s", i+1, q.Text, Hot.Render(m.answerFor(q.ID))))
	}
	lines = append(lines, "", Muted.Render("enter save · 1-9 edit · ← back · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
