package services

// NavigationState is the cursor of a questionnaire walk: either a question
// index or the terminal review screen.
type NavigationState struct {
	Review bool `json:"review"`
	Index  int  `json:"index"`
}

func atQuestion(i int) NavigationState { return NavigationState{Index: i} }

var reviewState = NavigationState{Review: true, Index: -1}

// ActiveQuestions drops archived questions, keeping template order.
func ActiveQuestions(questions []Question) []Question {
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if !q.Archived {
			out = append(out, q)
		}
	}
	return out
}

// Navigator walks an ordered list of active questions. It is not safe for
// concurrent use; each questionnaire view owns its own Navigator.
type Navigator struct {
	questions []Question
	state     NavigationState
	onChange  []func(NavigationState)
	onReview  []func()
}

// NewNavigator starts at the first question, or at review when there are no
// questions.
func NewNavigator(questions []Question) *Navigator {
	n := &Navigator{questions: append([]Question(nil), questions...)}
	if len(n.questions) == 0 {
		n.state = reviewState
	} else {
		n.state = atQuestion(0)
	}
	return n
}

// OnChange registers fn to run after every transition.
func (n *Navigator) OnChange(fn func(NavigationState)) {
	if fn != nil {
		n.onChange = append(n.onChange, fn)
	}
}

// OnReview registers fn to run whenever the navigator enters review.
func (n *Navigator) OnReview(fn func()) {
	if fn != nil {
		n.onReview = append(n.onReview, fn)
	}
}

func (n *Navigator) State() NavigationState { return n.state }

func (n *Navigator) Len() int { return len(n.questions) }

func (n *Navigator) Questions() []Question { return append([]Question(nil), n.questions...) }

// CurrentQuestion returns the question under the cursor; ok is false in review.
func (n *Navigator) CurrentQuestion() (Question, bool) {
	if n.state.Review {
		return Question{}, false
	}
	return n.questions[n.state.Index], true
}

// GoTo moves to index clamped into [0, N-1]. With no questions there is
// nothing to clamp into and the navigator stays in review.
func (n *Navigator) GoTo(index int) {
	if len(n.questions) == 0 {
		n.set(reviewState)
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(n.questions) {
		index = len(n.questions) - 1
	}
	n.set(atQuestion(index))
}

// Next advances one question, or enters review after the last one.
func (n *Navigator) Next() {
	if !n.state.Review && n.state.Index+1 < len(n.questions) {
		n.set(atQuestion(n.state.Index + 1))
		return
	}
	n.set(reviewState)
}

// Previous steps back one question. From review it re-enters the last
// question; at the first question it does nothing.
func (n *Navigator) Previous() {
	if n.state.Review {
		if len(n.questions) > 0 {
			n.set(atQuestion(len(n.questions) - 1))
		}
		return
	}
	if n.state.Index == 0 {
		return
	}
	n.set(atQuestion(n.state.Index - 1))
}

// GoToQuestionID jumps to the question with id; unknown ids land on the
// first question.
func (n *Navigator) GoToQuestionID(id string) {
	idx := -1
	for i, q := range n.questions {
		if q.ID == id {
			idx = i
			break
		}
	}
	n.GoTo(idx)
}

func (n *Navigator) CanGoPrevious() bool {
	return !n.state.Review && n.state.Index != 0
}

func (n *Navigator) set(s NavigationState) {
	entering := s.Review && !n.state.Review
	n.state = s
	for _, fn := range n.onChange {
		fn(s)
	}
	if entering {
		for _, fn := range n.onReview {
			fn()
		}
	}
}
