package quiz

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/scholar/internal/history"
)

var (
	ErrNotLoading       = errors.New("quiz: session already loaded")
	ErrNoQuestions      = errors.New("quiz: no questions")
	ErrNotPresenting    = errors.New("quiz: selection is closed")
	ErrNoAnswer         = errors.New("quiz: current question has no answer")
	ErrOptionOutOfRange = errors.New("quiz: option out of range")
)

// FinishFunc receives the result of a session when it enters Finished.
type FinishFunc func(history.Result)

// Option configures a Session.
type Option func(*Session)

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithClock sets the time source used to stamp the result.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOnFinish registers a hook that fires exactly once, when the session
// first enters Finished.
func WithOnFinish(fn FinishFunc) Option {
	return func(s *Session) { s.onFinish = fn }
}

// Session holds one run through a question set. It is safe for concurrent
// use.
type Session struct {
	mu sync.Mutex

	id        string
	topic     string
	state     State
	questions []Question
	answers   Answers
	err       error

	finished  bool
	result    history.Result
	breakdown Breakdown

	onFinish FinishFunc
	now      func() time.Time
}

// NewSession creates a session in the Loading state.
func NewSession(topic string, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		topic:   topic,
		state:   Loading(),
		answers: make(Answers),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load installs the question set and presents the first question. Every
// question is validated; a malformed set moves the session to Failed.
func (s *Session) Load(questions []Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseLoading {
		return ErrNotLoading
	}
	if len(questions) == 0 {
		s.fail(ErrNoQuestions)
		return ErrNoQuestions
	}

	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			s.fail(err)
			return err
		}
		if seen[q.ID] {
			err := fmt.Errorf("duplicate question id %q", q.ID)
			s.fail(err)
			return err
		}
		seen[q.ID] = true
	}

	s.questions = slices.Clone(questions)
	s.state = s.state.Loaded(len(s.questions))
	return nil
}

// Fail records a load failure. Only a loading session can fail.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail(err)
}

func (s *Session) fail(err error) {
	if s.state.Phase != PhaseLoading {
		return
	}
	s.err = err
	s.state = Failed()
}

// Select records option for the current question, replacing any earlier
// choice. Selection is closed once the answer is revealed.
func (s *Session) Select(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanSelect() {
		return ErrNotPresenting
	}
	q := s.questions[s.state.Index]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOptionOutOfRange, option, len(q.Options))
	}
	s.answers[q.ID] = option
	return nil
}

// Advance applies the advance control. Advancing an unanswered question is
// rejected with ErrNoAnswer and leaves the state unchanged.
func (s *Session) Advance() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered := false
	if s.state.Phase == PhasePresenting {
		_, answered = s.answers[s.questions[s.state.Index].ID]
		if !answered {
			return s.state, ErrNoAnswer
		}
	}

	s.state = s.state.Advance(len(s.questions), answered)
	if s.state.Phase == PhaseFinished {
		s.finish()
	}
	return s.state, nil
}

// Finish returns the session result. It reports false until the session
// has finished. Calling it repeatedly never re-scores or re-fires the hook.
func (s *Session) Finish() (history.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == PhaseFinished {
		s.finish()
	}
	return s.result, s.finished
}

func (s *Session) finish() {
	if s.finished {
		return
	}
	s.finished = true
	s.breakdown = Score(s.questions, s.answers)
	s.result = resultFrom(s.id, s.topic, s.breakdown, s.now())
	if s.onFinish != nil {
		s.onFinish(s.result)
	}
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Topic() string { return s.topic }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the load failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Len returns the number of questions.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Questions returns a copy of the question set.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.questions)
}

// Current returns the question at the current index, if one is shown.
func (s *Session) Current() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state.Phase {
	case PhasePresenting, PhaseRevealing:
		return s.questions[s.state.Index], true
	}
	return Question{}, false
}

// Selected returns the recorded choice for the current question.
func (s *Session) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state.Phase {
	case PhasePresenting, PhaseRevealing:
		opt, ok := s.answers[s.questions[s.state.Index].ID]
		return opt, ok
	}
	return 0, false
}

// Answers returns a copy of the answer map.
func (s *Session) Answers() Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.answers)
}

// Breakdown returns the scored outcome. Zero until finished.
func (s *Session) Breakdown() Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breakdown
}

// Snapshot is a consistent copy of a session taken under one lock.
type Snapshot struct {
	ID    string
	Topic string
	State State
	Len   int

	// Question is the shown question, nil outside Presenting and Revealing.
	Question    *Question
	Selected    int
	HasSelected bool

	Finished  bool
	Result    history.Result
	Breakdown Breakdown

	Err error
}

// Snapshot returns the session's current view. Unlike calling State,
// Current and Selected in turn, the fields cannot straddle a concurrent
// Advance.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == PhaseFinished {
		s.finish()
	}
	snap := Snapshot{
		ID:        s.id,
		Topic:     s.topic,
		State:     s.state,
		Len:       len(s.questions),
		Finished:  s.finished,
		Result:    s.result,
		Breakdown: s.breakdown,
		Err:       s.err,
	}
	switch s.state.Phase {
	case PhasePresenting, PhaseRevealing:
		q := s.questions[s.state.Index]
		snap.Question = &q
		snap.Selected, snap.HasSelected = s.answers[q.ID]
	}
	return snap
}
