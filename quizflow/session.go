package quizflow

import (
	"errors"
	"fmt"
	"time"
)

// State is the current phase of an attempt session
type State string

const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateTaking     State = "taking"
	StateSubmitting State = "submitting"
	StateResults    State = "results"
	StateError      State = "error"
)

// EventType tags the notifications a session emits on transitions
type EventType string

const (
	EventQuizLoaded         EventType = "quiz_loaded"
	EventLoadFailed         EventType = "load_failed"
	EventAttemptStarted     EventType = "attempt_started"
	EventSubmissionAccepted EventType = "submission_accepted"
	EventSubmissionFailed   EventType = "submission_failed"
	EventStatsRefreshed     EventType = "stats_refreshed"
)

// Event is pushed to the host's notifier on every failure/success
// transition so the UI layer can toast without coupling to the machine.
type Event struct {
	Type    EventType
	Message string
}

// Notifier receives session events
type Notifier func(Event)

var (
	ErrNoQuestions = errors.New("quiz has no questions")
	errBadState    = errors.New("action not allowed in current state")
)

// Session is the attempt state machine for a single quiz. It is driven by
// a single UI event loop and is not safe for concurrent use. All mutation
// goes through the named transition methods; accessors never mutate.
type Session struct {
	backend Backend
	clock   Clock
	notify  Notifier

	quizID    string
	state     State
	quiz      *Quiz
	answers   map[uint]int
	current   int
	startedAt time.Time
	result    *SubmissionResult
	stats     *Stats
	lastErr   string
}

// Option customizes a Session
type Option func(*Session)

// WithClock injects a time source, used by tests to pin elapsed time
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithNotifier subscribes the host UI to transition events
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notify = n }
}

// NewSession creates a session in the loading state. Call Load to fetch
// the quiz, then RefreshStats once for the initial history display.
func NewSession(quizID string, backend Backend, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		clock:   systemClock{},
		quizID:  quizID,
		state:   StateLoading,
		answers: map[uint]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the quiz definition. Allowed in the loading state and, as
// the full-reload affordance, from the terminal error state. A quiz with
// no questions is treated as invalid and lands in the error state.
func (s *Session) Load() error {
	if s.state != StateLoading && s.state != StateError {
		return fmt.Errorf("load: %w", errBadState)
	}
	s.state = StateLoading
	quiz, err := s.backend.LoadQuiz(s.quizID)
	if err != nil {
		s.fail(EventLoadFailed, fmt.Sprintf("Failed to load quiz: %v", err))
		return err
	}
	if len(quiz.Questions) == 0 {
		s.fail(EventLoadFailed, "This quiz has no questions.")
		return ErrNoQuestions
	}
	s.quiz = quiz
	s.state = StateReady
	s.emit(EventQuizLoaded, quiz.Title)
	return nil
}

// Start begins an attempt: empties the answer map, records the start
// timestamp and points at the first question.
func (s *Session) Start() error {
	if s.state != StateReady {
		return fmt.Errorf("start: %w", errBadState)
	}
	s.beginAttempt()
	return nil
}

// Retake restarts after results with exactly the same reset as Start.
// There is no client-side attempt cap; any server policy surfaces through
// the submission result instead.
func (s *Session) Retake() error {
	if s.state != StateResults {
		return fmt.Errorf("retake: %w", errBadState)
	}
	s.beginAttempt()
	return nil
}

func (s *Session) beginAttempt() {
	s.answers = map[uint]int{}
	s.current = 0
	s.startedAt = s.clock.Now()
	s.result = nil
	s.state = StateTaking
	s.emit(EventAttemptStarted, s.quiz.Title)
}

// Select records the option choice for the current question. Selecting
// again overwrites; there is never more than one answer per question.
func (s *Session) Select(optionIndex int) error {
	if s.state != StateTaking {
		return fmt.Errorf("select: %w", errBadState)
	}
	q := s.quiz.Questions[s.current]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("select: option index %d out of range for question %d", optionIndex, q.ID)
	}
	s.answers[q.ID] = optionIndex
	return nil
}

// Next advances to the following question, or submits when invoked on the
// last one. An answer is not required to advance; skipped questions are
// submitted with a null index and scored as incorrect. While a submission
// is in flight the state is submitting, so a second Next is rejected and
// a double submit cannot race.
func (s *Session) Next() error {
	if s.state != StateTaking {
		return fmt.Errorf("next: %w", errBadState)
	}
	if s.current < len(s.quiz.Questions)-1 {
		s.current++
		return nil
	}
	return s.submit()
}

func (s *Session) submit() error {
	s.state = StateSubmitting
	elapsed := int(s.clock.Now().Sub(s.startedAt).Seconds())

	// Serialize in quiz question order, never answer-insertion order
	payload := make([]AnswerPayload, 0, len(s.quiz.Questions))
	for _, q := range s.quiz.Questions {
		entry := AnswerPayload{QuestionID: q.ID}
		if idx, ok := s.answers[q.ID]; ok {
			v := idx
			entry.SelectedOptionIndex = &v
		}
		payload = append(payload, entry)
	}

	result, err := s.backend.SubmitAttempt(s.quizID, payload, elapsed)
	if err != nil {
		// Recoverable: answers and pointer stay untouched so the student
		// can retry by invoking Next again.
		s.state = StateTaking
		s.emit(EventSubmissionFailed, fmt.Sprintf("Submission failed: %v", err))
		return err
	}

	s.result = result
	s.state = StateResults
	s.emit(EventSubmissionAccepted, fmt.Sprintf("Scored %d%%", result.Score))

	// History refresh is best-effort; a stats failure never disturbs the
	// results state.
	s.RefreshStats()
	return nil
}

// RefreshStats re-derives QuizStats from the attempt history. Failures
// are non-fatal: the previous stats (possibly nil) are kept and no state
// transition happens.
func (s *Session) RefreshStats() {
	attempts, err := s.backend.FetchAttempts(s.quizID)
	if err != nil {
		return
	}
	derived := DeriveStats(attempts)
	s.stats = &derived
	s.emit(EventStatsRefreshed, "")
}

func (s *Session) fail(t EventType, msg string) {
	s.state = StateError
	s.lastErr = msg
	s.emit(t, msg)
}

func (s *Session) emit(t EventType, msg string) {
	if s.notify != nil {
		s.notify(Event{Type: t, Message: msg})
	}
}

// State returns the current machine state
func (s *Session) State() State { return s.state }

// Quiz returns the loaded quiz definition, nil before a successful Load
func (s *Session) Quiz() *Quiz { return s.quiz }

// CurrentIndex is the zero-based pointer into the question sequence
func (s *Session) CurrentIndex() int { return s.current }

// CurrentQuestion returns the question under the pointer while taking or
// submitting; ok is false in any other state.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.quiz == nil || (s.state != StateTaking && s.state != StateSubmitting) {
		return Question{}, false
	}
	return s.quiz.Questions[s.current], true
}

// AnswerFor reports the recorded selection for a question, if any
func (s *Session) AnswerFor(questionID uint) (int, bool) {
	idx, ok := s.answers[questionID]
	return idx, ok
}

// AnswerCount is the number of questions with a recorded selection
func (s *Session) AnswerCount() int { return len(s.answers) }

// Result returns the server's verdict, nil before results
func (s *Session) Result() *SubmissionResult { return s.result }

// Stats returns the latest derived history stats, nil when the history
// has never been fetched successfully.
func (s *Session) Stats() *Stats { return s.stats }

// Err returns the human-readable message for the error state
func (s *Session) Err() string { return s.lastErr }
