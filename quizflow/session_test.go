package quizflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeBackend struct {
	quiz        *Quiz
	loadErr     error
	result      *SubmissionResult
	submitErr   error
	attempts    []AttemptSummary
	attemptsErr error

	lastAnswers []AnswerPayload
	lastElapsed int
	submitCalls int

	// onSubmit runs inside SubmitAttempt, used to probe in-flight state
	onSubmit func()
}

func (f *fakeBackend) LoadQuiz(quizID string) (*Quiz, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.quiz, nil
}

func (f *fakeBackend) SubmitAttempt(quizID string, answers []AnswerPayload, elapsedSeconds int) (*SubmissionResult, error) {
	f.submitCalls++
	f.lastAnswers = answers
	f.lastElapsed = elapsedSeconds
	if f.onSubmit != nil {
		f.onSubmit()
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.result, nil
}

func (f *fakeBackend) FetchAttempts(quizID string) ([]AttemptSummary, error) {
	if f.attemptsErr != nil {
		return nil, f.attemptsErr
	}
	return f.attempts, nil
}

func threeQuestionQuiz() *Quiz {
	return &Quiz{
		ID:           7,
		LessonID:     3,
		Title:        "Fractions basics",
		PassingScore: 70,
		Questions: []Question{
			{ID: 101, Prompt: "1/2 + 1/2 = ?", Options: []string{"1", "2", "1/4"}},
			{ID: 102, Prompt: "1/3 of 9 = ?", Options: []string{"6", "3", "1"}},
			{ID: 103, Prompt: "2/4 simplified = ?", Options: []string{"1/2", "2", "4/8"}},
		},
	}
}

func newTakingSession(t *testing.T, backend *fakeBackend, clock Clock) *Session {
	t.Helper()
	opts := []Option{}
	if clock != nil {
		opts = append(opts, WithClock(clock))
	}
	s := NewSession("7", backend, opts...)
	require.NoError(t, s.Load())
	require.NoError(t, s.Start())
	return s
}

func TestLoadSuccess(t *testing.T) {
	backend := &fakeBackend{quiz: threeQuestionQuiz()}
	s := NewSession("7", backend)
	require.Equal(t, StateLoading, s.State())

	require.NoError(t, s.Load())
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, "Fractions basics", s.Quiz().Title)
}

func TestLoadFailureIsTerminal(t *testing.T) {
	backend := &fakeBackend{loadErr: errors.New("quiz not found")}
	s := NewSession("7", backend)

	require.Error(t, s.Load())
	assert.Equal(t, StateError, s.State())
	assert.Contains(t, s.Err(), "quiz not found")

	// no transitions besides a full reload
	assert.Error(t, s.Start())
	assert.Error(t, s.Next())
	assert.Error(t, s.Select(0))
}

func TestLoadEmptyQuizIsInvalid(t *testing.T) {
	backend := &fakeBackend{quiz: &Quiz{ID: 7, Title: "empty", Questions: nil}}
	s := NewSession("7", backend)

	err := s.Load()
	require.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, StateError, s.State())
}

func TestReloadFromErrorState(t *testing.T) {
	backend := &fakeBackend{loadErr: errors.New("boom")}
	s := NewSession("7", backend)
	require.Error(t, s.Load())

	backend.loadErr = nil
	backend.quiz = threeQuestionQuiz()
	require.NoError(t, s.Load())
	assert.Equal(t, StateReady, s.State())
}

func TestStartResetsAttemptState(t *testing.T) {
	backend := &fakeBackend{quiz: threeQuestionQuiz()}
	s := newTakingSession(t, backend, nil)

	assert.Equal(t, StateTaking, s.State())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 0, s.AnswerCount())

	q, ok := s.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, uint(101), q.ID)
}

func TestSelectOverwritesPriorChoice(t *testing.T) {
	backend := &fakeBackend{quiz: threeQuestionQuiz()}
	s := newTakingSession(t, backend, nil)

	require.NoError(t, s.Select(0))
	require.NoError(t, s.Select(2))

	assert.Equal(t, 1, s.AnswerCount())
	got, ok := s.AnswerFor(101)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestSelectRejectsOutOfRangeIndex(t *testing.T) {
	backend := &fakeBackend{quiz: threeQuestionQuiz()}
	s := newTakingSession(t, backend, nil)

	assert.Error(t, s.Select(-1))
	assert.Error(t, s.Select(3))
	assert.Equal(t, 0, s.AnswerCount())
}

func TestSubmitSerializesAllQuestionsInQuizOrder(t *testing.T) {
	backend := &fakeBackend{
		quiz:   threeQuestionQuiz(),
		result: &SubmissionResult{AttemptID: "a-1", Score: 100, Passed: true},
	}
	s := newTakingSession(t, backend, nil)

	require.NoError(t, s.Select(0))
	require.NoError(t, s.Next())
	require.NoError(t, s.Select(1))
	require.NoError(t, s.Next())
	require.NoError(t, s.Select(0))
	require.NoError(t, s.Next()) // last question -> submit

	require.Len(t, backend.lastAnswers, 3)
	assert.Equal(t, uint(101), backend.lastAnswers[0].QuestionID)
	assert.Equal(t, uint(102), backend.lastAnswers[1].QuestionID)
	assert.Equal(t, uint(103), backend.lastAnswers[2].QuestionID)
	for _, a := range backend.lastAnswers {
		require.NotNil(t, a.SelectedOptionIndex)
	}
	assert.Equal(t, StateResults, s.State())
}

func TestSkippedQuestionsAreSubmittedAsNull(t *testing.T) {
	backend := &fakeBackend{
		quiz:   threeQuestionQuiz(),
		result: &SubmissionResult{AttemptID: "a-2", Score: 33, Passed: false},
	}
	s := newTakingSession(t, backend, nil)

	require.NoError(t, s.Select(0)) // answer only the first question
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())

	require.Len(t, backend.lastAnswers, 3)
	assert.NotNil(t, backend.lastAnswers[0].SelectedOptionIndex)
	assert.Nil(t, backend.lastAnswers[1].SelectedOptionIndex)
	assert.Nil(t, backend.lastAnswers[2].SelectedOptionIndex)
	assert.Equal(t, StateResults, s.State())
}

func TestSubmissionFailurePreservesAnswersAndPointer(t *testing.T) {
	backend := &fakeBackend{
		quiz:      threeQuestionQuiz(),
		submitErr: errors.New("network down"),
	}
	var events []Event
	s := NewSession("7", backend, WithNotifier(func(e Event) { events = append(events, e) }))
	require.NoError(t, s.Load())
	require.NoError(t, s.Start())

	require.NoError(t, s.Select(0))
	require.NoError(t, s.Next())
	require.NoError(t, s.Select(1))
	require.NoError(t, s.Next())
	require.NoError(t, s.Select(2))
	require.Error(t, s.Next())

	// back in taking on the last question, everything intact
	assert.Equal(t, StateTaking, s.State())
	assert.Equal(t, 2, s.CurrentIndex())
	assert.Equal(t, 3, s.AnswerCount())

	var sawFailure bool
	for _, e := range events {
		if e.Type == EventSubmissionFailed {
			sawFailure = true
		}
	}
	assert.True(t, sawFailure)

	// retry without re-answering
	backend.submitErr = nil
	backend.result = &SubmissionResult{AttemptID: "a-3", Score: 100, Passed: true}
	require.NoError(t, s.Next())
	assert.Equal(t, StateResults, s.State())
	assert.Equal(t, 2, backend.submitCalls)

	got, ok := s.AnswerFor(103)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestNextRejectedWhileSubmissionInFlight(t *testing.T) {
	backend := &fakeBackend{
		quiz:   threeQuestionQuiz(),
		result: &SubmissionResult{AttemptID: "a-4", Score: 0, Passed: false},
	}
	s := newTakingSession(t, backend, nil)

	backend.onSubmit = func() {
		assert.Equal(t, StateSubmitting, s.State())
		assert.Error(t, s.Next()) // double submit guard
	}

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	assert.Equal(t, 1, backend.submitCalls)
}

func TestElapsedSecondsComesFromClock(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	backend := &fakeBackend{
		quiz:   threeQuestionQuiz(),
		result: &SubmissionResult{AttemptID: "a-5", Score: 0, Passed: false},
	}
	s := newTakingSession(t, backend, clock)

	clock.Advance(95 * time.Second)
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())

	assert.Equal(t, 95, backend.lastElapsed)
}

func TestRetakeResetsEverything(t *testing.T) {
	backend := &fakeBackend{
		quiz:   threeQuestionQuiz(),
		result: &SubmissionResult{AttemptID: "a-6", Score: 100, Passed: true},
	}
	s := newTakingSession(t, backend, nil)

	require.NoError(t, s.Select(0))
	require.NoError(t, s.Next())
	require.NoError(t, s.Select(1))
	require.NoError(t, s.Next())
	require.NoError(t, s.Select(0))
	require.NoError(t, s.Next())
	require.Equal(t, StateResults, s.State())

	require.NoError(t, s.Retake())
	assert.Equal(t, StateTaking, s.State())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 0, s.AnswerCount())
	assert.Nil(t, s.Result())
}

func TestRetakeOnlyAllowedFromResults(t *testing.T) {
	backend := &fakeBackend{quiz: threeQuestionQuiz()}
	s := NewSession("7", backend)
	require.NoError(t, s.Load())

	assert.Error(t, s.Retake())
	require.NoError(t, s.Start())
	assert.Error(t, s.Retake())
}

func TestResultReflectsServerVerdict(t *testing.T) {
	// 2 of 3 correct with a 70% threshold: server says 67, not passed
	backend := &fakeBackend{
		quiz: threeQuestionQuiz(),
		result: &SubmissionResult{
			AttemptID:      "a-7",
			Score:          67,
			Passed:         false,
			TotalQuestions: 3,
			CorrectCount:   2,
			PassingScore:   70,
		},
	}
	s := newTakingSession(t, backend, nil)

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())

	result := s.Result()
	require.NotNil(t, result)
	assert.Equal(t, 67, result.Score)
	assert.False(t, result.Passed)
}

func TestStatsRefreshAfterSubmission(t *testing.T) {
	backend := &fakeBackend{
		quiz:   threeQuestionQuiz(),
		result: &SubmissionResult{AttemptID: "a-8", Score: 100, Passed: true},
		attempts: []AttemptSummary{
			{AttemptID: "a-8", Score: 100, Passed: true},
			{AttemptID: "a-0", Score: 40, Passed: false},
		},
	}
	s := newTakingSession(t, backend, nil)

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())

	stats := s.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TotalAttempts)
	assert.Equal(t, 100, stats.BestScore)
	assert.True(t, stats.AnyPassed)
}

func TestStatsFailureIsNonFatal(t *testing.T) {
	backend := &fakeBackend{
		quiz:        threeQuestionQuiz(),
		result:      &SubmissionResult{AttemptID: "a-9", Score: 100, Passed: true},
		attemptsErr: errors.New("stats backend down"),
	}
	s := newTakingSession(t, backend, nil)

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())

	assert.Equal(t, StateResults, s.State())
	assert.Nil(t, s.Stats())
}
