// Package quizflow drives one student's traversal of a quiz: loading the
// quiz definition, collecting answers, submitting them for grading and
// refreshing the attempt history. The server never trusts the client with
// correct answers; grading happens in the submit endpoint and the session
// only reports what the server returned.
package quizflow

import "time"

// Quiz is the read-only quiz definition served to the client. Correct
// option indexes are withheld by the server.
type Quiz struct {
	ID           uint       `json:"quiz_id"`
	LessonID     uint       `json:"lesson_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	PassingScore int        `json:"passing_score"`
	Questions    []Question `json:"questions"`
}

// Question carries the prompt and its ordered option texts
type Question struct {
	ID      uint     `json:"question_id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// AnswerPayload is one entry of the submission body. SelectedOptionIndex
// is nil for questions the student skipped; the evaluator scores those as
// incorrect.
type AnswerPayload struct {
	QuestionID          uint `json:"question_id"`
	SelectedOptionIndex *int `json:"selected_option_index"`
}

// AnswerResult is the graded outcome for a single question, with the
// correct index revealed.
type AnswerResult struct {
	QuestionID          uint   `json:"question_id"`
	SelectedOptionIndex *int   `json:"selected_option_index"`
	CorrectOptionIndex  int    `json:"correct_option_index"`
	IsCorrect           bool   `json:"is_correct"`
	Explanation         string `json:"explanation,omitempty"`
}

// SubmissionResult is the evaluator's verdict for one attempt
type SubmissionResult struct {
	AttemptID      string         `json:"attempt_id"`
	Score          int            `json:"score"`
	Passed         bool           `json:"passed"`
	TotalQuestions int            `json:"total_questions"`
	CorrectCount   int            `json:"correct_count"`
	PassingScore   int            `json:"passing_score"`
	Answers        []AnswerResult `json:"answers"`
	XPAwarded      int            `json:"xp_awarded"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AttemptSummary is one row of the attempt history used for stats
type AttemptSummary struct {
	AttemptID string    `json:"attempt_id"`
	Score     int       `json:"score"`
	Passed    bool      `json:"passed"`
	CreatedAt time.Time `json:"created_at"`
}

// Backend is the server collaborator contract consumed by a Session
type Backend interface {
	// LoadQuiz fetches the quiz definition once at the start of a session
	LoadQuiz(quizID string) (*Quiz, error)
	// SubmitAttempt sends the ordered answer list for grading
	SubmitAttempt(quizID string, answers []AnswerPayload, elapsedSeconds int) (*SubmissionResult, error)
	// FetchAttempts returns the student's prior attempts for the quiz
	FetchAttempts(quizID string) ([]AttemptSummary, error)
}

// Clock abstracts the wall clock so elapsed-time math is testable
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
