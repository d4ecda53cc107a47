package quiz

import "gorm.io/gorm"

// QuizAttempt is one graded traversal of a quiz by a student. Rows are
// written once by the evaluator and never mutated afterwards.
type QuizAttempt struct {
	gorm.Model
	PublicID       string          `json:"attempt_id" gorm:"uniqueIndex;size:36;not null"`
	UserID         uint            `json:"user_id" gorm:"index;not null"`
	QuizID         uint            `json:"quiz_id" gorm:"index;not null"`
	Score          int             `json:"score"` // round(100 * correct / total)
	Passed         bool            `json:"passed" gorm:"default:false"`
	TotalQuestions int             `json:"total_questions"`
	CorrectCount   int             `json:"correct_count"`
	PassingScore   int             `json:"passing_score"` // threshold echoed from the quiz
	ElapsedSeconds int             `json:"elapsed_seconds"`
	AttemptNumber  int             `json:"attempt_number" gorm:"default:1"`
	XPAwarded      int             `json:"xp_awarded" gorm:"default:0"`
	IsDeleted      bool            `gorm:"default:false"`
	Answers        []AttemptAnswer `json:"answers" gorm:"foreignKey:AttemptID"`
}

// AttemptAnswer records the graded outcome for a single question within
// an attempt. SelectedIndex is nil when the question was skipped.
type AttemptAnswer struct {
	gorm.Model
	AttemptID     uint   `json:"-" gorm:"index;not null"`
	QuestionID    uint   `json:"question_id" gorm:"index;not null"`
	SelectedIndex *int   `json:"selected_option_index"`
	CorrectIndex  int    `json:"correct_option_index"`
	IsCorrect     bool   `json:"is_correct" gorm:"default:false"`
	Explanation   string `json:"explanation,omitempty" gorm:"type:text"`
	IsDeleted     bool   `gorm:"default:false"`
}
