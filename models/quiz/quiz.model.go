package quiz

import "gorm.io/gorm"

// Quiz is an ordered set of questions attached to a lesson with a pass
// threshold. Authoring happens in the course tooling; the attempt flow
// only ever reads these rows.
type Quiz struct {
	gorm.Model
	LessonID     uint       `json:"lesson_id" gorm:"index;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description" gorm:"type:text"`
	PassingScore int        `json:"passing_score" gorm:"default:70"` // percentage, 0-100
	IsPublished  bool       `json:"is_published" gorm:"default:false"`
	IsDeleted    bool       `gorm:"default:false"`
	Questions    []Question `json:"questions"`
}

// Question holds the prompt and the correct option index. The correct
// index is a server-side secret and must never be serialized toward the
// client before submission.
type Question struct {
	gorm.Model
	QuizID       uint             `json:"quiz_id" gorm:"index;not null"`
	Prompt       string           `json:"prompt" gorm:"type:text;not null"`
	OrderIndex   int              `json:"order_index" gorm:"default:0"`
	CorrectIndex int              `json:"-" gorm:"not null"`
	Explanation  string           `json:"explanation,omitempty" gorm:"type:text"`
	IsDeleted    bool             `gorm:"default:false"`
	Options      []QuestionOption `json:"options"`
}

// QuestionOption is one selectable answer for a question
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
