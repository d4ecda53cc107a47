package quizController

import (
	"learnity/database"
	"learnity/middleware"
	"learnity/models"
	quizModels "learnity/models/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type questionDTO struct {
	ID      uint     `json:"question_id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type quizDTO struct {
	ID           uint          `json:"quiz_id"`
	LessonID     uint          `json:"lesson_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	PassingScore int           `json:"passing_score"`
	Questions    []questionDTO `json:"questions"`
}

// loadQuizWithQuestions fetches a published quiz with its questions and
// options in authored order.
func loadQuizWithQuestions(db *gorm.DB, quizID int) (*quizModels.Quiz, error) {
	var quiz quizModels.Quiz
	err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		Where("id = ? AND is_deleted = ? AND is_published = ?", quizID, false, true).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetQuiz serves the quiz definition for an attempt session. The correct
// option index never leaves the server here.
func GetQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	quiz, err := loadQuizWithQuestions(database.Database.Db, quizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if len(quiz.Questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Quiz has no questions!", nil)
	}

	questions := make([]questionDTO, len(quiz.Questions))
	for i, q := range quiz.Questions {
		options := make([]string, len(q.Options))
		for j, opt := range q.Options {
			options[j] = opt.OptionText
		}
		questions[i] = questionDTO{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Options: options,
		}
	}

	data := quizDTO{
		ID:           quiz.ID,
		LessonID:     quiz.LessonID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		PassingScore: quiz.PassingScore,
		Questions:    questions,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", data)
}
