package quizController

import (
	"log"
	"math"
	"time"

	"learnity/config"
	"learnity/database"
	"learnity/middleware"
	"learnity/models"
	quizModels "learnity/models/quiz"
	"learnity/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type answerResultDTO struct {
	QuestionID          uint   `json:"question_id"`
	SelectedOptionIndex *int   `json:"selected_option_index"`
	CorrectOptionIndex  int    `json:"correct_option_index"`
	IsCorrect           bool   `json:"is_correct"`
	Explanation         string `json:"explanation,omitempty"`
}

type submissionResultDTO struct {
	AttemptID      string            `json:"attempt_id"`
	Score          int               `json:"score"`
	Passed         bool              `json:"passed"`
	TotalQuestions int               `json:"total_questions"`
	CorrectCount   int               `json:"correct_count"`
	PassingScore   int               `json:"passing_score"`
	Answers        []answerResultDTO `json:"answers"`
	XPAwarded      int               `json:"xp_awarded"`
	CreatedAt      time.Time         `json:"created_at"`
}

// SubmitAttempt grades a submitted answer list against the quiz, persists
// the attempt and awards XP. Answers arrive in question order with a null
// index for skipped questions; skipped and wrong both score zero.
func SubmitAttempt(c *fiber.Ctx) error {
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

	reqData := new(struct {
		Answers []struct {
			QuestionID          uint `json:"question_id"`
			SelectedOptionIndex *int `json:"selected_option_index"`
		} `json:"answers"`
		ElapsedSeconds int `json:"elapsed_seconds"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.ElapsedSeconds < 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Elapsed seconds cannot be negative!", nil)
	}

	// Index the quiz questions and reject answers that reference foreign
	// questions, duplicate a question or point outside the option list.
	questionByID := make(map[uint]quizModels.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questionByID[q.ID] = q
	}

	selectedByQuestion := make(map[uint]*int, len(reqData.Answers))
	for _, a := range reqData.Answers {
		q, found := questionByID[a.QuestionID]
		if !found {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer references a question outside this quiz!", nil)
		}
		if _, dup := selectedByQuestion[a.QuestionID]; dup {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Duplicate answer for a question!", nil)
		}
		if a.SelectedOptionIndex != nil && (*a.SelectedOptionIndex < 0 || *a.SelectedOptionIndex >= len(q.Options)) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Selected option index out of range!", nil)
		}
		selectedByQuestion[a.QuestionID] = a.SelectedOptionIndex
	}

	// Grade in question order; unanswered questions count as incorrect
	correctCount := 0
	answers := make([]quizModels.AttemptAnswer, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		selected := selectedByQuestion[q.ID]
		isCorrect := selected != nil && *selected == q.CorrectIndex
		if isCorrect {
			correctCount++
		}
		answers = append(answers, quizModels.AttemptAnswer{
			QuestionID:    q.ID,
			SelectedIndex: selected,
			CorrectIndex:  q.CorrectIndex,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	total := len(quiz.Questions)
	score := int(math.Round(float64(correctCount) * 100.0 / float64(total)))
	passed := score >= quiz.PassingScore

	xpAwarded := correctCount * config.AppConfig.XPPerCorrect
	if passed {
		xpAwarded += config.AppConfig.XPPassBonus
	}

	var attemptCount int64
	database.Database.Db.Model(&quizModels.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Count(&attemptCount)

	// First pass triggers the congratulation email below
	var priorPassed int64
	database.Database.Db.Model(&quizModels.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND passed = ? AND is_deleted = ?", userID, quizID, true, false).
		Count(&priorPassed)

	attempt := quizModels.QuizAttempt{
		PublicID:       uuid.New().String(),
		UserID:         userID,
		QuizID:         uint(quizID),
		Score:          score,
		Passed:         passed,
		TotalQuestions: total,
		CorrectCount:   correctCount,
		PassingScore:   quiz.PassingScore,
		ElapsedSeconds: reqData.ElapsedSeconds,
		AttemptNumber:  int(attemptCount) + 1,
		XPAwarded:      xpAwarded,
		Answers:        answers,
	}

	newXP := user.XP + xpAwarded

	tx := database.Database.Db.Begin()
	if err := tx.Create(&attempt).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving attempt for user %d quiz %d: %v", userID, quizID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}
	if xpAwarded > 0 {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{"xp": newXP, "level": models.LevelForXP(newXP)}).Error; err != nil {
			tx.Rollback()
			log.Printf("Error updating XP for user %d: %v", userID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
		}
	}
	tx.Commit()

	// Leaderboard and email are best-effort side effects
	if xpAwarded > 0 {
		go func(uid uint, xp int) {
			if err := utils.UpdateLeaderboardScore(uid, xp); err != nil {
				log.Printf("Leaderboard update failed for user %d: %v", uid, err)
			}
		}(userID, newXP)
	}
	if passed && priorPassed == 0 {
		go utils.SendQuizPassedEmail(user.Email, user.Name, quiz.Title, score)
	}

	resultAnswers := make([]answerResultDTO, len(answers))
	for i, a := range answers {
		resultAnswers[i] = answerResultDTO{
			QuestionID:          a.QuestionID,
			SelectedOptionIndex: a.SelectedIndex,
			CorrectOptionIndex:  a.CorrectIndex,
			IsCorrect:           a.IsCorrect,
			Explanation:         a.Explanation,
		}
	}

	data := submissionResultDTO{
		AttemptID:      attempt.PublicID,
		Score:          score,
		Passed:         passed,
		TotalQuestions: total,
		CorrectCount:   correctCount,
		PassingScore:   quiz.PassingScore,
		Answers:        resultAnswers,
		XPAwarded:      xpAwarded,
		CreatedAt:      attempt.CreatedAt,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted!", data)
}

type attemptSummaryDTO struct {
	AttemptID string    `json:"attempt_id"`
	Score     int       `json:"score"`
	Passed    bool      `json:"passed"`
	CreatedAt time.Time `json:"created_at"`
}

// GetQuizAttempts lists the student's prior attempts for a quiz, newest
// first. Clients derive display stats (count, best, average, any-passed)
// from this history.
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var attempts []quizModels.QuizAttempt
	if err := database.Database.Db.
		Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Order("created_at desc").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	summaries := make([]attemptSummaryDTO, len(attempts))
	for i, a := range attempts {
		summaries[i] = attemptSummaryDTO{
			AttemptID: a.PublicID,
			Score:     a.Score,
			Passed:    a.Passed,
			CreatedAt: a.CreatedAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts": summaries,
	})
}
