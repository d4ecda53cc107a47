package quizRoutes

import (
	gamification "learnity/controllers/gamification"
	controllers "learnity/controllers/quiz"
	"learnity/middleware"
	validators "learnity/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up the attempt-flow routes: quiz loading, attempt
// submission, attempt history and the XP leaderboard.
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	// Quiz definition for an attempt session (no correct indexes)
	quizGroup.Get("/:quiz_id", middleware.JWTMiddleware, validators.QuizByID(), controllers.GetQuiz)

	// Submission evaluator
	quizGroup.Post("/:quiz_id/submit", middleware.JWTMiddleware, validators.QuizByID(), controllers.SubmitAttempt)

	// Attempt history (stats source)
	quizGroup.Get("/:quiz_id/attempts", middleware.JWTMiddleware, validators.QuizByID(), controllers.GetQuizAttempts)

	// Gamification
	app.Get("/leaderboard", middleware.JWTMiddleware, gamification.GetLeaderboard)
	app.Post("/leaderboard/rebuild", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), gamification.RebuildLeaderboard)
}
