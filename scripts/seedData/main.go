package main

import (
	"encoding/json"
	"log"
	"os"

	"learnity/config"
	"learnity/database"
	"learnity/models"
	quizModels "learnity/models/quiz"

	"golang.org/x/crypto/bcrypt"
)

// userBatchSize bounds how many users one insert round creates
const userBatchSize = 50

type seedQuestion struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

type seedQuiz struct {
	LessonID     uint           `json:"lesson_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	PassingScore int            `json:"passing_score"`
	Questions    []seedQuestion `json:"questions"`
}

type seedUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type seedFile struct {
	Users   []seedUser `json:"users"`
	Quizzes []seedQuiz `json:"quizzes"`
}

func main() {
	config.LoadConfig()
	database.ConnectDb()

	path := "data/seed.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to open seed file %s: %v", path, err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	log.Printf("Seeding %d users and %d quizzes from %s", len(seed.Users), len(seed.Quizzes), path)

	seedUsers(seed.Users)
	seedQuizzes(seed.Quizzes)

	log.Println("Seeding completed successfully.")
}

// seedUsers creates users in fixed-size batches, skipping emails that are
// already registered.
func seedUsers(users []seedUser) {
	db := database.Database.Db

	created := 0
	skipped := 0
	batch := make([]models.User, 0, userBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := db.Create(&batch).Error; err != nil {
			log.Fatalf("Failed to insert user batch: %v", err)
		}
		created += len(batch)
		batch = batch[:0]
	}

	for _, u := range users {
		var existing models.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			skipped++
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), config.AppConfig.SaltRound)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.Email, err)
		}

		role := u.Role
		if role == "" {
			role = "STUDENT"
		}

		batch = append(batch, models.User{
			Name:     u.Name,
			Email:    u.Email,
			Password: string(hashed),
			Role:     role,
		})
		if len(batch) == userBatchSize {
			flush()
		}
	}
	flush()

	log.Printf("Users: %d created, %d skipped (duplicate email)", created, skipped)
}

func seedQuizzes(quizzes []seedQuiz) {
	db := database.Database.Db

	created := 0
	skipped := 0
	for _, sq := range quizzes {
		var existing quizModels.Quiz
		if err := db.Where("lesson_id = ? AND title = ? AND is_deleted = ?", sq.LessonID, sq.Title, false).First(&existing).Error; err == nil {
			skipped++
			continue
		}

		quiz := quizModels.Quiz{
			LessonID:     sq.LessonID,
			Title:        sq.Title,
			Description:  sq.Description,
			PassingScore: sq.PassingScore,
			IsPublished:  true,
		}
		for i, q := range sq.Questions {
			question := quizModels.Question{
				Prompt:       q.Prompt,
				OrderIndex:   i,
				CorrectIndex: q.CorrectIndex,
				Explanation:  q.Explanation,
			}
			for j, opt := range q.Options {
				question.Options = append(question.Options, quizModels.QuestionOption{
					OptionText: opt,
					OrderIndex: j,
				})
			}
			quiz.Questions = append(quiz.Questions, question)
		}

		if err := db.Create(&quiz).Error; err != nil {
			log.Fatalf("Failed to insert quiz %q: %v", sq.Title, err)
		}
		created++
	}

	log.Printf("Quizzes: %d created, %d skipped (already present)", created, skipped)
}
