package main

import (
	"log"

	"learnity/config"
	"learnity/database"
	"learnity/models"
	quizModels "learnity/models/quiz"

	"gorm.io/gorm"
)

// cleanupBatchSize bounds how many rows one delete round removes
const cleanupBatchSize = 100

// seedEmailDomain marks accounts created by the seed script
const seedEmailDomain = "@seed.learnity.test"

func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	removed := cleanupSeededUsers(db)
	log.Printf("Removed %d seeded users", removed)

	pruned := cleanupSoftDeletedQuizzes(db)
	log.Printf("Removed %d soft-deleted quizzes", pruned)

	log.Println("Cleanup completed successfully.")
}

// cleanupSeededUsers removes seed-domain accounts and everything that
// hangs off them, in fixed-size batches.
func cleanupSeededUsers(db *gorm.DB) int {
	total := 0
	for {
		var ids []uint
		if err := db.Model(&models.User{}).
			Where("email LIKE ?", "%"+seedEmailDomain).
			Limit(cleanupBatchSize).
			Pluck("id", &ids).Error; err != nil {
			log.Fatalf("Failed to select seeded users: %v", err)
		}
		if len(ids) == 0 {
			break
		}

		var attemptIDs []uint
		if err := db.Model(&quizModels.QuizAttempt{}).
			Where("user_id IN ?", ids).
			Pluck("id", &attemptIDs).Error; err != nil {
			log.Fatalf("Failed to select attempts of seeded users: %v", err)
		}

		tx := db.Begin()
		if len(attemptIDs) > 0 {
			if err := tx.Unscoped().Where("attempt_id IN ?", attemptIDs).Delete(&quizModels.AttemptAnswer{}).Error; err != nil {
				tx.Rollback()
				log.Fatalf("Failed to delete attempt answers: %v", err)
			}
			if err := tx.Unscoped().Where("id IN ?", attemptIDs).Delete(&quizModels.QuizAttempt{}).Error; err != nil {
				tx.Rollback()
				log.Fatalf("Failed to delete attempts: %v", err)
			}
		}
		if err := tx.Unscoped().Where("id IN ?", ids).Delete(&models.User{}).Error; err != nil {
			tx.Rollback()
			log.Fatalf("Failed to delete users: %v", err)
		}
		tx.Commit()

		total += len(ids)
		if len(ids) < cleanupBatchSize {
			break
		}
	}
	return total
}

// cleanupSoftDeletedQuizzes hard-deletes quizzes flagged is_deleted along
// with their questions and options.
func cleanupSoftDeletedQuizzes(db *gorm.DB) int {
	total := 0
	for {
		var ids []uint
		if err := db.Model(&quizModels.Quiz{}).
			Where("is_deleted = ?", true).
			Limit(cleanupBatchSize).
			Pluck("id", &ids).Error; err != nil {
			log.Fatalf("Failed to select soft-deleted quizzes: %v", err)
		}
		if len(ids) == 0 {
			break
		}

		var questionIDs []uint
		if err := db.Model(&quizModels.Question{}).
			Where("quiz_id IN ?", ids).
			Pluck("id", &questionIDs).Error; err != nil {
			log.Fatalf("Failed to select questions: %v", err)
		}

		tx := db.Begin()
		if len(questionIDs) > 0 {
			if err := tx.Unscoped().Where("question_id IN ?", questionIDs).Delete(&quizModels.QuestionOption{}).Error; err != nil {
				tx.Rollback()
				log.Fatalf("Failed to delete options: %v", err)
			}
			if err := tx.Unscoped().Where("id IN ?", questionIDs).Delete(&quizModels.Question{}).Error; err != nil {
				tx.Rollback()
				log.Fatalf("Failed to delete questions: %v", err)
			}
		}
		if err := tx.Unscoped().Where("id IN ?", ids).Delete(&quizModels.Quiz{}).Error; err != nil {
			tx.Rollback()
			log.Fatalf("Failed to delete quizzes: %v", err)
		}
		tx.Commit()

		total += len(ids)
		if len(ids) < cleanupBatchSize {
			break
		}
	}
	return total
}
