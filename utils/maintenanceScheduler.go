package utils

import (
	"log"
	"time"

	"learnity/database"
	quizModels "learnity/models/quiz"

	"github.com/robfig/cron/v3"
)

// pruneBatchSize bounds how many attempts one delete round touches
const pruneBatchSize = 500

// InitializeMaintenanceScheduler sets up the nightly maintenance jobs
func InitializeMaintenanceScheduler() {
	log.Println("[MAINTENANCE] Initializing maintenance scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[MAINTENANCE] Running nightly maintenance...")
		PruneDeletedAttempts()
		RebuildLeaderboard()
	})

	c.Start()
	log.Println("[MAINTENANCE] Maintenance scheduler started - runs daily at 3 AM")
}

// PruneDeletedAttempts hard-deletes soft-deleted attempts older than 90
// days, in fixed-size batches so one run never holds long transactions.
func PruneDeletedAttempts() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -90)

	totalPruned := 0
	for {
		var ids []uint
		if err := db.Model(&quizModels.QuizAttempt{}).
			Where("is_deleted = ? AND updated_at < ?", true, cutoff).
			Limit(pruneBatchSize).
			Pluck("id", &ids).Error; err != nil {
			log.Printf("[MAINTENANCE] Error selecting attempts to prune: %v", err)
			return
		}
		if len(ids) == 0 {
			break
		}

		tx := db.Begin()
		if err := tx.Unscoped().Where("attempt_id IN ?", ids).Delete(&quizModels.AttemptAnswer{}).Error; err != nil {
			tx.Rollback()
			log.Printf("[MAINTENANCE] Error pruning attempt answers: %v", err)
			return
		}
		if err := tx.Unscoped().Where("id IN ?", ids).Delete(&quizModels.QuizAttempt{}).Error; err != nil {
			tx.Rollback()
			log.Printf("[MAINTENANCE] Error pruning attempts: %v", err)
			return
		}
		tx.Commit()

		totalPruned += len(ids)
		if len(ids) < pruneBatchSize {
			break
		}
	}

	log.Printf("[MAINTENANCE] Pruned %d deleted attempts", totalPruned)
}
