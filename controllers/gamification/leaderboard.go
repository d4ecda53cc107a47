package gamificationController

import (
	"learnity/database"
	"learnity/middleware"
	"learnity/models"
	"learnity/utils"

	"github.com/gofiber/fiber/v2"
)

type leaderboardRowDTO struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	XP    int    `json:"xp"`
	Level int    `json:"level"`
}

// GetLeaderboard returns the top students by accumulated XP. The ranking
// comes from the Redis sorted set; names are resolved from the database.
func GetLeaderboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := utils.TopUsers(int64(limit))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Leaderboard is unavailable right now!", nil)
	}

	rows := make([]leaderboardRowDTO, 0, len(entries))
	for i, entry := range entries {
		var u models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", entry.UserID, false).First(&u).Error; err != nil {
			continue
		}
		rows = append(rows, leaderboardRowDTO{
			Rank:  i + 1,
			Name:  u.Name,
			XP:    entry.XP,
			Level: u.Level,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", fiber.Map{
		"leaderboard": rows,
	})
}

// RebuildLeaderboard resyncs the Redis sorted set from the users table.
// Admin-only; the nightly maintenance job runs the same resync.
func RebuildLeaderboard(c *fiber.Ctx) error {
	go utils.RebuildLeaderboard()
	return middleware.JsonResponse(c, fiber.StatusAccepted, true, "Leaderboard rebuild started!", nil)
}
