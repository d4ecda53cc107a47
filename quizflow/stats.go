package quizflow

import "math"

// Stats summarizes a student's attempt history for one quiz. It is
// recomputed from the full history on every fetch.
type Stats struct {
	TotalAttempts int     `json:"total_attempts"`
	BestScore     int     `json:"best_score"`
	AverageScore  float64 `json:"average_score"`
	AnyPassed     bool    `json:"any_passed"`
}

// DeriveStats folds the attempt history into display stats. An empty
// history yields the zero value.
func DeriveStats(attempts []AttemptSummary) Stats {
	var stats Stats
	if len(attempts) == 0 {
		return stats
	}
	sum := 0
	for _, a := range attempts {
		sum += a.Score
		if a.Score > stats.BestScore {
			stats.BestScore = a.Score
		}
		if a.Passed {
			stats.AnyPassed = true
		}
	}
	stats.TotalAttempts = len(attempts)
	stats.AverageScore = math.Round(float64(sum)/float64(len(attempts))*100) / 100
	return stats
}
