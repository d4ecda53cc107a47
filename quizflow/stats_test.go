package quizflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStats(t *testing.T) {
	tests := []struct {
		name     string
		attempts []AttemptSummary
		want     Stats
	}{
		{
			name:     "empty history",
			attempts: nil,
			want:     Stats{},
		},
		{
			name: "single failed attempt",
			attempts: []AttemptSummary{
				{AttemptID: "a-1", Score: 40, Passed: false},
			},
			want: Stats{TotalAttempts: 1, BestScore: 40, AverageScore: 40, AnyPassed: false},
		},
		{
			name: "best and average across mixed attempts",
			attempts: []AttemptSummary{
				{AttemptID: "a-1", Score: 67, Passed: false},
				{AttemptID: "a-2", Score: 100, Passed: true},
				{AttemptID: "a-3", Score: 33, Passed: false},
			},
			want: Stats{TotalAttempts: 3, BestScore: 100, AverageScore: 66.67, AnyPassed: true},
		},
		{
			name: "pass flag sticks even when later attempts fail",
			attempts: []AttemptSummary{
				{AttemptID: "a-1", Score: 80, Passed: true},
				{AttemptID: "a-2", Score: 20, Passed: false},
			},
			want: Stats{TotalAttempts: 2, BestScore: 80, AverageScore: 50, AnyPassed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStats(tt.attempts))
		})
	}
}
