package service

import (
	"fmt"
	"math"

	"github.com/noah-isme/learning-progress-api/internal/models"
)

// Score computes a user's value for metric over window.
// Accuracy is the day-level correct/total ratio and is 0 when nothing was answered.
func Score(record models.UserRecord, metric models.Metric, window Window) float64 {
	switch metric {
	case models.MetricCurrentStreak:
		return float64(record.CurrentStreak)
	case models.MetricWordsLearned, models.MetricAccuracy, models.MetricTimeSpent:
	default:
		panic(fmt.Sprintf("service: unknown leaderboard metric %q", metric))
	}

	var words, correct, total, minutes int
	for _, day := range record.ActivityDays {
		if !window.Contains(day.Date) {
			continue
		}
		words += day.WordsLearned
		correct += day.CorrectAnswers
		total += day.TotalAnswers
		minutes += day.TimeSpentMinutes
	}

	switch metric {
	case models.MetricWordsLearned:
		return float64(words)
	case models.MetricTimeSpent:
		return float64(minutes)
	default:
		if total == 0 {
			return 0
		}
		return math.Round(float64(correct) / float64(total) * 100)
	}
}

// quizMean is the mean quiz score across scored course days and the number of scored days.
func quizMean(progress models.CourseProgress) (float64, int) {
	scores := progress.QuizScores()
	if len(scores) == 0 {
		return 0, 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores)), len(scores)
}

// meanRounded averages values and rounds to the nearest integer, returning 0 when empty.
func meanRounded(sum float64, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(sum / float64(count)))
}
