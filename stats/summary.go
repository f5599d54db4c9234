package stats

import (
	"fmt"
	"time"

	"github.com/nonsonwune/fe_practice/models"
)

// Summary aggregates the whole result history
type Summary struct {
	ExamsTaken             int
	AverageScore           float64
	AverageTimePerQuestion float64 // seconds
}

// Summarize scans every result; empty input gives a zero Summary
func Summarize(results []models.ExamResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	var totalScore, totalTime float64
	var totalQuestions int
	for _, r := range results {
		totalScore += r.Score
		totalTime += r.TimeTaken
		totalQuestions += r.NumQuestions
	}

	s := Summary{
		ExamsTaken:   len(results),
		AverageScore: totalScore / float64(len(results)),
	}
	if totalQuestions > 0 {
		s.AverageTimePerQuestion = totalTime / float64(totalQuestions)
	}
	return s
}

// Newest returns results most recent first without touching the input
func Newest(results []models.ExamResult) []models.ExamResult {
	out := make([]models.ExamResult, len(results))
	for i, r := range results {
		out[len(results)-1-i] = r
	}
	return out
}

// HistoryLine formats one result the way the dashboard lists it
func HistoryLine(r models.ExamResult) string {
	date := r.Date
	if t, err := time.Parse(models.ResultDateLayout, r.Date); err == nil {
		date = t.Format("01/02/2006 03:04 PM")
	}
	return fmt.Sprintf("%s | %d Q | %.1f%% | %.1f min | %s", date, r.NumQuestions, r.Score, r.TimeTaken/60, r.TestType)
}
