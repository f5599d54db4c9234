package models

// ResultDateLayout is the layout of ExamResult.Date
const ResultDateLayout = "2006-01-02 15:04:05"

// ExamResult summarizes one submitted session
type ExamResult struct {
	ID           string   `db:"id" json:"id,omitempty"`
	Date         string   `db:"date" json:"date"`
	NumQuestions int      `db:"num_questions" json:"num_questions"`
	Score        float64  `db:"score" json:"score"`
	TimeTaken    float64  `db:"time_taken" json:"time_taken"`
	TestType     TestType `db:"test_type" json:"test_type"`
}

// ResultsFile is the on-disk layout of the results file
type ResultsFile struct {
	Results []ExamResult `json:"results"`
}
