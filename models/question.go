package models

import "strings"

// DefaultMediaSize is the display scale (percent) used when a record omits media_size
const DefaultMediaSize = 100

// ChoiceCount is the number of answer choices every question carries
const ChoiceCount = 4

// Question represents one record of the question bank
type Question struct {
	Number        string   `json:"number"`
	Category      string   `json:"category"`
	Text          string   `json:"question"`
	Media         string   `json:"media"`
	MediaSize     int      `json:"media_size"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer"`
}

// ChoiceIndex maps a choice letter (A-D, any case) to its zero-based index.
// The second return value is false for anything outside A-D.
func ChoiceIndex(letter string) (int, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] >= 'A'+ChoiceCount {
		return 0, false
	}
	return int(letter[0] - 'A'), true
}

// ChoiceLetter is the inverse of ChoiceIndex
func ChoiceLetter(index int) string {
	if index < 0 || index >= ChoiceCount {
		return ""
	}
	return string(rune('A' + index))
}

// CorrectChoice returns the text of the correct choice
func (q Question) CorrectChoice() string {
	idx, ok := ChoiceIndex(q.CorrectAnswer)
	if !ok || idx >= len(q.Choices) {
		return ""
	}
	return q.Choices[idx]
}

// IsCorrect reports whether the given choice text matches the correct answer
func (q Question) IsCorrect(choice string) bool {
	correct := q.CorrectChoice()
	return correct != "" && choice == correct
}

// HasChoice reports whether choice is one of the question's choice strings
func (q Question) HasChoice(choice string) bool {
	for _, c := range q.Choices {
		if c == choice {
			return true
		}
	}
	return false
}
