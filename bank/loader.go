package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nonsonwune/fe_practice/models"
)

// MaxMediaSize is the largest media_size percentage a bank may carry
const MaxMediaSize = 500

// LoadFailure is returned when the bank file is missing, unparsable or
// contains a record that does not match the schema. Callers get an empty
// bank alongside it and must treat that as "no exam can be started".
type LoadFailure struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load question bank %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load question bank %s: %s", e.Path, e.Reason)
}

func (e *LoadFailure) Unwrap() error {
	return e.Err
}

// rawQuestion mirrors the file layout; media_size is a pointer so that a
// missing field can be told apart from an explicit value.
type rawQuestion struct {
	Number        json.RawMessage `json:"number"`
	Category      string          `json:"category"`
	Question      string          `json:"question"`
	Media         string          `json:"media"`
	MediaSize     *int            `json:"media_size"`
	Choices       []string        `json:"choices"`
	CorrectAnswer string          `json:"correct_answer"`
}

type bankFile struct {
	Problems []rawQuestion `json:"problems"`
}

// Load reads the question bank at path. On any failure it returns an empty,
// non-nil slice together with a *LoadFailure.
func Load(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		reason := "cannot read file"
		if errors.Is(err, os.ErrNotExist) {
			reason = "file not found"
		}
		return []models.Question{}, &LoadFailure{Path: path, Reason: reason, Err: err}
	}

	questions, err := Parse(data)
	if err != nil {
		var lf *LoadFailure
		if errors.As(err, &lf) {
			lf.Path = path
			return []models.Question{}, lf
		}
		return []models.Question{}, &LoadFailure{Path: path, Reason: "invalid content", Err: err}
	}
	return questions, nil
}

// Parse decodes and validates a bank document
func Parse(data []byte) ([]models.Question, error) {
	var file bankFile
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&file); err != nil {
		return nil, &LoadFailure{Reason: "invalid JSON format", Err: err}
	}
	if file.Problems == nil {
		return nil, &LoadFailure{Reason: `missing "problems" list`}
	}

	questions := make([]models.Question, 0, len(file.Problems))
	for i, raw := range file.Problems {
		q, err := raw.toQuestion()
		if err != nil {
			return nil, &LoadFailure{Reason: fmt.Sprintf("problem #%d", i+1), Err: err}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r rawQuestion) toQuestion() (models.Question, error) {
	number, err := decodeNumber(r.Number)
	if err != nil {
		return models.Question{}, err
	}
	if number == "" {
		return models.Question{}, errors.New("number is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return models.Question{}, fmt.Errorf("problem %s: category is required", number)
	}
	if len(r.Choices) != models.ChoiceCount {
		return models.Question{}, fmt.Errorf("problem %s: expected %d choices, got %d", number, models.ChoiceCount, len(r.Choices))
	}
	if _, ok := models.ChoiceIndex(r.CorrectAnswer); !ok {
		return models.Question{}, fmt.Errorf("problem %s: correct_answer %q is not one of A-D", number, r.CorrectAnswer)
	}

	size := models.DefaultMediaSize
	if r.MediaSize != nil {
		size = *r.MediaSize
	}
	if size < 1 || size > MaxMediaSize {
		return models.Question{}, fmt.Errorf("problem %s: media_size %d out of range", number, size)
	}

	choices := make([]string, len(r.Choices))
	copy(choices, r.Choices)

	return models.Question{
		Number:        number,
		Category:      strings.TrimSpace(r.Category),
		Text:          r.Question,
		Media:         strings.TrimSpace(r.Media),
		MediaSize:     size,
		Choices:       choices,
		CorrectAnswer: strings.ToUpper(strings.TrimSpace(r.CorrectAnswer)),
	}, nil
}

// decodeNumber accepts the identifier as either a JSON string or number
func decodeNumber(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("number must be a string or integer: %s", string(raw))
	}
	return n.String(), nil
}

// Categories lists the distinct categories present in questions, sorted
func Categories(questions []models.Question) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, q := range questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			categories = append(categories, q.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// CountByCategory tallies questions per category
func CountByCategory(questions []models.Question) map[string]int {
	counts := make(map[string]int)
	for _, q := range questions {
		counts[q.Category]++
	}
	return counts
}
