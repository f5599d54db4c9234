package bank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/fe_practice/models"
)

func writeBank(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problems_database.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func sampleBank() []models.Question {
	var questions []models.Question
	for i := 0; i < 10; i++ {
		category := "Math"
		if i >= 6 {
			category = "Ethics"
		}
		questions = append(questions, models.Question{
			Number:        fmt.Sprintf("%d", i+1),
			Category:      category,
			Text:          fmt.Sprintf("Question %d", i+1),
			MediaSize:     models.DefaultMediaSize,
			Choices:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "A",
		})
	}
	return questions
}

func TestLoad(t *testing.T) {
	path := writeBank(t, `{"problems": [
		{"number": "1", "category": "Math", "question": "2+2?", "media": "", "choices": ["3","4","5","6"], "correct_answer": "b"},
		{"number": 2, "category": "Ethics", "question": "Duty?", "media": "fig_1.png", "choices": ["w","x","y","z"], "correct_answer": "D", "media_size": 40}
	]}`)

	questions, err := Load(path)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "1", questions[0].Number)
	assert.Equal(t, "B", questions[0].CorrectAnswer)
	assert.Equal(t, models.DefaultMediaSize, questions[0].MediaSize)
	assert.Equal(t, "4", questions[0].CorrectChoice())

	assert.Equal(t, "2", questions[1].Number)
	assert.Equal(t, 40, questions[1].MediaSize)
	assert.Equal(t, "fig_1.png", questions[1].Media)
}

func TestLoadFailures(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"problems": [`},
		{"missing problems", `{"questions": []}`},
		{"three choices", `{"problems": [{"number": "1", "category": "Math", "choices": ["a","b","c"], "correct_answer": "A"}]}`},
		{"bad letter", `{"problems": [{"number": "1", "category": "Math", "choices": ["a","b","c","d"], "correct_answer": "E"}]}`},
		{"no category", `{"problems": [{"number": "1", "choices": ["a","b","c","d"], "correct_answer": "A"}]}`},
		{"no number", `{"problems": [{"category": "Math", "choices": ["a","b","c","d"], "correct_answer": "A"}]}`},
		{"zero media size", `{"problems": [{"number": "1", "category": "Math", "choices": ["a","b","c","d"], "correct_answer": "A", "media_size": 0}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			questions, err := Load(writeBank(t, tc.body))
			require.Error(t, err)
			assert.NotNil(t, questions)
			assert.Empty(t, questions)

			var lf *LoadFailure
			assert.True(t, errors.As(err, &lf))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	questions, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Empty(t, questions)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var lf *LoadFailure
	require.True(t, errors.As(err, &lf))
	assert.Equal(t, "file not found", lf.Reason)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	original := sampleBank()
	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestCategories(t *testing.T) {
	questions := sampleBank()
	assert.Equal(t, []string{"Ethics", "Math"}, Categories(questions))
	assert.Equal(t, map[string]int{"Math": 6, "Ethics": 4}, CountByCategory(questions))
}

func TestSampleByCategory(t *testing.T) {
	questions := sampleBank()
	sampler := NewSeededSampler(7)

	testCases := []struct {
		categories []string
		n          int
		want       int
	}{
		{[]string{"Math"}, 8, 6},
		{[]string{"Math"}, 3, 3},
		{[]string{"Ethics"}, 10, 4},
		{[]string{"Math", "Ethics"}, 50, 10},
		{nil, 5, 5},
		{[]string{}, 20, 10},
		{[]string{"Fluids"}, 5, 0},
		{[]string{"Math"}, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v/%d", tc.categories, tc.n), func(t *testing.T) {
			subset := sampler.Sample(questions, tc.categories, tc.n)
			assert.Len(t, subset, tc.want)

			allowed := make(map[string]bool)
			for _, c := range tc.categories {
				allowed[c] = true
			}
			seen := make(map[string]bool)
			for _, q := range subset {
				if len(tc.categories) > 0 {
					assert.True(t, allowed[q.Category], "unexpected category %s", q.Category)
				}
				assert.False(t, seen[q.Number], "question %s sampled twice", q.Number)
				seen[q.Number] = true
			}
		})
	}
}

func TestSampleDoesNotMutateBank(t *testing.T) {
	questions := sampleBank()
	before := make([]models.Question, len(questions))
	copy(before, questions)

	NewSeededSampler(1).Sample(questions, nil, 10)
	assert.Equal(t, before, questions)
}

func TestSampleOrderIsRandom(t *testing.T) {
	questions := sampleBank()
	sampler := NewSeededSampler(42)

	orders := make(map[string]bool)
	for i := 0; i < 20; i++ {
		key := ""
		for _, q := range sampler.Sample(questions, nil, 10) {
			key += q.Number + ","
		}
		orders[key] = true
	}
	assert.Greater(t, len(orders), 1)
}

func TestReshuffleKeepsMembers(t *testing.T) {
	sampler := NewSeededSampler(3)
	subset := sampler.Sample(sampleBank(), []string{"Math"}, 4)
	shuffled := sampler.Reshuffle(subset)
	assert.ElementsMatch(t, subset, shuffled)
}
