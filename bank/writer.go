package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nonsonwune/fe_practice/models"
)

type savedQuestion struct {
	Number        string   `json:"number"`
	Category      string   `json:"category"`
	Question      string   `json:"question"`
	Media         string   `json:"media"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer"`
	MediaSize     int      `json:"media_size"`
}

// Save writes questions in the bank file layout, replacing the file
func Save(path string, questions []models.Question) error {
	out := struct {
		Problems []savedQuestion `json:"problems"`
	}{Problems: make([]savedQuestion, 0, len(questions))}

	for _, q := range questions {
		size := q.MediaSize
		if size == 0 {
			size = models.DefaultMediaSize
		}
		out.Problems = append(out.Problems, savedQuestion{
			Number:        q.Number,
			Category:      q.Category,
			Question:      q.Text,
			Media:         q.Media,
			Choices:       q.Choices,
			CorrectAnswer: q.CorrectAnswer,
			MediaSize:     size,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling question bank: %w", err)
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
