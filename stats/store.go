package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nonsonwune/fe_practice/models"
)

// Store is an append-only log of exam results
type Store interface {
	Append(ctx context.Context, result models.ExamResult) error
	List(ctx context.Context) ([]models.ExamResult, error)
	Clear(ctx context.Context) error
}

// FileStore keeps results in a single JSON file that is rewritten in full
// on every change.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// List returns results oldest first; a missing file is an empty list
func (fs *FileStore) List(_ context.Context) ([]models.ExamResult, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.ExamResult{}, nil
		}
		return nil, fmt.Errorf("error reading results: %w", err)
	}

	var file models.ResultsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing results file %s: %w", fs.Path, err)
	}
	if file.Results == nil {
		file.Results = []models.ExamResult{}
	}
	return file.Results, nil
}

func (fs *FileStore) Append(ctx context.Context, result models.ExamResult) error {
	results, err := fs.List(ctx)
	if err != nil {
		return err
	}
	return fs.write(append(results, result))
}

func (fs *FileStore) Clear(_ context.Context) error {
	return fs.write([]models.ExamResult{})
}

func (fs *FileStore) write(results []models.ExamResult) error {
	data, err := json.MarshalIndent(models.ResultsFile{Results: results}, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshaling results: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.Path), filepath.Base(fs.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	return os.Rename(tmp.Name(), fs.Path)
}
