package exam

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nonsonwune/fe_practice/models"
)

// Snapshot captures the full session state at pausedAt
func (s *Session) Snapshot() models.Snapshot {
	pausedAt := s.now()
	snap := models.Snapshot{
		Version:            models.SnapshotVersion,
		SessionID:          s.id,
		TestType:           s.testType,
		RequestedCount:     s.requestedCount,
		Cursor:             s.cursor,
		Answers:            s.Answers(),
		Answered:           s.Answered(),
		Flagged:            s.Flagged(),
		GraceSeconds:       s.grace,
		StartedAt:          s.startedAt,
		PausedAt:           pausedAt,
		PausedSeconds:      s.pausedFor.Seconds(),
		SelectedCategories: s.Categories(),
		Questions:          s.Questions(),
	}
	if s.testType.Timed() {
		remaining := s.remaining
		snap.RemainingSeconds = &remaining
	}
	return snap
}

// Restore rebuilds a session from a snapshot. The subset, ordering, cursor,
// answers, flags and remaining time come back exactly; time between
// PausedAt and now is added to the paused total.
func Restore(snap models.Snapshot) (*Session, error) {
	return restoreAt(snap, time.Now)
}

func restoreAt(snap models.Snapshot, now func() time.Time) (*Session, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResumeState, err)
	}

	s := &Session{
		id:             snap.SessionID,
		testType:       snap.TestType,
		requestedCount: snap.RequestedCount,
		categories:     append([]string(nil), snap.SelectedCategories...),
		questions:      append([]models.Question(nil), snap.Questions...),
		cursor:         snap.Cursor,
		answers:        make(map[int]string, len(snap.Answers)),
		flagged:        make(map[int]bool, len(snap.Flagged)),
		grace:          snap.GraceSeconds,
		startedAt:      snap.StartedAt,
		pausedFor:      time.Duration(snap.PausedSeconds * float64(time.Second)),
		now:            now,
	}
	for i, a := range snap.Answers {
		s.answers[i] = a
	}
	for _, i := range snap.Flagged {
		s.flagged[i] = true
	}
	if snap.RemainingSeconds != nil {
		s.remaining = *snap.RemainingSeconds
	}
	if !snap.PausedAt.IsZero() {
		if gap := now().Sub(snap.PausedAt); gap > 0 {
			s.pausedFor += gap
		}
	}
	return s, nil
}

func validateSnapshot(snap models.Snapshot) error {
	if snap.Version != models.SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	if _, err := models.ParseTestType(string(snap.TestType)); err != nil {
		return err
	}
	n := len(snap.Questions)
	if n == 0 {
		return errors.New("snapshot has no questions")
	}
	if snap.Cursor < 0 || snap.Cursor >= n {
		return fmt.Errorf("cursor %d outside [0, %d)", snap.Cursor, n)
	}
	for i, q := range snap.Questions {
		if len(q.Choices) != models.ChoiceCount {
			return fmt.Errorf("problem %d has %d choices", i, len(q.Choices))
		}
		if _, ok := models.ChoiceIndex(q.CorrectAnswer); !ok {
			return fmt.Errorf("problem %d has invalid correct answer %q", i, q.CorrectAnswer)
		}
	}
	for i, a := range snap.Answers {
		if i < 0 || i >= n {
			return fmt.Errorf("answer for position %d outside subset", i)
		}
		if !snap.Questions[i].HasChoice(a) {
			return fmt.Errorf("answer for position %d is not a choice", i)
		}
	}
	answered := make(map[int]bool, len(snap.Answered))
	for _, i := range snap.Answered {
		if i < 0 || i >= n {
			return fmt.Errorf("answered position %d outside subset", i)
		}
		if answered[i] {
			return fmt.Errorf("answered position %d listed twice", i)
		}
		answered[i] = true
	}
	if len(answered) != len(snap.Answers) {
		return errors.New("answered set does not match answers")
	}
	for i := range snap.Answers {
		if !answered[i] {
			return errors.New("answered set does not match answers")
		}
	}
	for _, i := range snap.Flagged {
		if i < 0 || i >= n {
			return fmt.Errorf("flag for position %d outside subset", i)
		}
	}
	if snap.TestType.Timed() {
		if snap.RemainingSeconds == nil || *snap.RemainingSeconds < 0 {
			return errors.New("timed snapshot without remaining time")
		}
	}
	if snap.GraceSeconds < 0 || snap.PausedSeconds < 0 {
		return errors.New("negative timer values")
	}
	return nil
}

// SnapshotStore keeps at most one paused exam on disk
type SnapshotStore struct {
	Path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{Path: path}
}

// Exists reports whether a pause file is present. It does not validate it.
func (st *SnapshotStore) Exists() bool {
	_, err := os.Stat(st.Path)
	return err == nil
}

// Save replaces any existing pause file with s
func (st *SnapshotStore) Save(s *Session) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "    ")
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(st.Path), filepath.Base(st.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error saving paused exam: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error saving paused exam: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving paused exam: %w", err)
	}
	return os.Rename(tmp.Name(), st.Path)
}

// Peek decodes and validates the pause file without building a session
func (st *SnapshotStore) Peek() (models.Snapshot, error) {
	data, err := os.ReadFile(st.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Snapshot{}, ErrNoSnapshot
		}
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidResumeState, err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidResumeState, err)
	}
	if err := validateSnapshot(snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidResumeState, err)
	}
	return snap, nil
}

// Load restores the paused session. A missing file yields ErrNoSnapshot,
// anything unusable yields ErrInvalidResumeState.
func (st *SnapshotStore) Load() (*Session, error) {
	snap, err := st.Peek()
	if err != nil {
		return nil, err
	}
	return Restore(snap)
}

// Delete removes the pause file; a missing file is not an error
func (st *SnapshotStore) Delete() error {
	if err := os.Remove(st.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing paused exam: %w", err)
	}
	return nil
}
