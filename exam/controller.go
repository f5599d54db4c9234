package exam

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nonsonwune/fe_practice/models"
)

// ResultRecorder persists submitted results
type ResultRecorder interface {
	Append(ctx context.Context, result models.ExamResult) error
}

// Sampler draws the subset for a new session
type Sampler interface {
	Sample(questions []models.Question, categories []string, n int) []models.Question
	Reshuffle(subset []models.Question) []models.Question
}

// Timing holds the timer defaults applied to new sessions
type Timing struct {
	SecondsPerQuestion int
	GracePeriodSeconds int
}

// Controller owns the active session. Views read state through Session()
// and drive it only through the controller and session methods.
type Controller struct {
	bank      []models.Question
	sampler   Sampler
	snapshots *SnapshotStore
	results   ResultRecorder
	timing    Timing

	active *Session
}

func NewController(bank []models.Question, sampler Sampler, snapshots *SnapshotStore, results ResultRecorder, timing Timing) *Controller {
	return &Controller{
		bank:      bank,
		sampler:   sampler,
		snapshots: snapshots,
		results:   results,
		timing:    timing,
	}
}

// Bank returns the loaded question bank
func (c *Controller) Bank() []models.Question {
	return c.bank
}

// Session returns the active session or nil
func (c *Controller) Session() *Session {
	return c.active
}

// Start samples a fresh subset and makes it the active session. An existing
// pause file is left alone.
func (c *Controller) Start(testType models.TestType, count int, categories []string) (*Session, error) {
	if len(c.bank) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	subset := c.sampler.Sample(c.bank, categories, count)
	s, err := NewSession(subset, Options{
		TestType:           testType,
		RequestedCount:     count,
		Categories:         categories,
		SecondsPerQuestion: c.timing.SecondsPerQuestion,
		GracePeriodSeconds: c.timing.GracePeriodSeconds,
	})
	if err != nil {
		return nil, err
	}
	c.active = s
	return s, nil
}

// Reshuffle gives the active session's subset a new random order and moves
// the cursor back to the first question
func (c *Controller) Reshuffle() error {
	if c.active == nil {
		return ErrNoSession
	}
	return c.active.reorder(c.sampler.Reshuffle(c.active.Questions()))
}

// HasPausedExam reports whether a usable pause file exists. A corrupt file
// is logged and treated as absent.
func (c *Controller) HasPausedExam() bool {
	if !c.snapshots.Exists() {
		return false
	}
	if _, err := c.snapshots.Peek(); err != nil {
		log.Printf("Ignoring paused exam %s: %v", c.snapshots.Path, err)
		return false
	}
	return true
}

// Resume makes the paused exam the active session
func (c *Controller) Resume() (*Session, error) {
	s, err := c.snapshots.Load()
	if err != nil {
		if errors.Is(err, ErrInvalidResumeState) {
			log.Printf("Cannot resume paused exam: %v", err)
		}
		return nil, err
	}
	c.active = s
	return s, nil
}

// Pause writes the active session to the pause file and releases it
func (c *Controller) Pause() error {
	if c.active == nil {
		return ErrNoSession
	}
	if err := c.snapshots.Save(c.active); err != nil {
		return err
	}
	c.active = nil
	return nil
}

// Quit discards the active session without saving anything
func (c *Controller) Quit() {
	c.active = nil
}

// Submit scores the active session, appends the result and removes the
// pause file.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	if c.active == nil {
		return Outcome{}, ErrNoSession
	}
	s := c.active
	outcome := s.Score()

	if err := c.results.Append(ctx, s.Result(outcome)); err != nil {
		return outcome, fmt.Errorf("error saving exam result: %w", err)
	}
	if err := c.snapshots.Delete(); err != nil {
		log.Printf("Warning: %v", err)
	}
	c.active = nil
	return outcome, nil
}
