package models

import "time"

// SnapshotVersion is bumped whenever the pause file layout changes
const SnapshotVersion = 1

// Snapshot is a self-contained copy of a paused session. The sampled subset
// is embedded so resuming never re-samples.
type Snapshot struct {
	Version            int            `json:"version"`
	SessionID          string         `json:"session_id"`
	TestType           TestType       `json:"test_type"`
	RequestedCount     int            `json:"num_questions"`
	Cursor             int            `json:"current_index"`
	Answers            map[int]string `json:"user_answers"`
	Answered           []int          `json:"answered_questions"`
	Flagged            []int          `json:"flagged_questions"`
	RemainingSeconds   *int           `json:"remaining_time,omitempty"`
	GraceSeconds       int            `json:"grace_period,omitempty"`
	StartedAt          time.Time      `json:"start_time"`
	PausedAt           time.Time      `json:"paused_at"`
	PausedSeconds      float64        `json:"paused_seconds"`
	SelectedCategories []string       `json:"selected_categories"`
	Questions          []Question     `json:"problems"`
}
