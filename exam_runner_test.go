package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/fe_practice/bank"
	"github.com/nonsonwune/fe_practice/exam"
	"github.com/nonsonwune/fe_practice/media"
	"github.com/nonsonwune/fe_practice/models"
)

type memoryRecorder struct {
	results []models.ExamResult
	err     error
}

func (m *memoryRecorder) Append(_ context.Context, result models.ExamResult) error {
	if m.err != nil {
		return m.err
	}
	m.results = append(m.results, result)
	return nil
}

func runnerBank(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			Number:        fmt.Sprintf("%d", i+1),
			Category:      "Statics",
			Text:          fmt.Sprintf("Question %d", i+1),
			Media:         "missing.png",
			Choices:       []string{"w", "x", "y", "z"},
			CorrectAnswer: "B",
			MediaSize:     models.DefaultMediaSize,
		}
	}
	return questions
}

type runnerFixture struct {
	ctl       *exam.Controller
	recorder  *memoryRecorder
	snapshots *exam.SnapshotStore
	mediaDir  string
	out       *bytes.Buffer
}

func newRunnerFixture(t *testing.T, testType models.TestType, n int, timing exam.Timing) *runnerFixture {
	t.Helper()
	f := &runnerFixture{
		recorder:  &memoryRecorder{},
		snapshots: exam.NewSnapshotStore(filepath.Join(t.TempDir(), "paused_exam.json")),
		mediaDir:  t.TempDir(),
		out:       &bytes.Buffer{},
	}
	f.ctl = exam.NewController(runnerBank(n), bank.NewSeededSampler(3), f.snapshots, f.recorder, timing)
	_, err := f.ctl.Start(testType, n, nil)
	require.NoError(t, err)
	return f
}

func (f *runnerFixture) newRunner(lines <-chan string, ticks <-chan time.Time) *runner {
	return newRunner(f.ctl, media.NewResolver(f.mediaDir), lines, ticks, f.out)
}

func feed(lines ...string) <-chan string {
	ch := make(chan string, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return ch
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"", command{kind: cmdRefresh}},
		{"n", command{kind: cmdNext}},
		{"next", command{kind: cmdNext}},
		{"P", command{kind: cmdPrev}},
		{"c", command{kind: cmdSelect, letter: "C"}},
		{"1", command{kind: cmdSelect, letter: "A"}},
		{"4", command{kind: cmdSelect, letter: "D"}},
		{"u", command{kind: cmdUnset}},
		{"f", command{kind: cmdFlag}},
		{"j 12", command{kind: cmdJump, target: 12}},
		{"g", command{kind: cmdGrid}},
		{"s", command{kind: cmdSubmit}},
		{"w", command{kind: cmdPause}},
		{"q", command{kind: cmdQuit}},
		{"?", command{kind: cmdHelp}},
		{"r", command{kind: cmdReshuffle}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	_, err := parseCommand("e")
	assert.True(t, errors.Is(err, errUnknownCommand))

	_, err = parseCommand("j")
	assert.Error(t, err)

	_, err = parseCommand("j x")
	assert.Error(t, err)
}

func TestRunnerSubmitsCleanExam(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 2, exam.Timing{})
	r := f.newRunner(feed("b", "n", "a", "s"), nil)

	end, outcome, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endSubmitted, end)
	assert.Equal(t, 1, outcome.Correct)
	assert.Equal(t, 50.0, outcome.Percentage)
	require.Len(t, f.recorder.results, 1)
	assert.Equal(t, models.TestTypeNonTimed, f.recorder.results[0].TestType)
	assert.Nil(t, f.ctl.Session())
	assert.Contains(t, f.out.String(), "[Media file not found: missing.png]")
}

func TestRunnerSubmitNeedsConfirmationWhenIncomplete(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 3, exam.Timing{})
	r := f.newRunner(feed("b", "f", "s", "n", "s", "y"), nil)

	end, outcome, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endSubmitted, end)
	assert.Equal(t, 1, outcome.Flagged)
	assert.Contains(t, f.out.String(), "You have 2 unanswered questions")
	assert.Contains(t, f.out.String(), "You have one flagged question")
	assert.Len(t, f.recorder.results, 1)
}

func TestRunnerPauseWritesSnapshot(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeTimed, 3, exam.Timing{SecondsPerQuestion: 60, GracePeriodSeconds: 5})
	r := f.newRunner(feed("j 3", "c", "w"), nil)

	end, _, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endPaused, end)
	assert.Nil(t, f.ctl.Session())

	snap, err := f.snapshots.Peek()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Cursor)
	assert.Equal(t, []int{2}, snap.Answered)
	assert.Empty(t, f.recorder.results)
}

func TestRunnerQuitDiscards(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 2, exam.Timing{})
	r := f.newRunner(feed("a", "q", "y"), nil)

	end, _, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endQuit, end)
	assert.False(t, f.snapshots.Exists())
	assert.Empty(t, f.recorder.results)
}

func TestRunnerEndOfInputPauses(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 2, exam.Timing{})
	r := f.newRunner(feed("a", "q", "n"), nil)

	end, _, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endPaused, end)
	assert.True(t, f.snapshots.Exists())
}

func TestRunnerInvalidInputKeepsState(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 2, exam.Timing{})
	r := f.newRunner(feed("zz", "p", "j 9", "s", "n"), nil)

	end, _, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endPaused, end)
	out := f.out.String()
	assert.Contains(t, out, "unknown command")
	assert.Contains(t, out, "Already at the first question.")
	assert.Contains(t, out, "Question number must be between 1 and 2")
}

func TestRunnerExpiryAutoSubmits(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeTimed, 1, exam.Timing{SecondsPerQuestion: 2, GracePeriodSeconds: 1})
	ticks := make(chan time.Time, 3)
	for i := 0; i < 3; i++ {
		ticks <- time.Time{}
	}
	r := f.newRunner(make(chan string), ticks)

	end, outcome, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endExpired, end)
	assert.Equal(t, 0, outcome.Correct)
	require.Len(t, f.recorder.results, 1)
	assert.Equal(t, models.TestTypeTimed, f.recorder.results[0].TestType)
	assert.Contains(t, f.out.String(), "Time is up!")
}

func TestRunnerSubmitFailureKeepsSession(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 1, exam.Timing{})
	f.recorder.err = errors.New("disk full")
	r := f.newRunner(feed("a", "s"), nil)

	end, _, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endPaused, end)
	assert.Contains(t, f.out.String(), "disk full")
	assert.True(t, f.snapshots.Exists())
}

func TestRunnerNextAtLastQuestionSubmits(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 2, exam.Timing{})
	r := f.newRunner(feed("b", "n", "b", "n"), nil)

	end, outcome, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endSubmitted, end)
	assert.Equal(t, 2, outcome.Correct)
	assert.Len(t, f.recorder.results, 1)
}

func TestRunnerNextAtLastQuestionAsksWhenIncomplete(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 2, exam.Timing{})
	r := f.newRunner(feed("n", "n", "y"), nil)

	end, outcome, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endSubmitted, end)
	assert.Equal(t, 0, outcome.Correct)
	assert.Contains(t, f.out.String(), "You have 2 unanswered questions")
	assert.Contains(t, f.out.String(), "Submit anyway?")
}

func TestRunnerReshuffle(t *testing.T) {
	f := newRunnerFixture(t, models.TestTypeNonTimed, 3, exam.Timing{})
	r := f.newRunner(feed("j 2", "r", "a", "r"), nil)

	end, _, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endPaused, end)
	out := f.out.String()
	assert.Contains(t, out, "Questions reshuffled.")
	assert.Contains(t, out, exam.ErrReshuffleStarted.Error())

	snap, err := f.snapshots.Peek()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, []int{0}, snap.Answered)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "03:00", formatClock(180))
	assert.Equal(t, "00:05", formatClock(5))
	assert.Equal(t, "90:00", formatClock(5400))
}
