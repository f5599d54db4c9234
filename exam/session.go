package exam

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nonsonwune/fe_practice/models"
)

// Unset is the explicit sentinel for "no answer selected"
const Unset = "_unset_"

// Options configures a new session
type Options struct {
	TestType           models.TestType
	RequestedCount     int
	Categories         []string
	SecondsPerQuestion int
	GracePeriodSeconds int
}

// Session is one in-progress attempt at a sampled subset. It is owned by a
// single goroutine; nothing here is safe for concurrent use.
type Session struct {
	id             string
	testType       models.TestType
	requestedCount int
	categories     []string
	questions      []models.Question

	cursor  int
	answers map[int]string
	flagged map[int]bool

	remaining int
	grace     int

	startedAt time.Time
	pausedFor time.Duration
	now       func() time.Time
}

// NewSession starts a session over subset. An empty subset is refused with
// ErrNoQuestionsAvailable.
func NewSession(subset []models.Question, opts Options) (*Session, error) {
	if len(subset) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	if opts.TestType == "" {
		opts.TestType = models.TestTypeTimed
	}

	questions := make([]models.Question, len(subset))
	copy(questions, subset)

	s := &Session{
		id:             uuid.NewString(),
		testType:       opts.TestType,
		requestedCount: opts.RequestedCount,
		categories:     append([]string(nil), opts.Categories...),
		questions:      questions,
		answers:        make(map[int]string),
		flagged:        make(map[int]bool),
		now:            time.Now,
	}
	s.startedAt = s.now()

	if s.testType.Timed() {
		perQuestion := opts.SecondsPerQuestion
		if perQuestion <= 0 {
			perQuestion = 3 * 60
		}
		s.remaining = perQuestion * len(questions)
		s.grace = opts.GracePeriodSeconds
	}
	return s, nil
}

func (s *Session) ID() string                { return s.id }
func (s *Session) TestType() models.TestType { return s.testType }
func (s *Session) RequestedCount() int       { return s.requestedCount }
func (s *Session) Total() int                { return len(s.questions) }
func (s *Session) Cursor() int               { return s.cursor }
func (s *Session) StartedAt() time.Time      { return s.startedAt }

func (s *Session) Categories() []string {
	return append([]string(nil), s.categories...)
}

// Questions returns a copy of the sampled subset in session order
func (s *Session) Questions() []models.Question {
	out := make([]models.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Current returns the question under the cursor
func (s *Session) Current() models.Question {
	return s.questions[s.cursor]
}

// reorder swaps in a permutation of the subset. Answers and flags are keyed by
// position, so it is refused once either exists.
func (s *Session) reorder(questions []models.Question) error {
	if len(s.answers) > 0 || len(s.flagged) > 0 {
		return ErrReshuffleStarted
	}
	if len(questions) != len(s.questions) {
		return fmt.Errorf("reshuffle changed subset size from %d to %d", len(s.questions), len(questions))
	}
	s.questions = questions
	s.cursor = 0
	return nil
}

func (s *Session) AtFirst() bool { return s.cursor == 0 }
func (s *Session) AtLast() bool  { return s.cursor == len(s.questions)-1 }

// Next advances the cursor. At the last index it does nothing and returns
// false; the caller decides whether that means "submit".
func (s *Session) Next() bool {
	if s.AtLast() {
		return false
	}
	s.cursor++
	return true
}

// Previous moves the cursor back, doing nothing at index 0
func (s *Session) Previous() bool {
	if s.AtFirst() {
		return false
	}
	s.cursor--
	return true
}

// Jump moves the cursor to index i if 0 <= i < Total()
func (s *Session) Jump(i int) bool {
	if i < 0 || i >= len(s.questions) {
		return false
	}
	s.cursor = i
	return true
}

// Answer records choice for the current position, overwriting any earlier
// answer. Passing Unset clears the position.
func (s *Session) Answer(choice string) error {
	if choice == Unset {
		delete(s.answers, s.cursor)
		return nil
	}
	if !s.Current().HasChoice(choice) {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	s.answers[s.cursor] = choice
	return nil
}

// SelectLetter answers the current question by choice letter (A-D)
func (s *Session) SelectLetter(letter string) error {
	idx, ok := models.ChoiceIndex(letter)
	if !ok || idx >= len(s.Current().Choices) {
		return fmt.Errorf("%w: letter %q", ErrInvalidChoice, letter)
	}
	return s.Answer(s.Current().Choices[idx])
}

// AnswerAt returns the recorded answer for position i
func (s *Session) AnswerAt(i int) (string, bool) {
	a, ok := s.answers[i]
	return a, ok
}

// Answers returns a copy of the position -> choice map
func (s *Session) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Answered lists answered positions in order. It is derived from the answer
// map, so the two can never disagree.
func (s *Session) Answered() []int {
	return sortedKeys(s.answers)
}

func (s *Session) IsAnswered(i int) bool {
	_, ok := s.answers[i]
	return ok
}

// Unanswered lists positions with no recorded answer
func (s *Session) Unanswered() []int {
	var out []int
	for i := range s.questions {
		if _, ok := s.answers[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// ToggleFlag flips the review flag on the current position and returns the new state
func (s *Session) ToggleFlag() bool {
	if s.flagged[s.cursor] {
		delete(s.flagged, s.cursor)
		return false
	}
	s.flagged[s.cursor] = true
	return true
}

func (s *Session) IsFlagged(i int) bool {
	return s.flagged[i]
}

func (s *Session) Flagged() []int {
	return sortedKeys(s.flagged)
}

// InGracePeriod reports whether the countdown has not started yet
func (s *Session) InGracePeriod() bool {
	return s.testType.Timed() && s.grace > 0
}

func (s *Session) GraceRemaining() int { return s.grace }

// Remaining is the countdown in seconds; always 0 for non-timed sessions
func (s *Session) Remaining() int { return s.remaining }

// Expired reports whether a timed session ran out of time
func (s *Session) Expired() bool {
	return s.testType.Timed() && s.grace == 0 && s.remaining == 0
}

// Tick advances the cooperative clock by one second. The grace period is
// consumed first. It returns true when the session has just expired.
func (s *Session) Tick() bool {
	if !s.testType.Timed() || s.Expired() {
		return false
	}
	if s.grace > 0 {
		s.grace--
		return false
	}
	s.remaining--
	return s.remaining == 0
}

// Elapsed is wall time since start, excluding time spent paused
func (s *Session) Elapsed() time.Duration {
	d := s.now().Sub(s.startedAt) - s.pausedFor
	if d < 0 {
		return 0
	}
	return d
}

// CompletionCheck summarizes what is still open before submission
type CompletionCheck struct {
	Unanswered []int
	Flagged    []int
}

func (c CompletionCheck) Clean() bool {
	return len(c.Unanswered) == 0 && len(c.Flagged) == 0
}

// Messages renders the check the way the submission prompt shows it
func (c CompletionCheck) Messages() []string {
	var msgs []string
	switch n := len(c.Unanswered); {
	case n == 1:
		msgs = append(msgs, "You have one unanswered question")
	case n > 1:
		msgs = append(msgs, fmt.Sprintf("You have %d unanswered questions", n))
	}
	switch n := len(c.Flagged); {
	case n == 1:
		msgs = append(msgs, "You have one flagged question")
	case n > 1:
		msgs = append(msgs, fmt.Sprintf("You have %d flagged questions", n))
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "All questions have been answered and none are flagged.")
	}
	return msgs
}

// CheckCompletion returns 1-based positions of unanswered and flagged questions
func (s *Session) CheckCompletion() CompletionCheck {
	return CompletionCheck{
		Unanswered: oneBased(s.Unanswered()),
		Flagged:    oneBased(s.Flagged()),
	}
}

// ReviewItem describes one position after scoring
type ReviewItem struct {
	Index    int
	Question models.Question
	Chosen   string
	Answered bool
	Correct  bool
	Flagged  bool
}

// Outcome is the score of a finished session
type Outcome struct {
	Correct    int
	Total      int
	Percentage float64
	TimeTaken  time.Duration
	Flagged    int
	Review     []ReviewItem
}

// Missed returns the review items that were wrong or unanswered
func (o Outcome) Missed() []ReviewItem {
	var out []ReviewItem
	for _, item := range o.Review {
		if !item.Correct {
			out = append(out, item)
		}
	}
	return out
}

// Score compares each recorded answer with the choice at the correct
// letter's index. Unanswered positions count as wrong.
func (s *Session) Score() Outcome {
	out := Outcome{
		Total:     len(s.questions),
		TimeTaken: s.Elapsed(),
		Flagged:   len(s.flagged),
		Review:    make([]ReviewItem, 0, len(s.questions)),
	}
	for i, q := range s.questions {
		chosen, answered := s.answers[i]
		correct := answered && q.IsCorrect(chosen)
		if correct {
			out.Correct++
		}
		out.Review = append(out.Review, ReviewItem{
			Index:    i,
			Question: q,
			Chosen:   chosen,
			Answered: answered,
			Correct:  correct,
			Flagged:  s.flagged[i],
		})
	}
	out.Percentage = float64(out.Correct) / float64(out.Total) * 100
	return out
}

// Result converts an outcome into the persisted record
func (s *Session) Result(o Outcome) models.ExamResult {
	return models.ExamResult{
		ID:           uuid.NewString(),
		Date:         s.now().Format(models.ResultDateLayout),
		NumQuestions: o.Total,
		Score:        o.Percentage,
		TimeTaken:    o.TimeTaken.Seconds(),
		TestType:     s.testType,
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func oneBased(positions []int) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		out[i] = p + 1
	}
	return out
}
