package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nonsonwune/fe_practice/exam"
	"github.com/nonsonwune/fe_practice/media"
	"github.com/nonsonwune/fe_practice/models"
)

type commandKind int

const (
	cmdRefresh commandKind = iota
	cmdNext
	cmdPrev
	cmdSelect
	cmdUnset
	cmdFlag
	cmdJump
	cmdGrid
	cmdSubmit
	cmdPause
	cmdQuit
	cmdHelp
	cmdReshuffle
)

type command struct {
	kind   commandKind
	letter string
	target int // 1-based, cmdJump only
}

var errUnknownCommand = errors.New("unknown command")

func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{kind: cmdRefresh}, nil
	}

	switch fields[0] {
	case "n", "next":
		return command{kind: cmdNext}, nil
	case "p", "prev":
		return command{kind: cmdPrev}, nil
	case "a", "b", "c", "d":
		return command{kind: cmdSelect, letter: strings.ToUpper(fields[0])}, nil
	case "1", "2", "3", "4":
		i, _ := strconv.Atoi(fields[0])
		return command{kind: cmdSelect, letter: models.ChoiceLetter(i - 1)}, nil
	case "u", "unset":
		return command{kind: cmdUnset}, nil
	case "f", "flag":
		return command{kind: cmdFlag}, nil
	case "j", "jump":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("usage: j <question number>")
		}
		k, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{}, fmt.Errorf("invalid question number %q", fields[1])
		}
		return command{kind: cmdJump, target: k}, nil
	case "g", "grid":
		return command{kind: cmdGrid}, nil
	case "s", "submit":
		return command{kind: cmdSubmit}, nil
	case "w", "pause":
		return command{kind: cmdPause}, nil
	case "q", "quit":
		return command{kind: cmdQuit}, nil
	case "r", "reshuffle":
		return command{kind: cmdReshuffle}, nil
	case "h", "help", "?":
		return command{kind: cmdHelp}, nil
	}
	return command{}, fmt.Errorf("%w %q (h for help)", errUnknownCommand, fields[0])
}

type runEnd int

const (
	endSubmitted runEnd = iota
	endExpired
	endPaused
	endQuit
)

var (
	alertColor = color.New(color.FgRed)
	warnColor  = color.New(color.FgYellow)
	infoColor  = color.New(color.FgCyan)
	okColor    = color.New(color.FgGreen)
)

// timer warnings, in seconds remaining
var warnAt = map[int]bool{300: true, 60: true, 10: true}

// runner drives the active session. Every mutation happens on the goroutine
// calling run; input lines and clock ticks arrive over channels.
type runner struct {
	ctl   *exam.Controller
	media *media.Resolver
	lines <-chan string
	ticks <-chan time.Time
	out   io.Writer

	pending commandKind // cmdSubmit or cmdQuit awaiting y/n, else cmdRefresh
}

func newRunner(ctl *exam.Controller, resolver *media.Resolver, lines <-chan string, ticks <-chan time.Time, out io.Writer) *runner {
	return &runner{ctl: ctl, media: resolver, lines: lines, ticks: ticks, out: out}
}

func (r *runner) run(ctx context.Context) (runEnd, exam.Outcome, error) {
	s := r.ctl.Session()
	if s == nil {
		return endQuit, exam.Outcome{}, exam.ErrNoSession
	}
	if s.Expired() {
		alertColor.Fprintln(r.out, "This exam has no time left. Submitting it now.")
		return r.submit(ctx, endExpired)
	}
	r.render(s)

	for {
		select {
		case <-ctx.Done():
			if err := r.ctl.Pause(); err != nil {
				return endQuit, exam.Outcome{}, err
			}
			return endPaused, exam.Outcome{}, ctx.Err()

		case <-r.ticks:
			if !s.TestType().Timed() {
				continue
			}
			wasGrace := s.InGracePeriod()
			if s.Tick() {
				alertColor.Fprintln(r.out, "\nTime is up! Submitting your exam.")
				end, outcome, err := r.submit(ctx, endExpired)
				if err != nil {
					if perr := r.ctl.Pause(); perr == nil {
						return endPaused, outcome, err
					}
				}
				return end, outcome, err
			}
			if wasGrace && !s.InGracePeriod() {
				infoColor.Fprintf(r.out, "\nTimer started: %s remaining\n", formatClock(s.Remaining()))
			} else if warnAt[s.Remaining()] && !s.InGracePeriod() {
				warnColor.Fprintf(r.out, "\n%s remaining\n", formatClock(s.Remaining()))
			}

		case line, ok := <-r.lines:
			if !ok {
				if err := r.ctl.Pause(); err != nil {
					return endQuit, exam.Outcome{}, err
				}
				return endPaused, exam.Outcome{}, nil
			}
			if end, outcome, done, err := r.handle(ctx, s, line); done {
				return end, outcome, err
			}
		}
	}
}

// handle applies one input line; done reports that the session ended
func (r *runner) handle(ctx context.Context, s *exam.Session, line string) (runEnd, exam.Outcome, bool, error) {
	if r.pending != cmdRefresh {
		action := r.pending
		r.pending = cmdRefresh
		if !strings.EqualFold(strings.TrimSpace(line), "y") {
			r.render(s)
			return 0, exam.Outcome{}, false, nil
		}
		if action == cmdQuit {
			r.ctl.Quit()
			return endQuit, exam.Outcome{}, true, nil
		}
		end, outcome, err := r.submit(ctx, endSubmitted)
		return end, outcome, err == nil, nil
	}

	cmd, err := parseCommand(line)
	if err != nil {
		alertColor.Fprintln(r.out, err)
		return 0, exam.Outcome{}, false, nil
	}

	switch cmd.kind {
	case cmdRefresh:
	case cmdNext:
		if !s.Next() {
			infoColor.Fprintln(r.out, "That was the last question.")
			return r.checkAndSubmit(ctx, s)
		}
	case cmdPrev:
		if !s.Previous() {
			warnColor.Fprintln(r.out, "Already at the first question.")
			return 0, exam.Outcome{}, false, nil
		}
	case cmdSelect:
		if err := s.SelectLetter(cmd.letter); err != nil {
			alertColor.Fprintln(r.out, err)
			return 0, exam.Outcome{}, false, nil
		}
	case cmdUnset:
		_ = s.Answer(exam.Unset)
	case cmdFlag:
		if s.ToggleFlag() {
			okColor.Fprintln(r.out, "Question flagged for review.")
		} else {
			okColor.Fprintln(r.out, "Flag removed.")
		}
	case cmdJump:
		if !s.Jump(cmd.target - 1) {
			alertColor.Fprintf(r.out, "Question number must be between 1 and %d\n", s.Total())
			return 0, exam.Outcome{}, false, nil
		}
	case cmdGrid:
		r.renderGrid(s)
		return 0, exam.Outcome{}, false, nil
	case cmdHelp:
		r.renderHelp()
		return 0, exam.Outcome{}, false, nil
	case cmdSubmit:
		return r.checkAndSubmit(ctx, s)
	case cmdReshuffle:
		if err := r.ctl.Reshuffle(); err != nil {
			alertColor.Fprintln(r.out, err)
			return 0, exam.Outcome{}, false, nil
		}
		okColor.Fprintln(r.out, "Questions reshuffled.")
	case cmdPause:
		if err := r.ctl.Pause(); err != nil {
			alertColor.Fprintf(r.out, "Could not save the exam: %v\n", err)
			return 0, exam.Outcome{}, false, nil
		}
		return endPaused, exam.Outcome{}, true, nil
	case cmdQuit:
		r.pending = cmdQuit
		fmt.Fprint(r.out, "Discard this exam without saving? (y/n): ")
		return 0, exam.Outcome{}, false, nil
	}

	r.render(s)
	return 0, exam.Outcome{}, false, nil
}

// checkAndSubmit shows the completion check, then submits a clean session
// or asks for confirmation
func (r *runner) checkAndSubmit(ctx context.Context, s *exam.Session) (runEnd, exam.Outcome, bool, error) {
	check := s.CheckCompletion()
	for _, msg := range check.Messages() {
		warnColor.Fprintln(r.out, msg)
	}
	if check.Clean() {
		end, outcome, err := r.submit(ctx, endSubmitted)
		return end, outcome, err == nil, nil
	}
	r.pending = cmdSubmit
	fmt.Fprint(r.out, "Submit anyway? (y/n): ")
	return 0, exam.Outcome{}, false, nil
}

// submit keeps the session alive when the result cannot be stored
func (r *runner) submit(ctx context.Context, end runEnd) (runEnd, exam.Outcome, error) {
	outcome, err := r.ctl.Submit(ctx)
	if err != nil {
		alertColor.Fprintf(r.out, "%v\n", err)
		return end, outcome, err
	}
	return end, outcome, nil
}

func (r *runner) render(s *exam.Session) {
	q := s.Current()
	i := s.Cursor()

	infoColor.Fprintf(r.out, "\n=== Question %d of %d ===", i+1, s.Total())
	fmt.Fprintf(r.out, "  [%s] #%s", q.Category, q.Number)
	if s.IsFlagged(i) {
		warnColor.Fprint(r.out, "  (flagged)")
	}
	fmt.Fprintln(r.out)

	if s.TestType().Timed() {
		if s.InGracePeriod() {
			fmt.Fprintf(r.out, "Timer starts in %ds (%s)\n", s.GraceRemaining(), formatClock(s.Remaining()))
		} else {
			fmt.Fprintf(r.out, "Time remaining: %s\n", formatClock(s.Remaining()))
		}
	}

	fmt.Fprintf(r.out, "\n%s\n", q.Text)
	if q.Media != "" {
		if path, err := r.media.Resolve(q.Media); err == nil {
			fmt.Fprintf(r.out, "[Figure: %s at %.0f%%]\n", path, media.Scale(q.MediaSize)*100)
		} else {
			alertColor.Fprintln(r.out, media.Placeholder(q.Media))
		}
	}
	fmt.Fprintln(r.out)

	chosen, _ := s.AnswerAt(i)
	for j, c := range q.Choices {
		marker := " "
		if c == chosen {
			marker = "*"
		}
		fmt.Fprintf(r.out, " %s %s) %s\n", marker, models.ChoiceLetter(j), c)
	}
	fmt.Fprintf(r.out, "\nAnswered %d/%d. Command (h for help): ", len(s.Answered()), s.Total())
}

func (r *runner) renderGrid(s *exam.Session) {
	const perRow = 10
	table := tablewriter.NewWriter(r.out)
	table.SetAutoFormatHeaders(false)

	row := make([]string, 0, perRow)
	for i := 0; i < s.Total(); i++ {
		cell := strconv.Itoa(i + 1)
		if s.IsAnswered(i) {
			cell += "*"
		}
		if s.IsFlagged(i) {
			cell += "!"
		}
		if i == s.Cursor() {
			cell = "[" + cell + "]"
		}
		row = append(row, cell)
		if len(row) == perRow {
			table.Append(row)
			row = make([]string, 0, perRow)
		}
	}
	if len(row) > 0 {
		for len(row) < perRow && s.Total() > perRow {
			row = append(row, "")
		}
		table.Append(row)
	}
	table.Render()
	fmt.Fprintln(r.out, "* answered  ! flagged  [ ] current. Use j <number> to jump.")
}

func (r *runner) renderHelp() {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Command", "Action"})
	table.AppendBulk([][]string{
		{"n / p", "next / previous question"},
		{"a-d or 1-4", "select an answer"},
		{"u", "clear the answer"},
		{"f", "flag or unflag for review"},
		{"j <k>", "jump to question k"},
		{"g", "show the question grid"},
		{"r", "reshuffle (before answering)"},
		{"s", "submit the exam"},
		{"w", "pause and save"},
		{"q", "quit without saving"},
	})
	table.Render()
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
