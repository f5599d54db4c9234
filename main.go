package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/nonsonwune/fe_practice/bank"
	"github.com/nonsonwune/fe_practice/config"
	"github.com/nonsonwune/fe_practice/exam"
	"github.com/nonsonwune/fe_practice/media"
	"github.com/nonsonwune/fe_practice/stats"
	"github.com/nonsonwune/fe_practice/tutor"
)

type app struct {
	cfg     *config.Config
	ctl     *exam.Controller
	store   stats.Store
	media   *media.Resolver
	tutor   tutor.Explainer
	console *console
	out     io.Writer
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	questions, err := bank.Load(cfg.BankPath)
	if err != nil {
		var lf *bank.LoadFailure
		if errors.As(err, &lf) {
			color.Red("Could not load question bank: %v", lf)
		} else {
			log.Printf("Error loading question bank: %v", err)
		}
	}

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	a := &app{
		cfg:     cfg,
		store:   store,
		media:   media.NewResolver(cfg.MediaDir),
		console: newConsole(os.Stdin),
		out:     os.Stdout,
	}
	a.ctl = exam.NewController(questions, bank.NewSampler(), exam.NewSnapshotStore(cfg.PausePath), store, exam.Timing{
		SecondsPerQuestion: cfg.SecondsPerQuestion,
		GracePeriodSeconds: cfg.GracePeriodSeconds,
	})

	if gt, err := tutor.NewGeminiTutor(tutor.NewKeyManager(tutor.KeysFromEnv()...), cfg.GeminiModel); err == nil {
		a.tutor = gt
		defer gt.Close()
	} else {
		log.Printf("Tutor explanations unavailable: %v", err)
	}

	a.run(ctx)
}

// openStore returns the configured results store, falling back to the JSON
// file when Postgres is unreachable.
func openStore(ctx context.Context, cfg *config.Config) (stats.Store, func()) {
	fileStore := stats.NewFileStore(cfg.ResultsPath)
	if cfg.ResultsBackend != config.BackendPostgres {
		return fileStore, func() {}
	}
	ps, err := stats.OpenPostgres(ctx, cfg.PostgresDSN())
	if err != nil {
		color.Yellow("Postgres unavailable (%v); using %s", err, cfg.ResultsPath)
		return fileStore, func() {}
	}
	return ps, func() {
		if err := ps.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

func (a *app) run(ctx context.Context) {
	for {
		canResume := a.ctl.HasPausedExam()
		a.displayMenu(canResume)
		choice, ok := a.readChoice()
		if !ok {
			return
		}

		switch choice {
		case "1":
			a.startExam(ctx)
		case "2":
			if !canResume {
				color.Red("There is no paused exam to resume.")
				continue
			}
			a.resumeExam(ctx)
		case "3":
			a.displayStatistics(ctx)
		case "4":
			a.clearStatistics(ctx)
		case "5":
			a.displayCategories()
		case "6":
			a.handleBankImport(ctx)
		case "7":
			color.Green("Good luck on the FE exam!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func (a *app) displayMenu(canResume bool) {
	color.Cyan("\n=== FE Civil Practice Exam ===")
	fmt.Fprintf(a.out, "Question bank: %d questions\n", len(a.ctl.Bank()))
	fmt.Fprintln(a.out, "1. Start New Exam")
	if canResume {
		fmt.Fprintln(a.out, "2. Resume Paused Exam")
	}
	fmt.Fprintln(a.out, "3. View Statistics & History")
	fmt.Fprintln(a.out, "4. Clear Statistics")
	fmt.Fprintln(a.out, "5. List Categories")
	fmt.Fprintln(a.out, "6. Import Question Bank")
	fmt.Fprintln(a.out, "7. Exit")
	fmt.Fprint(a.out, "\nEnter your choice: ")
}

// console owns stdin. A single goroutine scans lines so the dashboard and
// the exam runner never compete for input.
type console struct {
	lines chan string
}

func newConsole(r io.Reader) *console {
	c := &console{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			c.lines <- scanner.Text()
		}
		close(c.lines)
	}()
	return c
}

func (a *app) readChoice() (string, bool) {
	return a.readString()
}

func (a *app) readString() (string, bool) {
	line, ok := <-a.console.lines
	return strings.TrimSpace(line), ok
}

func (a *app) readInt() (int, bool) {
	s, ok := a.readString()
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, true
	}
	return i, true
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s (y/n): ", prompt)
	s, ok := a.readString()
	return ok && strings.EqualFold(s, "y")
}
