package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nonsonwune/fe_practice/bank"
	"github.com/nonsonwune/fe_practice/exam"
	"github.com/nonsonwune/fe_practice/importer"
	"github.com/nonsonwune/fe_practice/models"
	"github.com/nonsonwune/fe_practice/stats"
)

func (a *app) startExam(ctx context.Context) {
	if len(a.ctl.Bank()) == 0 {
		color.Red("The question bank is empty. Import one first (option 6).")
		return
	}

	fmt.Fprintln(a.out, "\nTest type:")
	fmt.Fprintln(a.out, "1. Timed")
	fmt.Fprintln(a.out, "2. Non-timed")
	fmt.Fprint(a.out, "Enter choice (default 1): ")
	choice, ok := a.readString()
	if !ok {
		return
	}
	testType := models.TestTypeTimed
	if choice == "2" {
		testType = models.TestTypeNonTimed
	}

	counts := models.QuestionCountChoices()
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	fmt.Fprintf(a.out, "Number of questions [%s] (default %d): ", strings.Join(parts, ", "), a.cfg.DefaultQuestionCount)
	count, ok := a.readInt()
	if !ok {
		return
	}
	if !validCount(count, counts) {
		if count != 0 {
			color.Yellow("Unsupported question count, using %d", a.cfg.DefaultQuestionCount)
		}
		count = a.cfg.DefaultQuestionCount
	}

	categories, ok := a.selectCategories()
	if !ok {
		return
	}

	s, err := a.ctl.Start(testType, count, categories)
	if errors.Is(err, exam.ErrNoQuestionsAvailable) {
		color.Red("No questions available for the selected categories.")
		return
	}
	if err != nil {
		log.Printf("Error starting exam: %v", err)
		return
	}
	if s.Total() < count {
		color.Yellow("Only %d questions match; the exam will use all of them.", s.Total())
	}
	a.runExam(ctx, s)
}

func validCount(n int, counts []int) bool {
	for _, c := range counts {
		if c == n {
			return true
		}
	}
	return false
}

// selectCategories returns nil for "all categories". Input naming no known
// category is asked again.
func (a *app) selectCategories() ([]string, bool) {
	available := bank.Categories(a.ctl.Bank())
	fmt.Fprintln(a.out, "\nCategories:")
	fmt.Fprintln(a.out, "0. All categories")
	for i, c := range available {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, c)
	}

	for {
		fmt.Fprint(a.out, "Enter numbers separated by commas (default 0): ")
		line, ok := a.readString()
		if !ok {
			return nil, false
		}
		if line == "" {
			return nil, true
		}

		var selected []string
		for _, field := range strings.Split(line, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil || n < 0 || n > len(available) {
				color.Yellow("Ignoring unknown category %q", field)
				continue
			}
			if n == 0 {
				return nil, true
			}
			selected = append(selected, available[n-1])
		}
		if len(selected) > 0 {
			return selected, true
		}
		color.Red("No valid category selected. Try again.")
	}
}

func (a *app) resumeExam(ctx context.Context) {
	s, err := a.ctl.Resume()
	if err != nil {
		color.Red("Could not resume the paused exam: %v", err)
		return
	}
	color.Green("Resuming exam at question %d of %d", s.Cursor()+1, s.Total())
	a.runExam(ctx, s)
}

func (a *app) runExam(ctx context.Context, s *exam.Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	r := newRunner(a.ctl, a.media, a.console.lines, ticker.C, a.out)
	end, outcome, err := r.run(ctx)
	if err != nil {
		color.Red("%v", err)
	}

	switch end {
	case endPaused:
		color.Green("Exam paused and saved. Resume it from the dashboard.")
	case endQuit:
		if err == nil {
			color.Yellow("Exam discarded.")
		}
	case endSubmitted, endExpired:
		if err != nil {
			a.ctl.Quit()
			return
		}
		a.displayOutcome(outcome)
		a.offerTutor(ctx, outcome)
	}
}

func (a *app) displayOutcome(o exam.Outcome) {
	color.Cyan("\n=== Exam Results ===")
	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"Correct", "Total", "Score", "Time Taken", "Flagged"})
	table.Append([]string{
		strconv.Itoa(o.Correct),
		strconv.Itoa(o.Total),
		fmt.Sprintf("%.1f%%", o.Percentage),
		fmt.Sprintf("%.1f min", o.TimeTaken.Minutes()),
		strconv.Itoa(o.Flagged),
	})
	table.Render()

	missed := o.Missed()
	if len(missed) == 0 {
		color.Green("Perfect score!")
		return
	}

	review := tablewriter.NewWriter(a.out)
	review.SetHeader([]string{"#", "Number", "Category", "Your Answer", "Correct Answer"})
	for _, item := range missed {
		chosen := "(unanswered)"
		if item.Answered {
			chosen = item.Chosen
		}
		review.Append([]string{
			strconv.Itoa(item.Index + 1),
			item.Question.Number,
			item.Question.Category,
			chosen,
			fmt.Sprintf("%s) %s", item.Question.CorrectAnswer, item.Question.CorrectChoice()),
		})
	}
	review.Render()
}

func (a *app) offerTutor(ctx context.Context, o exam.Outcome) {
	missed := o.Missed()
	if a.tutor == nil || len(missed) == 0 {
		return
	}
	if !a.confirm("Ask the tutor to explain the missed questions?") {
		return
	}

	byCategory := make(map[string]int)
	for _, item := range missed {
		byCategory[item.Question.Category]++
		color.Cyan("\nQuestion %d (%s)", item.Index+1, item.Question.Category)
		text, err := a.tutor.Explain(ctx, item.Question, item.Chosen)
		if err != nil {
			color.Red("Tutor error: %v", err)
			return
		}
		fmt.Fprintln(a.out, text)
	}

	plan, err := a.tutor.StudyPlan(ctx, byCategory, o.Total)
	if err != nil {
		color.Red("Tutor error: %v", err)
		return
	}
	color.Cyan("\n=== Study Plan ===")
	fmt.Fprintln(a.out, plan)
}

func (a *app) displayStatistics(ctx context.Context) {
	results, err := a.store.List(ctx)
	if err != nil {
		log.Printf("Error reading results: %v", err)
		return
	}
	if len(results) == 0 {
		color.Yellow("No exams taken yet.")
		return
	}

	summary := stats.Summarize(results)
	color.Cyan("\n=== Statistics ===")
	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"Exams Taken", "Average Score", "Avg Time / Question"})
	table.Append([]string{
		strconv.Itoa(summary.ExamsTaken),
		fmt.Sprintf("%.1f%%", summary.AverageScore),
		fmt.Sprintf("%.1f s", summary.AverageTimePerQuestion),
	})
	table.Render()

	color.Cyan("\n=== History (newest first) ===")
	for _, r := range stats.Newest(results) {
		fmt.Fprintln(a.out, stats.HistoryLine(r))
	}
}

func (a *app) clearStatistics(ctx context.Context) {
	if !a.confirm("Delete all exam history?") {
		fmt.Fprintln(a.out, "Nothing was deleted.")
		return
	}
	if err := a.store.Clear(ctx); err != nil {
		log.Printf("Error clearing results: %v", err)
		return
	}
	color.Green("Statistics cleared.")
}

func (a *app) displayCategories() {
	counts := bank.CountByCategory(a.ctl.Bank())
	names := make(map[string]bool)
	for _, c := range models.DefaultCategories {
		names[c] = true
	}
	for c := range counts {
		names[c] = true
	}
	sorted := make([]string, 0, len(names))
	for c := range names {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"Category", "Questions"})
	for _, c := range sorted {
		table.Append([]string{c, strconv.Itoa(counts[c])})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(len(a.ctl.Bank()))})
	table.Render()
}

func (a *app) handleBankImport(ctx context.Context) {
	fmt.Fprint(a.out, "Enter path to the spreadsheet (.csv or .xlsx): ")
	source, ok := a.readString()
	if !ok || source == "" {
		return
	}
	if _, err := os.Stat(source); err != nil {
		color.Red("File not found: %s", source)
		return
	}

	var sheet string
	if ext := strings.ToLower(filepath.Ext(source)); ext == ".xlsx" || ext == ".xlsm" {
		fmt.Fprint(a.out, "Sheet name (blank for first sheet): ")
		if sheet, ok = a.readString(); !ok {
			return
		}
	}

	questions, importStats, err := importer.ImportFile(ctx, importer.ImportConfig{
		SourceFile:       source,
		Sheet:            sheet,
		DefaultMediaSize: models.DefaultMediaSize,
	})
	importStats.PrintSummary()
	if err != nil {
		color.Red("Import failed: %v", err)
		return
	}
	if len(questions) == 0 {
		color.Yellow("No valid questions found; the bank was not changed.")
		return
	}

	if !a.confirm(fmt.Sprintf("Replace %s with %d imported questions?", a.cfg.BankPath, len(questions))) {
		return
	}
	if err := bank.Save(a.cfg.BankPath, questions); err != nil {
		log.Printf("Error saving question bank: %v", err)
		return
	}
	color.Green("Saved %d questions to %s. Restart to load the new bank.", len(questions), a.cfg.BankPath)
}
