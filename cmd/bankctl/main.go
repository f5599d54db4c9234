package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/nonsonwune/fe_practice/bank"
	"github.com/nonsonwune/fe_practice/config"
	"github.com/nonsonwune/fe_practice/importer"
	"github.com/nonsonwune/fe_practice/media"
	"github.com/nonsonwune/fe_practice/models"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags
	input := flag.String("input", "", "Spreadsheet (.csv or .xlsx) to convert into a question bank")
	output := flag.String("output", "", "Bank file to write (defaults to the configured bank path)")
	sheet := flag.String("sheet", "", "Worksheet to read from an .xlsx file (defaults to the first sheet)")
	mediaSize := flag.Int("media-size", 0, "Set media_size on every question in -bank (1-500)")
	bankPath := flag.String("bank", cfg.BankPath, "Question bank to inspect or update")
	check := flag.Bool("check", false, "Validate -bank and report missing media files")
	verbose := flag.Bool("verbose", false, "Enable verbose output")

	flag.Parse()

	switch {
	case *input != "":
		if *output == "" {
			*output = cfg.BankPath
		}
		convert(*input, *output, *sheet, *verbose)
	case *mediaSize != 0:
		setMediaSize(*bankPath, *mediaSize)
	case *check:
		checkBank(*bankPath, cfg.MediaDir, *verbose)
	default:
		fmt.Fprintf(os.Stderr, "Usage: bankctl -input <sheet> [-output <json>] [-sheet <name>] [-verbose]\n")
		fmt.Fprintf(os.Stderr, "       bankctl -media-size <1-500> [-bank <json>]\n")
		fmt.Fprintf(os.Stderr, "       bankctl -check [-bank <json>] [-verbose]\n")
		os.Exit(1)
	}
}

func convert(input, output, sheet string, verbose bool) {
	if _, err := os.Stat(input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read input file: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		fmt.Printf("Converting %s\n", input)
	}

	questions, stats, err := importer.ImportFile(context.Background(), importer.ImportConfig{
		SourceFile: input,
		Sheet:      sheet,
	})
	if verbose || err != nil {
		stats.PrintSummary()
		for _, e := range stats.Errors {
			fmt.Printf("  %v\n", e)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		os.Exit(1)
	}
	if len(questions) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no valid questions in %s\n", input)
		os.Exit(1)
	}

	if err := bank.Save(output, questions); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing bank: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d questions to %s (%d rows skipped)\n", len(questions), output, stats.SkippedRecords)
}

func setMediaSize(path string, size int) {
	n, err := importer.SetMediaSize(path, size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Set media_size=%d on %d questions in %s\n", size, n, path)
}

func checkBank(path, mediaDir string, verbose bool) {
	questions, err := bank.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resolver := media.NewResolver(mediaDir)
	var missing []models.Question
	for _, q := range questions {
		if q.Media == "" {
			continue
		}
		if _, err := resolver.Resolve(q.Media); err != nil {
			missing = append(missing, q)
		}
	}

	counts := bank.CountByCategory(questions)
	if verbose {
		categories := make([]string, 0, len(counts))
		for c := range counts {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("  %-12s %d\n", c, counts[c])
		}
	}

	fmt.Printf("%s: %d questions in %d categories\n", path, len(questions), len(counts))
	if len(missing) == 0 {
		fmt.Println("All media files found")
		return
	}
	fmt.Printf("%d questions reference missing media:\n", len(missing))
	for _, q := range missing {
		fmt.Printf("  #%s (%s): %s\n", q.Number, q.Category, q.Media)
	}
	os.Exit(2)
}
