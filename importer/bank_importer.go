package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"

	"github.com/nonsonwune/fe_practice/bank"
	"github.com/nonsonwune/fe_practice/models"
)

// Destination fields of a spreadsheet row
const (
	FieldNumber    = "number"
	FieldCategory  = "category"
	FieldQuestion  = "question"
	FieldMedia     = "media"
	FieldChoiceA   = "A"
	FieldChoiceB   = "B"
	FieldChoiceC   = "C"
	FieldChoiceD   = "D"
	FieldAnswer    = "answer"
	FieldMediaSize = "media_size"
)

// ColumnMapping ties a destination field to the header names it may appear under
type ColumnMapping struct {
	Field    string
	Headers  []string
	Required bool
}

// DefaultColumnMappings matches the spreadsheet the bank was authored in:
// #, Category, Question, Files & media, A, B, C, D, Answer.
func DefaultColumnMappings() []ColumnMapping {
	return []ColumnMapping{
		{FieldNumber, []string{"#", "Number", "No"}, true},
		{FieldCategory, []string{"Category"}, true},
		{FieldQuestion, []string{"Question"}, true},
		{FieldMedia, []string{"Files & media", "Media"}, false},
		{FieldChoiceA, []string{"A"}, true},
		{FieldChoiceB, []string{"B"}, true},
		{FieldChoiceC, []string{"C"}, true},
		{FieldChoiceD, []string{"D"}, true},
		{FieldAnswer, []string{"Answer", "Correct Answer"}, true},
		{FieldMediaSize, []string{"Media Size"}, false},
	}
}

// ImportConfig holds the configuration for a bank import
type ImportConfig struct {
	SourceFile       string
	Sheet            string // xlsx only; first sheet when empty
	DefaultMediaSize int
	ColumnMappings   []ColumnMapping
}

// ImportError describes one rejected row
type ImportError struct {
	Row    int
	Field  string
	Reason string
}

func (e *ImportError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// ImportStats tallies an import run
type ImportStats struct {
	TotalProcessed int
	ValidRecords   int
	SkippedRecords int
	ErrorsByType   map[string]int
	Errors         []*ImportError
	ColumnMatches  map[string]string
}

func NewImportStats() *ImportStats {
	return &ImportStats{
		ErrorsByType:  make(map[string]int),
		ColumnMatches: make(map[string]string),
	}
}

func (s *ImportStats) AddError(err *ImportError) {
	s.ErrorsByType[err.Reason]++
	s.Errors = append(s.Errors, err)
	s.SkippedRecords++
}

func (s *ImportStats) PrintSummary() {
	log.Printf("Import Statistics:")
	log.Printf("Total Records Processed: %d", s.TotalProcessed)
	log.Printf("Successfully Imported: %d", s.ValidRecords)
	log.Printf("Skipped Records: %d", s.SkippedRecords)

	if len(s.ErrorsByType) > 0 {
		reasons := make([]string, 0, len(s.ErrorsByType))
		for reason := range s.ErrorsByType {
			reasons = append(reasons, reason)
		}
		sort.Slice(reasons, func(i, j int) bool {
			return s.ErrorsByType[reasons[i]] > s.ErrorsByType[reasons[j]]
		})
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Error", "Occurrences"})
		for _, reason := range reasons {
			table.Append([]string{reason, strconv.Itoa(s.ErrorsByType[reason])})
		}
		table.Render()
	}
}

// BankImporter turns spreadsheet rows into question records
type BankImporter struct {
	config  ImportConfig
	columns map[string]int
	stats   *ImportStats
}

func NewBankImporter(config ImportConfig) *BankImporter {
	if len(config.ColumnMappings) == 0 {
		config.ColumnMappings = DefaultColumnMappings()
	}
	if config.DefaultMediaSize <= 0 {
		config.DefaultMediaSize = models.DefaultMediaSize
	}
	return &BankImporter{config: config, stats: NewImportStats()}
}

func (bi *BankImporter) Stats() *ImportStats {
	return bi.stats
}

// ImportFile reads config.SourceFile as CSV or XLSX based on its extension
func ImportFile(ctx context.Context, config ImportConfig) ([]models.Question, *ImportStats, error) {
	importer := NewBankImporter(config)

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(config.SourceFile)) {
	case ".csv":
		var f *os.File
		f, err = os.Open(config.SourceFile)
		if err != nil {
			return nil, importer.stats, fmt.Errorf("error opening file: %w", err)
		}
		defer f.Close()
		rows, err = ReadCSV(f)
	case ".xlsx", ".xlsm":
		rows, err = ReadXLSX(config.SourceFile, config.Sheet)
	default:
		return nil, importer.stats, fmt.Errorf("unsupported file type %q", filepath.Ext(config.SourceFile))
	}
	if err != nil {
		return nil, importer.stats, err
	}

	questions, err := importer.ImportRows(ctx, rows)
	return questions, importer.stats, err
}

// ReadCSV reads every record; ragged rows are allowed and checked later
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rows, nil
}

// ReadXLSX reads all rows of sheet (or the first sheet)
func ReadXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// ImportRows maps the header row and converts every following row. Invalid
// rows are skipped and recorded in Stats.
func (bi *BankImporter) ImportRows(ctx context.Context, rows [][]string) ([]models.Question, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	if err := bi.mapHeaders(rows[0]); err != nil {
		return nil, err
	}

	var questions []models.Question
	seen := make(map[string]bool)
	for i, row := range rows[1:] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if isBlank(row) {
			continue
		}
		bi.stats.TotalProcessed++

		line := i + 2
		q, importErr := bi.convertRow(line, row)
		if importErr != nil {
			bi.stats.AddError(importErr)
			continue
		}
		if seen[q.Number] {
			bi.stats.AddError(&ImportError{Row: line, Field: FieldNumber, Reason: "duplicate number"})
			continue
		}
		seen[q.Number] = true
		questions = append(questions, q)
		bi.stats.ValidRecords++
	}
	return questions, nil
}

func (bi *BankImporter) mapHeaders(headers []string) error {
	bi.columns = make(map[string]int)
	claimed := make(map[int]bool)

	// exact names win before any fuzzy match may claim their column
	for _, mapping := range bi.config.ColumnMappings {
		for _, name := range mapping.Headers {
			if idx := getColumnIndex(headers, name); idx != -1 && !claimed[idx] {
				bi.claim(mapping.Field, idx, headers, claimed)
				break
			}
		}
	}

	var missing []string
	for _, mapping := range bi.config.ColumnMappings {
		if _, ok := bi.columns[mapping.Field]; ok {
			continue
		}
		if idx := findBestColumnMatch(mapping.Headers, headers, claimed); idx != -1 {
			bi.claim(mapping.Field, idx, headers, claimed)
			continue
		}
		if mapping.Required {
			missing = append(missing, mapping.Headers[0])
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %v", missing)
	}
	return nil
}

func (bi *BankImporter) claim(field string, idx int, headers []string, claimed map[int]bool) {
	claimed[idx] = true
	bi.columns[field] = idx
	bi.stats.ColumnMatches[field] = strings.TrimSpace(headers[idx])
}

func (bi *BankImporter) value(row []string, field string) string {
	idx, ok := bi.columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (bi *BankImporter) convertRow(line int, row []string) (models.Question, *ImportError) {
	q := models.Question{
		Number:    bi.value(row, FieldNumber),
		Category:  bi.value(row, FieldCategory),
		Text:      bi.value(row, FieldQuestion),
		Media:     bi.value(row, FieldMedia),
		MediaSize: bi.config.DefaultMediaSize,
	}

	for _, field := range []string{FieldNumber, FieldCategory, FieldQuestion} {
		if bi.value(row, field) == "" {
			return q, &ImportError{Row: line, Field: field, Reason: "missing value"}
		}
	}

	for _, field := range []string{FieldChoiceA, FieldChoiceB, FieldChoiceC, FieldChoiceD} {
		choice := bi.value(row, field)
		if choice == "" {
			return q, &ImportError{Row: line, Field: field, Reason: "missing choice"}
		}
		q.Choices = append(q.Choices, choice)
	}

	answer := strings.ToUpper(bi.value(row, FieldAnswer))
	if _, ok := models.ChoiceIndex(answer); !ok {
		return q, &ImportError{Row: line, Field: FieldAnswer, Reason: "answer not A-D"}
	}
	q.CorrectAnswer = answer

	if raw := bi.value(row, FieldMediaSize); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 || size > bank.MaxMediaSize {
			return q, &ImportError{Row: line, Field: FieldMediaSize, Reason: "invalid media size"}
		}
		q.MediaSize = size
	}
	return q, nil
}

// SetMediaSize rewrites media_size on every record of the bank at path
func SetMediaSize(path string, size int) (int, error) {
	if size <= 0 || size > bank.MaxMediaSize {
		return 0, fmt.Errorf("media size must be between 1 and %d, got %d", bank.MaxMediaSize, size)
	}
	questions, err := bank.Load(path)
	if err != nil {
		return 0, err
	}
	for i := range questions {
		questions[i].MediaSize = size
	}
	if err := bank.Save(path, questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
