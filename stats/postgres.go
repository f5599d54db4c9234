package stats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/nonsonwune/fe_practice/migrations"
	"github.com/nonsonwune/fe_practice/models"
)

// PostgresStore keeps results in the exam_results table
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with a lib/pq DSN and makes sure the schema exists
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := migrations.InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an open handle whose schema is already in place
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (ps *PostgresStore) Append(ctx context.Context, r models.ExamResult) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO exam_results (id, taken_at, num_questions, score, time_taken, test_type)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.Date, r.NumQuestions, r.Score, r.TimeTaken, string(r.TestType))
	if err != nil {
		return fmt.Errorf("error inserting exam result: %w", err)
	}
	return nil
}

func (ps *PostgresStore) List(ctx context.Context) ([]models.ExamResult, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, taken_at, num_questions, score, time_taken, test_type
		FROM exam_results
		ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying exam results: %w", err)
	}
	defer rows.Close()

	results := []models.ExamResult{}
	for rows.Next() {
		var r models.ExamResult
		var testType string
		if err := rows.Scan(&r.ID, &r.Date, &r.NumQuestions, &r.Score, &r.TimeTaken, &testType); err != nil {
			return nil, fmt.Errorf("error scanning exam result: %w", err)
		}
		r.TestType = models.TestType(testType)
		results = append(results, r)
	}
	return results, rows.Err()
}

func (ps *PostgresStore) Clear(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, `DELETE FROM exam_results`); err != nil {
		return fmt.Errorf("error clearing exam results: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
