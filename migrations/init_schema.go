package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS exam_results (
		seq           BIGSERIAL PRIMARY KEY,
		id            TEXT NOT NULL UNIQUE,
		taken_at      TEXT NOT NULL,
		num_questions INTEGER NOT NULL,
		score         DOUBLE PRECISION NOT NULL,
		time_taken    DOUBLE PRECISION NOT NULL,
		test_type     TEXT NOT NULL
	)`,
}

// InitSchema creates the results table if needed and verifies it exists
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	tables := []string{"exam_results"}
	for _, table := range tables {
		var exists bool
		query := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = current_schema()
				AND table_name = $1
			)`

		if err := db.QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}

	return nil
}
