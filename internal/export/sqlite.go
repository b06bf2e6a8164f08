package export

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agentstation/valetmerge/pkg/constants"
	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/table"
)

// SQLite writes t into the table tableName of the database at path,
// creating the database if needed and replacing the table if it exists.
// Every column is TEXT and null cells are stored as NULL. An empty tableName
// means constants.DefaultSQLiteTable. It returns the absolute database path.
//
// SQLite compares column names without regard to case, so a table whose
// names differ only by case is rejected.
func SQLite(ctx context.Context, path, tableName string, t *table.Table) (string, error) {
	if tableName == "" {
		tableName = constants.DefaultSQLiteTable
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WrapIO("resolve", path, err)
	}
	if err := checkColumnNames(t.Names()); err != nil {
		return "", err
	}

	db, err := sql.Open("sqlite", abs)
	if err != nil {
		return "", errors.WrapIO("open", abs, err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.WrapIO("open", abs, err)
	}
	if err := writeTable(ctx, tx, tableName, t); err != nil {
		_ = tx.Rollback()
		return "", errors.WrapIO("write", abs, err)
	}
	if err := tx.Commit(); err != nil {
		return "", errors.WrapIO("commit", abs, err)
	}
	return abs, nil
}

func writeTable(ctx context.Context, tx *sql.Tx, name string, t *table.Table) error {
	names := t.Names()
	quoted := make([]string, len(names))
	defs := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
		defs[i] = quoted[i] + " TEXT"
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))); err != nil {
		return err
	}

	placeholders := strings.TrimRight(strings.Repeat("?, ", len(names)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, len(names))
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Row(i) {
			if c.IsNull() {
				args[j] = nil
			} else {
				args[j] = c.String()
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func checkColumnNames(names []string) error {
	seen := make(map[string]string, len(names))
	for _, n := range names {
		key := strings.ToLower(n)
		if prev, ok := seen[key]; ok {
			return errors.NewValidationError("columns", n, fmt.Sprintf("collides with %q in SQLite", prev))
		}
		seen[key] = n
	}
	return nil
}
