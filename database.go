package infraformat

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DefaultTableName is the table created by OpenDatabase when no name is
// given.
const DefaultTableName = "survey"

// OpenDatabase loads the collection's tabular projection into an
// in-memory SQLite database so survey rows can be queried with SQL:
//
//	db, err := infraformat.OpenDatabase(ctx, holes, "")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	rows, err := db.QueryContext(ctx,
//	    `SELECT header_XY_Point_ID, MAX(data_Depth_m) FROM survey GROUP BY 1`)
//
// Column names are the projection's column names with every character
// outside [A-Za-z0-9_] folded to '_'. Numeric columns become INTEGER or
// REAL, everything else TEXT; missing numerics are NULL. The database is
// a snapshot: later hole mutations are not reflected.
func OpenDatabase(ctx context.Context, holes Holes, tableName string) (*sql.DB, error) {
	if tableName == "" {
		tableName = DefaultTableName
	}
	table := holes.Table()
	if len(table.columns) == 0 {
		return nil, fmt.Errorf("%w: no survey rows to load", ErrEmptyData)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("infraformat: open database: %w", err)
	}
	// The pool must stay on one connection or each connection would see
	// its own empty in-memory database.
	db.SetMaxOpenConns(1)

	columns := sqlColumnNames(table.columns)
	defs := make([]string, len(columns))
	for i, name := range columns {
		defs[i] = fmt.Sprintf("%q %s", name, sqlColumnType(table, i))
	}
	create := fmt.Sprintf("CREATE TABLE %q (%s)", tableName, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		db.Close()
		return nil, fmt.Errorf("infraformat: create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	insert := fmt.Sprintf("INSERT INTO %q VALUES (%s)", tableName, placeholders)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("infraformat: load rows: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("infraformat: load rows: %w", err)
	}
	for _, row := range table.rows {
		args := make([]any, len(row))
		for i, cell := range row {
			args[i] = sqlValue(cell)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			tx.Rollback()
			db.Close()
			return nil, fmt.Errorf("infraformat: load rows: %w", err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, fmt.Errorf("infraformat: load rows: %w", err)
	}
	return db, nil
}

// sqlColumnNames folds projection column names to SQL identifiers,
// deduplicating collisions with a numeric suffix.
func sqlColumnNames(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	out := make([]string, len(columns))
	for i, column := range columns {
		name := strings.Map(func(r rune) rune {
			if r == '_' || unicode.IsDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				return r
			}
			return '_'
		}, column)
		name = strings.Trim(name, "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if name[0] >= '0' && name[0] <= '9' {
			name = "c_" + name
		}
		base := name
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// sqlColumnType infers a column affinity from the cells present.
func sqlColumnType(table *Table, column int) string {
	hasFloat, hasInt, hasOther := false, false, false
	for _, row := range table.rows {
		switch v := row[column].(type) {
		case nil:
		case int64:
			hasInt = true
		case float64:
			if !math.IsNaN(v) {
				hasFloat = true
			}
		default:
			hasOther = true
		}
	}
	switch {
	case hasOther:
		return "TEXT"
	case hasFloat:
		return "REAL"
	case hasInt:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// sqlValue maps a projection cell to a driver value. Missing numerics
// become NULL.
func sqlValue(v any) any {
	switch value := v.(type) {
	case float64:
		if math.IsNaN(value) {
			return nil
		}
		return value
	case time.Time:
		return value.Format(csvDateLayout)
	default:
		return value
	}
}
