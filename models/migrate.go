package models

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Compares the live database tables against the Go models and lists columns that exist in the
database but are not mapped by any model field.

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run .

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: posts ---
Found 1 columns not accounted for in model:
  - reading_time

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// All lists every persisted model in dependency order.
func All() []any {
	return []any{&Post{}, &Comment{}, &Subscriber{}}
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// ColumnMismatches returns, per table, the database columns no model field maps to.
// Tables that do not exist yet are skipped.
func ColumnMismatches(db *gorm.DB) (map[string][]string, error) {
	result := make(map[string][]string)
	cache := &sync.Map{}

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema for %T: %w", model, err)
		}

		if !db.Migrator().HasTable(s.Table) {
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", s.Table, err)
		}

		modelFields := make(map[string]bool, len(s.DBNames))
		for _, name := range s.DBNames {
			modelFields[name] = true
		}

		mismatches := []string{}
		for _, col := range columnTypes {
			if !modelFields[col.Name()] {
				mismatches = append(mismatches, col.Name())
			}
		}
		sort.Strings(mismatches)
		result[s.Table] = mismatches
	}

	return result, nil
}

// GenerateColumnMismatchReport writes a human readable report of ColumnMismatches to out.
func GenerateColumnMismatchReport(db *gorm.DB, out io.Writer) error {
	report, err := ColumnMismatches(db)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	totalMismatches := 0
	for _, table := range tables {
		mismatches := report[table]
		fmt.Fprintf(out, "\n--- Table: %s ---\n", table)
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return nil
}
