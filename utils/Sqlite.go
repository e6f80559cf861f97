package utils

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/convlint/convlint/core"
)

// InitializeSQLiteDB opens (or recreates) the SQLite DB and applies the
// findings schema, with performance PRAGMAs for one-shot bulk loads.
func InitializeSQLiteDB(dbPath string) (*sql.DB, error) {
	if err := DeleteDatabaseFileIfExists(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, _ = db.Exec("PRAGMA journal_mode = WAL;")
	_, _ = db.Exec("PRAGMA synchronous = OFF;")

	createStmt := `CREATE TABLE IF NOT EXISTS Findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		Area TEXT,
		Rule TEXT,
		Status TEXT,
		File TEXT,
		Line INTEGER,
		Message TEXT,
		RepoName TEXT
	);`

	if _, err := db.Exec(createStmt); err != nil {
		return nil, fmt.Errorf("failed to create findings table: %w", err)
	}

	return db, nil
}

// InsertFindings loads a batch of findings in a single transaction.
func InsertFindings(db *sql.DB, findings []core.Finding) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO Findings (Area, Rule, Status, File, Line, Message, RepoName)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, finding := range findings {
		_, execErr := stmt.Exec(
			finding.Area,
			finding.RuleText,
			string(finding.Status),
			finding.File,
			finding.Line,
			finding.Message,
			finding.RepoName,
		)
		if execErr != nil {
			return fmt.Errorf("failed to insert finding for '%s': %w", finding.File, execErr)
		}
	}

	return nil
}

// LoadFindingsIntoSQLite drains a repository iterator into the database so
// summary queries can run against it.
func LoadFindingsIntoSQLite(db *sql.DB, repository core.FindingRepository) error {
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		findingSet, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next finding set: %w", err)
		}
		if err := InsertFindings(db, findingSet.Findings); err != nil {
			return err
		}
	}
	return nil
}
