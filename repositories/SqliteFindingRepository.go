package repositories

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/convlint/convlint/core"
	"github.com/convlint/convlint/utils"
)

// SqliteFindingRepository implements core.FindingRepository using SQLite.
type SqliteFindingRepository struct {
	db *sql.DB
}

// NewSqliteFindingRepository creates a new SQLite-backed repository.
// dbPath is the filename/path of the database (e.g. "findings.db").
func NewSqliteFindingRepository(dbPath string) (core.FindingRepository, error) {
	db, err := utils.InitializeSQLiteDB(dbPath)
	if err != nil {
		return nil, err
	}

	return &SqliteFindingRepository{db: db}, nil
}

func (r *SqliteFindingRepository) Store(findings []core.Finding) error {
	return utils.InsertFindings(r.db, findings)
}

func (r *SqliteFindingRepository) Clear() error {
	_, err := r.db.Exec("DELETE FROM Findings")
	return err
}

func (r *SqliteFindingRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteFindingRepository) NewIterator() core.FindingIterator {
	return &SqliteFindingIterator{repo: r, batchSize: 500}
}

// SqliteFindingIterator pages through the Findings table in id order.
type SqliteFindingIterator struct {
	repo       *SqliteFindingRepository
	batchSize  int
	lastID     int64
	currentSet core.FindingSet
}

func (it *SqliteFindingIterator) HasNext() bool {
	findings, maxID, err := it.loadBatch()
	if err != nil {
		return false
	}
	if len(findings) == 0 {
		return false
	}
	it.lastID = maxID
	it.currentSet = core.FindingSet{Findings: findings}
	return true
}

func (it *SqliteFindingIterator) Next() (core.FindingSet, error) {
	if it.currentSet.Findings == nil {
		return core.FindingSet{}, fmt.Errorf("no more finding sets available")
	}
	return it.currentSet, nil
}

func (it *SqliteFindingIterator) Reset() error {
	it.lastID = 0
	it.currentSet = core.FindingSet{}
	return nil
}

func (it *SqliteFindingIterator) loadBatch() ([]core.Finding, int64, error) {
	rows, err := it.repo.db.Query(`
		SELECT id, Area, Rule, Status, File, Line, Message, RepoName
		FROM Findings WHERE id > ? ORDER BY id LIMIT ?`, it.lastID, it.batchSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []core.Finding
	var maxID int64
	for rows.Next() {
		var id int64
		var finding core.Finding
		var status string
		if err := rows.Scan(&id, &finding.Area, &finding.RuleText, &status,
			&finding.File, &finding.Line, &finding.Message, &finding.RepoName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan finding row: %w", err)
		}
		finding.Status = core.FindingStatus(status)
		findings = append(findings, finding)
		maxID = id
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return findings, maxID, nil
}
