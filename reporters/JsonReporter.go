package reporters

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/convlint/convlint/core"
	"github.com/convlint/convlint/utils"
)

const (
	DefaultJsonReport        = "convlint_findings.json"
	DefaultJsonSummaryReport = "convlint_summary.json"
)

//go:embed data/queries.yaml
var queriesFS embed.FS

// JsonReporter generates a detailed NDJSON findings report plus a summary
// built from SQL queries over a scratch SQLite database.
type JsonReporter struct {
	ArtifactPrefix string
	OutputDir      string
}

func (j *JsonReporter) setDefaultOutputDir() {
	if j.OutputDir == "" {
		j.OutputDir = "."
	}
}

func (j JsonReporter) Report(repository core.FindingRepository) error {
	j.setDefaultOutputDir()

	dbPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s_convlint_findings.db", j.ArtifactPrefix))
	db, err := utils.InitializeSQLiteDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite database: %w", err)
	}
	defer db.Close()
	defer func() { _ = utils.DeleteDatabaseFileIfExists(dbPath) }()

	if err := utils.LoadFindingsIntoSQLite(db, repository); err != nil {
		return fmt.Errorf("failed to load findings: %w", err)
	}

	if err := j.generateDetailedReport(repository); err != nil {
		return fmt.Errorf("failed to generate detailed JSON report: %w", err)
	}

	if err := j.generateSummaryReport(db); err != nil {
		return fmt.Errorf("failed to generate summary JSON report: %w", err)
	}

	return nil
}

func (j JsonReporter) generateDetailedReport(repository core.FindingRepository) error {
	outputFilePath := filepath.Join(j.OutputDir, fmt.Sprintf("%s_%s", j.ArtifactPrefix, DefaultJsonReport))

	outputFile, err := os.Create(outputFilePath)
	if err != nil {
		return fmt.Errorf("failed to create detailed output file: %w", err)
	}
	defer outputFile.Close()

	findings, err := CollectFindings(repository)
	if err != nil {
		return err
	}
	core.SortFindings(findings)

	encoder := json.NewEncoder(outputFile)
	for _, finding := range findings {
		if err := encoder.Encode(finding); err != nil {
			return fmt.Errorf("failed to write finding to detailed output file: %w", err)
		}
	}

	log.Infof("Detailed JSON report generated successfully: %s", outputFile.Name())
	return nil
}

func (j JsonReporter) generateSummaryReport(db *sql.DB) error {
	queries, err := loadSummaryQueries()
	if err != nil {
		return err
	}
	if len(queries.Queries) == 0 {
		log.Warn("No SQL queries defined for summary report.")
		return nil
	}

	summaryData := make(map[string]interface{})
	for _, query := range queries.Queries {
		results, err := executeSQLQuery(db, query.Query)
		if err != nil {
			log.Warnf("Skipping query for '%s': %v", query.Name, err)
			continue
		}
		summaryData[query.Name] = results
	}

	summaryBytes, err := json.MarshalIndent(summaryData, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary data: %w", err)
	}

	outputFilePath := filepath.Join(j.OutputDir, fmt.Sprintf("%s_%s", j.ArtifactPrefix, DefaultJsonSummaryReport))
	if err := os.WriteFile(outputFilePath, summaryBytes, 0644); err != nil {
		return fmt.Errorf("failed to write summary output file: %w", err)
	}

	log.Infof("Summary JSON report generated successfully: %s", outputFilePath)
	return nil
}

func loadSummaryQueries() (core.SqlQueries, error) {
	content, err := queriesFS.ReadFile("data/queries.yaml")
	if err != nil {
		return core.SqlQueries{}, fmt.Errorf("failed to read embedded queries: %w", err)
	}

	var queries core.SqlQueries
	if err := yaml.Unmarshal(content, &queries); err != nil {
		return core.SqlQueries{}, fmt.Errorf("failed to unmarshal queries: %w", err)
	}
	return queries, nil
}

// executeSQLQuery runs a SQL query and returns the results as a slice of maps.
func executeSQLQuery(db *sql.DB, query string) ([]map[string]interface{}, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query '%s': %w", query, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve columns for query '%s': %w", query, err)
	}

	var results []map[string]interface{}

	for rows.Next() {
		columnValues := make([]interface{}, len(columns))
		columnPointers := make([]interface{}, len(columns))
		for i := range columnValues {
			columnPointers[i] = &columnValues[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row for query '%s': %w", query, err)
		}

		rowData := make(map[string]interface{})
		for i, colName := range columns {
			value := columnValues[i]
			if b, ok := value.([]byte); ok {
				rowData[colName] = string(b)
			} else {
				rowData[colName] = value
			}
		}

		results = append(results, rowData)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error for query '%s': %w", query, err)
	}

	return results, nil
}
