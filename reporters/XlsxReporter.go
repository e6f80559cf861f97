package reporters

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/convlint/convlint/core"
)

const DefaultXlsxReport = "convlint_report.xlsx"

// XlsxReporter writes one sheet per area with the findings for that area.
type XlsxReporter struct {
	ArtifactPrefix string
}

var xlsxHeaders = []interface{}{"Status", "File", "Line", "Rule", "Message", "RepoName"}

func (xlsxReporter XlsxReporter) Report(repository core.FindingRepository) error {
	findings, err := CollectFindings(repository)
	if err != nil {
		return err
	}
	core.SortFindings(findings)

	f := excelize.NewFile()

	rowByArea := make(map[string]int)
	for _, finding := range findings {
		area := finding.Area
		if area == "" {
			area = "general"
		}

		if _, exists := rowByArea[area]; !exists {
			index, err := f.NewSheet(area)
			if err != nil {
				return fmt.Errorf("failed to create sheet '%s': %w", area, err)
			}
			if len(rowByArea) == 0 {
				f.SetActiveSheet(index)
			}
			if err := f.SetSheetRow(area, "A1", &xlsxHeaders); err != nil {
				return fmt.Errorf("failed to set headers for sheet '%s': %w", area, err)
			}
			rowByArea[area] = 2
		}

		rowNum := rowByArea[area]
		cellAddress, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to get cell address for row %d in sheet '%s': %w", rowNum, area, err)
		}
		rowData := []interface{}{
			string(finding.Status),
			finding.File,
			finding.Line,
			finding.RuleText,
			finding.Message,
			finding.RepoName,
		}
		if err := f.SetSheetRow(area, cellAddress, &rowData); err != nil {
			return fmt.Errorf("failed to set data for row %d in sheet '%s': %w", rowNum, area, err)
		}
		rowByArea[area] = rowNum + 1
	}

	if defaultSheetName := f.GetSheetName(0); defaultSheetName == "Sheet1" && len(rowByArea) > 0 {
		_ = f.DeleteSheet(defaultSheetName)
	}

	outputFile := DefaultXlsxReport
	if xlsxReporter.ArtifactPrefix != "" {
		outputFile = fmt.Sprintf("%s_%s", xlsxReporter.ArtifactPrefix, DefaultXlsxReport)
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save XLSX file '%s': %w", outputFile, err)
	}

	log.Infof("XLSX report generated successfully: %s", outputFile)
	return nil
}
