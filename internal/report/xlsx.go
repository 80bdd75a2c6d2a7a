package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/bulkutil/internal/validation"
)

const (
	summarySheet = "Summary"
	issuesSheet  = "Issues"
)

var issueHeader = []any{"Category", "Kind", "Table", "Row", "Field", "Value", "Message"}

// WriteXLSX saves the stats and every issue of res to a workbook at path.
func WriteXLSX(path string, res validation.Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	if _, err := f.NewSheet(issuesSheet); err != nil {
		return fmt.Errorf("adding issues sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	summary := [][]any{{"Stat", "Count"}}
	for _, label := range validation.StatLabels {
		summary = append(summary, []any{label, res.Stats[label]})
	}
	summary = append(summary,
		[]any{"Total Issues", res.IssueCount()},
		[]any{"Value Total", res.ValueTotal.String()},
		[]any{"Non-numeric Values", res.NonNumericValues},
	)
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", bold); err != nil {
		return fmt.Errorf("styling summary header: %w", err)
	}

	issues := [][]any{issueHeader}
	for _, is := range res.Issues {
		var row any = is.Row
		if is.Row == 0 {
			row = ""
		}
		issues = append(issues, []any{
			string(is.Kind.Category()), is.Kind.String(), is.Table.String(), row, is.Field, is.Value, is.Message,
		})
	}
	if err := writeRows(f, issuesSheet, issues); err != nil {
		return err
	}
	if err := f.SetCellStyle(issuesSheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("styling issues header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
