package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/bulkutil/internal/model"
	"github.com/cleared-dev/bulkutil/internal/validation"
)

func failingResult() validation.Result {
	var history []model.Row
	for i := range 5 {
		history = append(history, model.Row{"EntityId": "P1", "LineItemId": "L1", "Date": fmt.Sprint(2020 + i), "IsAnnual": "1"})
	}
	ds := model.NewDataset(
		model.Table{Fields: []string{"EntityId"}, Rows: []model.Row{{"EntityId": "P1", "DealName": "D"}}},
		model.Table{Fields: model.RequiredFields(model.TableLineItem), Rows: []model.Row{
			{"LineItemId": "L1", "LineItemDescription": "d", "redIQChartOfAccount": "c", "IsExpenseAccount": "1"},
		}},
		model.Table{Fields: model.RequiredFields(model.TableHistory), Rows: history},
	)
	return validation.Validate(ds)
}

func TestWriteText_Failure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, failingResult(), 2))
	out := buf.String()

	assert.Contains(t, out, "Validation failed:\n")
	assert.Contains(t, out, "Missing Columns (1):\n  - Property file missing fields: DealName\n")
	assert.Contains(t, out, "Missing Data (5):\n  - History row 1 missing Value\n  - History row 2 missing Value\n  ... and 3 more\n")
	assert.Contains(t, out, "Total issues: 6\n")
	assert.Contains(t, out, "Valid History Entries:")
	assert.NotContains(t, out, "Value Total")
}

func TestWriteText_PlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, failingResult(), 0))
	assert.NotContains(t, buf.String(), "\x1b[", "no ANSI styling when the writer is not a terminal")
}

func TestWriteText_Unlimited(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, failingResult(), 0))
	assert.Contains(t, buf.String(), "History row 5 missing Value")
	assert.NotContains(t, buf.String(), "more\n")
}

func TestWriteText_Success(t *testing.T) {
	ds := model.FromRows(
		[]model.Row{{"EntityId": "P1", "DealName": "D"}},
		[]model.Row{{"LineItemId": "L1", "LineItemDescription": "d", "redIQChartOfAccount": "c", "IsExpenseAccount": "0"}},
		[]model.Row{
			{"EntityId": "P1", "LineItemId": "L1", "Date": "2020", "IsAnnual": "1", "Value": "10.5"},
			{"EntityId": "P1", "LineItemId": "L1", "Date": "2021", "IsAnnual": "1", "Value": "N/A"},
		},
	)
	res := validation.Validate(ds)
	require.True(t, res.OK())

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, res, 20))
	out := buf.String()

	assert.Contains(t, out, "Validation successful.\n")
	assert.Regexp(t, `Valid Properties:\s+1\n`, out)
	assert.Regexp(t, `Properties with History:\s+1\n`, out)
	assert.Regexp(t, `Value Total:\s+10.5\n`, out)
	assert.Regexp(t, `Non-numeric Values:\s+1\n`, out)
}

func TestWriteXLSX(t *testing.T) {
	res := failingResult()
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Issues"}, f.GetSheetList())

	issues, err := f.GetRows("Issues")
	require.NoError(t, err)
	require.Len(t, issues, 1+res.IssueCount())
	assert.Equal(t, []string{"Category", "Kind", "Table", "Row", "Field", "Value", "Message"}, issues[0])
	assert.Equal(t, "Missing Columns", issues[1][0])
	assert.Equal(t, "property", issues[1][2])
	assert.Equal(t, "Missing Data", issues[2][0])
	assert.Equal(t, "1", issues[2][3])
	assert.Equal(t, "History row 1 missing Value", issues[2][6])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Stat", "Count"}, summary[0])
	assert.Equal(t, []string{"Total Properties", "1"}, summary[1])
}
