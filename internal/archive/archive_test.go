package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bulkutil/internal/model"
)

const (
	propertyTSV = "EntityId\tDealName\nP1\tDeal One\nP2\tDeal Two\n"
	lineItemTSV = "LineItemId\tLineItemDescription\tredIQChartOfAccount\tIsExpenseAccount\nL1\tRent\t4000\t0\n"
	historyTSV  = "EntityId\tLineItemId\tDate\tIsAnnual\tValue\nP1\tL1\t2020-01-31\t0\t100\n"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "bulk.zip")
	require.NoError(t, os.WriteFile(p, buildZip(t, files), 0o644))
	return p
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		kind model.TableKind
		ok   bool
	}{
		{"property_20240131.txt", model.TableProperty, true},
		{"export/lineItems_20240131.txt", model.TableLineItem, true},
		{"historical_20240131.txt", model.TableHistory, true},
		{"Property_20240131.txt", 0, false},
		{"property_2024013.txt", 0, false},
		{"property_20240131.txt.bak", 0, false},
		{"lineitems_20240131.txt", 0, false},
	}
	for _, tt := range tests {
		kind, ok := Match(tt.name)
		assert.Equal(t, tt.ok, ok, "Match(%q)", tt.name)
		if tt.ok {
			assert.Equal(t, tt.kind, kind, "Match(%q)", tt.name)
		}
	}
}

func TestLoad(t *testing.T) {
	p := writeZip(t, map[string]string{
		"property_20240131.txt":       propertyTSV,
		"data/lineItems_20240131.txt": lineItemTSV,
		"historical_20240131.txt":     historyTSV,
		"README.txt":                  "ignored",
	})

	ds, err := Load(p)
	require.NoError(t, err)
	assert.Len(t, ds.Properties(), 2)
	assert.Len(t, ds.LineItems(), 1)
	assert.Len(t, ds.History(), 1)
	assert.Equal(t, []string{"EntityId", "DealName"}, ds.Fields(model.TableProperty))
}

func TestLoad_MissingFiles(t *testing.T) {
	p := writeZip(t, map[string]string{"property_20240131.txt": propertyTSV})

	_, err := Load(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredFile)
	assert.Equal(t, "missing required files: line items file, historical file", err.Error())

	var mfe *MissingFilesError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, []string{"line items file", "historical file"}, mfe.Missing)
}

func TestLoad_DuplicateFiles(t *testing.T) {
	p := writeZip(t, map[string]string{
		"property_20240131.txt":   propertyTSV,
		"a/property_20240229.txt": propertyTSV,
		"lineItems_20240131.txt":  lineItemTSV,
		"historical_20240131.txt": historyTSV,
	})
	_, err := Load(p)
	assert.ErrorIs(t, err, ErrDuplicateFile)
}

func TestLoad_NotAZip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(p, []byte("not a zip"), 0o644))
	_, err := Load(p)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.zip"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite_RoundTrip(t *testing.T) {
	src := writeZip(t, map[string]string{
		"property_20240131.txt":   propertyTSV,
		"lineItems_20240131.txt":  lineItemTSV,
		"historical_20240131.txt": historyTSV,
	})
	ds, err := Load(src)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, Write(out, ds, "20991231"))

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.NoError(t, zr.Close())
	assert.Equal(t, []string{"property_20991231.txt", "lineItems_20991231.txt", "historical_20991231.txt"}, names)

	got, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, ds.Properties(), got.Properties())
	assert.Equal(t, ds.LineItems(), got.LineItems())
	assert.Equal(t, ds.History(), got.History())

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_OmitsEmptyTables(t *testing.T) {
	ds := model.FromRows([]model.Row{{"EntityId": "P1", "DealName": "D"}}, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, ds, DefaultDateSuffix))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "property_20200101.txt", zr.File[0].Name)

	// Reading it back reports the omitted tables as missing.
	_, err = NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, ErrMissingRequiredFile)
}

func TestWrite_InvalidDateSuffix(t *testing.T) {
	ds := model.FromRows(nil, nil, nil)
	for _, s := range []string{"", "2020", "2020-01-01", "abcdefgh"} {
		err := Write(filepath.Join(t.TempDir(), "x.zip"), ds, s)
		assert.ErrorIs(t, err, ErrInvalidDateSuffix, "suffix %q", s)
	}
	assert.NoError(t, ValidateDateSuffix("20240131"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "lineItems_20240131.txt", FileName(model.TableLineItem, "20240131"))
}
