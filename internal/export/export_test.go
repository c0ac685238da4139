package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rosterscraper/internal/models"
)

var testColumns = []string{"ID", "Name", "Value", "Wage"}

func testRecords() []models.Record {
	return []models.Record{
		{Values: []string{"239085", "Erling Haaland", "€185M", "€375K"}},
		{Values: []string{"-", "Jérémy Doku", "-", "-"}},
		{Values: []string{"231866", "Rodri <Rodrigo> & Co | Ltd", "€110M", "€260K"}},
	}
}

func readText(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "missing byte-order mark")

	r := csv.NewReader(bytes.NewReader(data[3:]))
	r.Comma = Delimiter
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func readXLSX(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestExportFormatsAgree(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out", "SCRIPT_2_manchester-city")
	records := testRecords()

	paths, err := Export(records, testColumns, base)
	require.NoError(t, err)
	for _, p := range paths.All() {
		assert.FileExists(t, p)
	}

	want := [][]string{testColumns}
	for _, r := range records {
		want = append(want, r.Values)
	}

	if diff := cmp.Diff(want, readText(t, paths.Text)); diff != "" {
		t.Errorf("text rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, readXLSX(t, paths.XLSX)); diff != "" {
		t.Errorf("xlsx rows mismatch (-want +got):\n%s", diff)
	}

	fromJSON, err := ReadJSON(paths.JSON, testColumns)
	require.NoError(t, err)
	if diff := cmp.Diff(records, fromJSON); diff != "" {
		t.Errorf("json records mismatch (-want +got):\n%s", diff)
	}
}

func TestExportIsIdempotent(t *testing.T) {
	base := filepath.Join(t.TempDir(), "SCRIPT_1_team")

	first, err := Export(testRecords(), testColumns, base)
	require.NoError(t, err)
	txt1, err := os.ReadFile(first.Text)
	require.NoError(t, err)
	json1, err := os.ReadFile(first.JSON)
	require.NoError(t, err)

	second, err := Export(testRecords(), testColumns, base)
	require.NoError(t, err)
	txt2, err := os.ReadFile(second.Text)
	require.NoError(t, err)
	json2, err := os.ReadFile(second.JSON)
	require.NoError(t, err)

	assert.Equal(t, txt1, txt2)
	assert.Equal(t, json1, json2)
}

func TestJSONRoundTripKeepsSentinels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	records := []models.Record{{Values: []string{models.Sentinel, models.Sentinel, models.Sentinel, models.Sentinel}}}

	require.NoError(t, WriteJSON(path, testColumns, records))
	got, err := ReadJSON(path, testColumns)
	require.NoError(t, err)

	assert.Equal(t, records, got)
}

func TestJSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	records := []models.Record{{Values: []string{"1", "Jérémy <b>", "€5M"}}}

	require.NoError(t, WriteJSON(path, testColumns, records))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "[\n  {\n    \"ID\": \"1\",\n    \"Name\": \"Jérémy <b>\",\n    \"Value\": \"€5M\",\n    \"Wage\": \"-\"\n  }\n]\n"
	assert.Equal(t, want, string(data))
}

func TestExportEmptyRecordsStillWritesHeaders(t *testing.T) {
	base := filepath.Join(t.TempDir(), "SCRIPT_1_empty")

	paths, err := Export(nil, testColumns, base)
	require.NoError(t, err)

	assert.Equal(t, [][]string{testColumns}, readText(t, paths.Text))
	assert.Equal(t, [][]string{testColumns}, readXLSX(t, paths.XLSX))

	data, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestExportRequiresColumns(t *testing.T) {
	_, err := Export(testRecords(), nil, filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}

func TestExportJoinsPerFormatErrors(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "blocked")
	// A directory where the text file should go makes only that format fail.
	require.NoError(t, os.Mkdir(base+".txt", 0o755))

	paths, err := Export(testRecords(), testColumns, base)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "txt:")
	assert.FileExists(t, paths.XLSX)
	assert.FileExists(t, paths.JSON)
}

func TestColumnWidthsUseLongestCellPlusPadding(t *testing.T) {
	records := []models.Record{
		{Values: []string{"1", "Jérémy Doku", "€5M", "-"}},
		{Values: []string{"123456789", "Al", "€185M", "€375K"}},
	}

	widths := ColumnWidths(testColumns, records)
	assert.Equal(t, []float64{11, 13, 7, 7}, widths)

	path := filepath.Join(t.TempDir(), "w.xlsx")
	require.NoError(t, WriteXLSX(path, testColumns, records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetColWidth(SheetName, "B")
	require.NoError(t, err)
	assert.InDelta(t, 13, got, 0.01)
}
