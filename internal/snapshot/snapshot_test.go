package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNamesFileByID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "DEBUG")
	w := NewWriter(dir, true)

	path, err := w.Write("239085", "<html><body><h1>Haaland</h1></body></html>")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "debug_239085.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Haaland</h1>")
}

func TestWriteSanitizesID(t *testing.T) {
	w := NewWriter(t.TempDir(), true)

	path, err := w.Write("../escape", "<p>x</p>")
	require.NoError(t, err)
	assert.Equal(t, "debug_.._escape.html", filepath.Base(path))

	path, err = w.Write("", "<p>x</p>")
	require.NoError(t, err)
	assert.Equal(t, "debug_unknown.html", filepath.Base(path))
}

func TestDisabledWriterWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "DEBUG")
	w := NewWriter(dir, false)

	path, err := w.WriteNamed("page_dump.html", "<html></html>")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NoDirExists(t, dir)
}

func TestNormalizeBalancesTags(t *testing.T) {
	got := string(Normalize("<div><p>open"))
	assert.Equal(t, "<html><head></head><body><div><p>open</p></div></body></html>", got)
}
