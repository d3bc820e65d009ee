package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVVariableWidth(t *testing.T) {
	rows := [][]string{
		{"20 minutes starting from Saturday, 01 Mar 2014 at 09:00am"},
		{"", "Go, docs", "https://go.dev/", "ChromeHistory", "2014-03-01T09:00:00Z", "", "", ""},
		{"", `say "hi"`, "/tmp/x", "File"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	assert.True(t, strings.HasPrefix(buf.String(), "\"20 minutes starting from Saturday, 01 Mar 2014 at 09:00am\"\n"))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	got, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.csv")
	require.NoError(t, WriteFile(path, [][]string{{"old"}}))
	require.NoError(t, WriteFile(path, [][]string{{"a", "b"}, {"c"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\nc\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
