package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, "SKU, Category ,Weight\nA-1,Beverages,330ml\nA-2, Snacks ,150g\n")

	ds, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)

	assert.Equal(t, "data", ds.Name)
	assert.Equal(t, []string{"SKU", "Category", "Weight"}, ds.Headers)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "Snacks", ds.Cell(1, 1))
}

func TestReadCSVShortRows(t *testing.T) {
	path := writeCSV(t, "A,B,C\n1,2,3\n4\n")

	ds, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "", ds.Cell(1, 2))
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := writeCSV(t, "A,B\n")

	ds, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)
	assert.Empty(t, ds.Rows)
}

func TestReadCSVRejectsBadHeaders(t *testing.T) {
	_, err := NewDataReader(writeCSV(t, "A,,C\n1,2,3\n")).ReadDataset()
	assert.Error(t, err)

	_, err = NewDataReader(writeCSV(t, "A,B,A\n1,2,3\n")).ReadDataset()
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewDataReader("/nonexistent/data.csv").ReadDataset()
	assert.Error(t, err)
}
