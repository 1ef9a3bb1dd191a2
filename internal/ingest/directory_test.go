package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"janeiro-2025.txt", "fevereiro-2025.TXT", ".hidden.txt", "roster.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	dumps, stats, err := ScanDirectory(dir)
	require.NoError(t, err)
	require.Len(t, dumps, 2)
	assert.Equal(t, "fevereiro-2025", dumps[0].Name)
	assert.Equal(t, "janeiro-2025", dumps[1].Name)
	assert.Equal(t, uint32(4), stats.Scanned)
	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(2), stats.Skipped)
}

func TestScanDirectoryEmpty(t *testing.T) {
	_, _, err := ScanDirectory(t.TempDir())
	assert.Error(t, err)
}
