package memdir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "names.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSVWithIDs(t *testing.T) {
	path := writeTempCSV(t, "id,name\n10,John Smith\n20,Maria Garcia\n")
	dir, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Size())

	rec, err := dir.ExactLookup(context.Background(), "john smith")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(10), rec.ID)
	assert.Equal(t, "John Smith", rec.DisplayName)
}

func TestLoadCSVNamesOnly(t *testing.T) {
	path := writeTempCSV(t, "John Smith\nMaria Garcia\n")
	dir, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Size())

	rec, err := dir.ExactLookup(context.Background(), "maria garcia")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(2), rec.ID) // sequential ids
}

func TestLoadCSVSkipsDuplicatesAndBlanks(t *testing.T) {
	path := writeTempCSV(t, "1,John Smith\n2,JOHN  SMITH\n3,   \n4,!!--\n5,Maria Garcia\n")
	dir, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Size())

	rec, err := dir.ExactLookup(context.Background(), "john smith")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(1), rec.ID) // first occurrence wins
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
