package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_SortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0002_b.sql": {Data: []byte("SELECT 2;")},
		"sql/0001_a.sql": {Data: []byte("SELECT 1;")},
		"sql/README.md":  {Data: []byte("docs")},
	}

	files, err := Files(fsys, "sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, files)
}

func TestEmbeddedMigrations_Present(t *testing.T) {
	files, err := Files(migrationFS, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_geography.sql", files[0])
}

func TestExtractUp(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE t (id INT);\n-- +migrate Down\nDROP TABLE t;\n"
	up := ExtractUp(content)
	assert.Contains(t, up, "CREATE TABLE t")
	assert.NotContains(t, up, "DROP TABLE")

	assert.Equal(t, "SELECT 1;", ExtractUp("SELECT 1;"))
}
