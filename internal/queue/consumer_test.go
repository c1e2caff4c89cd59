package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMigrationLine(t *testing.T) {
	line := FormatMigrationLine(MigrationCompletedEvent{
		RunID:       "run-1",
		Migrated:    true,
		FromVersion: "1.5.0",
		ToVersion:   "2.1.0",
		Inserted:    map[string]int{"tables": 2, "bookings": 1},
		Skipped:     map[string]int{},
		CompletedAt: "2025-03-10 14:05:09",
	})
	assert.Equal(t, "[2025-03-10 14:05:09] Legacy migration finished | run_id=run-1 | migrated=true | from=1.5.0 | to=2.1.0 | inserted={bookings=1,tables=2} | skipped={}\n", line)
}

func TestHandleMigrationMessage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	require.NoError(t, HandleMigrationMessage(dir, []byte(`{"run_id":"a","migrated":false,"completed_at":"x"}`)))
	require.NoError(t, HandleMigrationMessage(dir, []byte(`{"run_id":"b","migrated":true,"completed_at":"y"}`)))

	data, err := os.ReadFile(filepath.Join(dir, MigrationLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id=a")
	assert.Contains(t, string(data), "run_id=b")

	assert.Error(t, HandleMigrationMessage(dir, []byte(`not json`)))
}
