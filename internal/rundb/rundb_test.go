package rundb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/platform"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err, "Open")
	t.Cleanup(func() { db.Close() })
	return db
}

func testRun(p platform.Platform, version string) calib.Run {
	return calib.Run{
		Platform: p,
		Version:  version,
		Stats: calib.Stats{
			MeanDistance:   58.2,
			MedianDistance: 58.1,
			StdDistance:    0.4,
			MeanError:      0.2,
		},
	}
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty, "schema must not be dirty after Open")
	assert.Equal(t, uint(2), version, "expected latest schema version")
}

func TestRecordAndListRuns(t *testing.T) {
	db := openTestDB(t)

	id1, err := db.RecordRun(testRun(platform.Linux, "1.4.0"), "/data/a.npy")
	require.NoError(t, err)
	id2, err := db.RecordRun(testRun(platform.Windows, "current"), "/data/b.npy")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2, "run ids must be unique")

	records, err := db.ListRuns()
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rec := range records {
		assert.NotEmpty(t, rec.ID)
		assert.False(t, rec.CreatedAt.IsZero(), "created_at must be populated")
		assert.InDelta(t, 58.2, rec.Stats.MeanDistance, 1e-9)
	}
}

func TestRunsForKey(t *testing.T) {
	db := openTestDB(t)

	_, err := db.RecordRun(testRun(platform.Linux, "current"), "")
	require.NoError(t, err)
	_, err = db.RecordRun(testRun(platform.Linux, "current"), "")
	require.NoError(t, err)
	_, err = db.RecordRun(testRun(platform.Linux, "1.0.0"), "")
	require.NoError(t, err)

	records, err := db.RunsForKey(platform.Linux, "current")
	require.NoError(t, err)
	assert.Len(t, records, 2, "re-running the same key keeps both executions")

	records, err = db.RunsForKey(platform.MacOS, "current")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.MigrateDown())
	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}
