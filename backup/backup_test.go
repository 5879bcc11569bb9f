package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCopiesTree(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "db_products"), []byte(`[]`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "db_users"), []byte(`[{"_id":"u1"}]`), 0o644))

	log, _ := test.NewNullLogger()
	b := New(src, dest, time.Hour, log)
	b.now = func() time.Time { return time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC) }

	out, err := b.Run()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "2024-03-01_02-00-00"), out)

	data, err := os.ReadFile(filepath.Join(out, "nested", "db_users"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"u1"}]`, string(data))
}

func TestCleanupRemovesExpired(t *testing.T) {
	dest := t.TempDir()
	old := filepath.Join(dest, "old")
	fresh := filepath.Join(dest, "fresh")
	require.NoError(t, os.Mkdir(old, 0o755))
	require.NoError(t, os.Mkdir(fresh, 0o755))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	log, hook := test.NewNullLogger()
	b := New(t.TempDir(), dest, 24*time.Hour, log)
	b.Cleanup()

	assert.NoDirExists(t, old)
	assert.DirExists(t, fresh)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, old, hook.LastEntry().Data["path"])
}

func TestStartRejectsBadSchedule(t *testing.T) {
	log, _ := test.NewNullLogger()
	b := New(t.TempDir(), t.TempDir(), time.Hour, log)
	assert.Error(t, b.Start("not a schedule"))

	require.NoError(t, b.Start("@every 1h"))
	assert.Error(t, b.Start("@every 1h"))
	b.Stop()
}
