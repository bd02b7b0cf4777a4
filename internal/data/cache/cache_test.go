package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-log-pager/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = "I 2024-01-15T08:30:00Z first\nE 2024-01-15T08:30:01Z second\n"

func writeLog(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func samplePage(filter model.CategorySet, size int64) *model.Page {
	page := model.NewPage(filter)
	page.TotalSize = size
	page.Push(0, size, true)
	page.Entries = []model.LogEntry{{Category: model.CategoryI, Content: "first"}}
	return page
}

func newStore(t *testing.T) *PageStore {
	t.Helper()
	store, err := NewPageStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	return store
}

func TestNewPageStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	store, err := NewPageStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.baseDir)
	assert.Empty(t, store.memoryCache)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewPageStoreInvalidDirectory(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("content"), 0644))

	store, err := NewPageStore(filepath.Join(filePath, "subdir"))

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestKey(t *testing.T) {
	all := Key("/var/log/app.log", model.CategoryAll)

	assert.Len(t, all, 16)
	assert.Equal(t, all, Key("/var/log/app.log", model.CategoryAll))
	assert.NotEqual(t, all, Key("/var/log/app.log", model.SetOf(model.CategoryE)))
	assert.NotEqual(t, all, Key("/var/log/other.log", model.CategoryAll))
}

func TestSetAndGet(t *testing.T) {
	path := writeLog(t, t.TempDir(), sampleLog)
	store := newStore(t)
	page := samplePage(model.CategoryAll, int64(len(sampleLog)))

	require.NoError(t, store.Set(path, page))

	result := store.Get(path, model.CategoryAll)
	require.True(t, result.Found)
	assert.Equal(t, MissReasonNone, result.MissReason)
	assert.Equal(t, page.StartOffsets, result.State.Page.StartOffsets)
	assert.Equal(t, int64(len(sampleLog)), result.State.FileSize)

	// Mutating the returned page does not leak into the store.
	result.State.Page.Push(1, 2, true)
	again := store.Get(path, model.CategoryAll)
	assert.Equal(t, 1, again.State.Page.Depth())
}

func TestGetFromDiskWithoutMemory(t *testing.T) {
	path := writeLog(t, t.TempDir(), sampleLog)
	store := newStore(t)
	require.NoError(t, store.Set(path, samplePage(model.SetOf(model.CategoryI), 10)))

	fresh, err := NewPageStore(store.baseDir)
	require.NoError(t, err)
	result := fresh.Get(path, model.SetOf(model.CategoryI))

	require.True(t, result.Found)
	assert.Equal(t, model.SetOf(model.CategoryI), result.State.Page.Filter)
	require.Len(t, result.State.Page.Entries, 1)
	assert.Equal(t, "first", result.State.Page.Entries[0].Content)
}

func TestGetMissReasons(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), sampleLog)
		result := newStore(t).Get(path, model.CategoryAll)
		assert.False(t, result.Found)
		assert.Equal(t, MissReasonNotFound, result.MissReason)
	})

	t.Run("other filter", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), sampleLog)
		store := newStore(t)
		require.NoError(t, store.Set(path, samplePage(model.CategoryAll, 10)))
		assert.Equal(t, MissReasonNotFound, store.Get(path, model.SetOf(model.CategoryE)).MissReason)
	})

	t.Run("truncated", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), sampleLog)
		store := newStore(t)
		require.NoError(t, store.Set(path, samplePage(model.CategoryAll, 10)))
		require.NoError(t, os.Truncate(path, 5))
		assert.Equal(t, MissReasonTruncated, store.Get(path, model.CategoryAll).MissReason)
	})

	t.Run("content changed", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), sampleLog)
		store := newStore(t)
		require.NoError(t, store.Set(path, samplePage(model.CategoryAll, 10)))
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		require.NoError(t, err)
		_, err = f.WriteAt([]byte("W"), 0)
		require.NoError(t, err)
		require.NoError(t, f.Close())
		assert.Equal(t, MissReasonFingerprint, store.Get(path, model.CategoryAll).MissReason)
	})

	t.Run("replaced", func(t *testing.T) {
		dir := t.TempDir()
		path := writeLog(t, dir, sampleLog)
		store := newStore(t)
		require.NoError(t, store.Set(path, samplePage(model.CategoryAll, 10)))

		replacement := filepath.Join(dir, "new.log")
		require.NoError(t, os.WriteFile(replacement, []byte(sampleLog), 0644))
		// Keep the old inode alive so the new file cannot reuse it.
		keep := filepath.Join(dir, "old.log")
		require.NoError(t, os.Rename(path, keep))
		require.NoError(t, os.Rename(replacement, path))

		assert.Equal(t, MissReasonInode, store.Get(path, model.CategoryAll).MissReason)
	})

	t.Run("deleted log", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), sampleLog)
		store := newStore(t)
		require.NoError(t, store.Set(path, samplePage(model.CategoryAll, 10)))
		require.NoError(t, os.Remove(path))
		assert.Equal(t, MissReasonError, store.Get(path, model.CategoryAll).MissReason)
	})

	t.Run("corrupt state", func(t *testing.T) {
		path := writeLog(t, t.TempDir(), sampleLog)
		store := newStore(t)
		key := Key(path, model.CategoryAll)
		require.NoError(t, os.WriteFile(store.statePath(key), []byte("{not json"), 0644))
		assert.Equal(t, MissReasonError, store.Get(path, model.CategoryAll).MissReason)
	})
}

func TestAppendKeepsState(t *testing.T) {
	path := writeLog(t, t.TempDir(), sampleLog)
	store := newStore(t)
	require.NoError(t, store.Set(path, samplePage(model.CategoryAll, int64(len(sampleLog)))))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("W 2024-01-15T08:30:02Z appended\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.True(t, store.Get(path, model.CategoryAll).Found)
}

func TestSetErrors(t *testing.T) {
	store := newStore(t)

	assert.Error(t, store.Set("/does/not/exist.log", samplePage(model.CategoryAll, 1)))
	assert.Error(t, store.Set(writeLog(t, t.TempDir(), sampleLog), nil))
}

func TestDeleteAndClear(t *testing.T) {
	path := writeLog(t, t.TempDir(), sampleLog)
	store := newStore(t)
	require.NoError(t, store.Set(path, samplePage(model.CategoryAll, 10)))
	require.NoError(t, store.Set(path, samplePage(model.SetOf(model.CategoryE), 10)))

	memoryCount, fileCount := store.Count()
	assert.Equal(t, 2, memoryCount)
	assert.Equal(t, 2, fileCount)

	require.NoError(t, store.Delete(path, model.CategoryAll))
	assert.False(t, store.Get(path, model.CategoryAll).Found)
	assert.True(t, store.Get(path, model.SetOf(model.CategoryE)).Found)
	require.NoError(t, store.Delete(path, model.CategoryAll), "deleting twice is fine")

	require.NoError(t, store.Clear())
	memoryCount, fileCount = store.Count()
	assert.Equal(t, 0, memoryCount)
	assert.Equal(t, 0, fileCount)
}

func TestMissReasonString(t *testing.T) {
	assert.Equal(t, "not found", MissReasonNotFound.String())
	assert.Equal(t, "file truncated", MissReasonTruncated.String())
	assert.Equal(t, "MissReason(42)", MissReason(42).String())
}
