package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(body), 0o644))
}

func TestFileStoreRawReturnsDecodedJSON(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "projects", `[{"id":"1","title":"X"}]`)
	store := NewFileStore(dir, "projects", "id")

	raw, err := store.Raw(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []any{map[string]any{"id": "1", "title": "X"}}, raw)
}

func TestFileStoreRawKeepsNonArrayRoot(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "team", `{"broken":true}`)
	store := NewFileStore(dir, "team", "id")

	raw, err := store.Raw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"broken": true}, raw)

	_, err = store.List(context.Background())
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestFileStoreRawMissingFile(t *testing.T) {
	store := NewFileStore(t.TempDir(), "news", "id")

	_, err := store.Raw(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "news.json")
}

func TestFileStoreListMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir(), "news", "id")

	docs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileStoreCRUD(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "projects", `[{"id":"3","title":"A"},{"id":"p-x","title":"B"}]`)
	store := NewFileStore(dir, "projects", "id")
	ctx := context.Background()

	created, err := store.Create(ctx, map[string]any{"title": "C"})
	require.NoError(t, err)
	assert.Equal(t, "4", created["id"])

	got, err := store.Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "C", got["title"])

	updated, err := store.Update(ctx, "4", map[string]any{"id": "ignored", "title": "D"})
	require.NoError(t, err)
	assert.Equal(t, "4", updated["id"])

	require.NoError(t, store.Delete(ctx, "3"))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p-x", docs[0]["id"])
	assert.Equal(t, "D", docs[1]["title"])

	// 写入后文件仍是合法的JSON数组
	raw, err := store.Raw(ctx)
	require.NoError(t, err)
	assert.Len(t, raw, 2)
}

func TestFileStoreCreateKeepsProvidedID(t *testing.T) {
	store := NewFileStore(t.TempDir(), "research", "_id")

	created, err := store.Create(context.Background(), map[string]any{"_id": "paper-1"})
	require.NoError(t, err)
	assert.Equal(t, "paper-1", created["_id"])

	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestFileStoreCreateRejectsExistingID(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "projects", `[{"id":"1","title":"A"}]`)
	store := NewFileStore(dir, "projects", "id")
	ctx := context.Background()

	_, err := store.Create(ctx, map[string]any{"id": "1", "title": "B"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	// 数字形式的主键按字符串比较
	_, err = store.Create(ctx, map[string]any{"id": float64(1), "title": "C"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "A", docs[0]["title"])
}

func TestFileStoreNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "team", `[]`)
	store := NewFileStore(dir, "team", "id")
	ctx := context.Background()

	_, err := store.Get(ctx, "9")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Update(ctx, "9", map[string]any{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "9"), ErrNotFound)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "news", "id")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, map[string]any{"title": "n"})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "news.json", entries[0].Name())
}

func TestFileStoreReplaceAll(t *testing.T) {
	store := NewFileStore(t.TempDir(), "team", "id")
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, []map[string]any{{"id": "1"}, {"id": "2"}}))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestFileStoreHonoursCancelledContext(t *testing.T) {
	store := NewFileStore(t.TempDir(), "team", "id")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Raw(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
