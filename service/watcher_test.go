package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/airlab_end/models"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	types []models.ContentType
}

func (r *recordingInvalidator) InvalidateContent(ctx context.Context, types ...models.ContentType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, types...)
}

func (r *recordingInvalidator) seen() []models.ContentType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ContentType(nil), r.types...)
}

func TestContentTypeForFile(t *testing.T) {
	tests := map[string]struct {
		want models.ContentType
		ok   bool
	}{
		"/data/projects.json":      {models.ContentProjects, true},
		"research.json":            {models.ContentResearch, true},
		"/data/.projects-123.json": {"", false},
		"/data/projects.json.bak":  {"", false},
		"/data/events.json":        {"", false},
	}
	for name, tt := range tests {
		got, ok := contentTypeForFile(name)
		assert.Equal(t, tt.ok, ok, name)
		assert.Equal(t, tt.want, got, name)
	}
}

func TestFixtureWatcherInvalidatesChangedCollection(t *testing.T) {
	dir := t.TempDir()
	inv := &recordingInvalidator{}
	w := NewFixtureWatcher(dir, inv, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "team.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		return len(inv.seen()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	for _, ct := range inv.seen() {
		assert.Equal(t, models.ContentTeam, ct)
	}

	cancel()
	w.Wait()
}

func TestFixtureWatcherMissingDir(t *testing.T) {
	w := NewFixtureWatcher(filepath.Join(t.TempDir(), "missing"), &recordingInvalidator{}, 0)
	assert.Error(t, w.Start(context.Background()))
	w.Wait()
}
