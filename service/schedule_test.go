package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/airlab_end/models"
)

type countingWarmer struct {
	calls atomic.Int32
}

func (c *countingWarmer) Warm(ctx context.Context) map[models.ContentType]bool {
	c.calls.Add(1)
	return map[models.ContentType]bool{models.ContentProjects: true, models.ContentTeam: false}
}

func TestNewWarmerRejectsBadSchedule(t *testing.T) {
	_, err := NewWarmer(&countingWarmer{}, "every now and then")
	assert.Error(t, err)
}

func TestWarmerRunOnce(t *testing.T) {
	l := &countingWarmer{}
	w, err := NewWarmer(l, "*/5 * * * *")
	require.NoError(t, err)

	result := w.RunOnce(context.Background())

	assert.Equal(t, 1, w.Runs())
	assert.False(t, result[models.ContentTeam])
	assert.Equal(t, result, w.LastRun())
}

func TestWarmerRunsOnSchedule(t *testing.T) {
	l := &countingWarmer{}
	w, err := NewWarmer(l, "@every 1s")
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	require.Eventually(t, func() bool {
		return l.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
	w.Stop()

	assert.GreaterOrEqual(t, w.Runs(), 1)
}
