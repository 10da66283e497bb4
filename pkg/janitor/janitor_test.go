package janitor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/logger"
)

func TestJanitor_Schedule_BadSpec(t *testing.T) {
	t.Parallel()
	jan := New(logger.Discard())

	err := jan.Schedule("not a cron spec", Task{Name: "noop", Run: func(context.Context) (int64, error) {
		return 0, nil
	}})
	assert.Error(t, err)
}

func TestJanitor_RunsTask(t *testing.T) {
	t.Parallel()
	jan := New(logger.Discard(), WithTimeout(time.Second))

	var runs atomic.Int32
	require.NoError(t, jan.Schedule("* * * * *", Task{Name: "sweep", Run: func(ctx context.Context) (int64, error) {
		runs.Add(1)
		return 1, nil
	}}))

	// Fire the entry directly instead of waiting a minute for the tick.
	for _, entry := range jan.cron.Entries() {
		entry.Job.Run()
	}
	assert.EqualValues(t, 1, runs.Load())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jan.Start()
	require.NoError(t, jan.Stop(ctx))
}
