package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	timescheduler "github.com/zordon-wallet/zordon/internal/infrastructure/scheduler/gocron"
)

func TestScheduleAfter(t *testing.T) {
	t.Parallel()

	svc := timescheduler.NewScheduler()
	svc.Start()
	t.Cleanup(svc.Stop)

	var fired atomic.Int64
	_, err := svc.ScheduleAfter(time.Second, func() {
		fired.Add(1)
	})
	require.NoError(t, err)

	time.Sleep(2500 * time.Millisecond)
	require.Equal(t, int64(1), fired.Load())
}

func TestScheduleAfterCancel(t *testing.T) {
	t.Parallel()

	svc := timescheduler.NewScheduler()
	svc.Start()
	t.Cleanup(svc.Stop)

	var fired atomic.Int64
	cancel, err := svc.ScheduleAfter(2*time.Second, func() {
		fired.Add(1)
	})
	require.NoError(t, err)

	cancel()
	time.Sleep(3 * time.Second)
	require.Zero(t, fired.Load())

	// cancelling again is safe
	cancel()
}

func TestScheduleRepeating(t *testing.T) {
	t.Parallel()

	svc := timescheduler.NewScheduler()
	svc.Start()
	t.Cleanup(svc.Stop)

	var fired atomic.Int64
	_, err := svc.ScheduleRepeating(time.Second, 2, func() {
		fired.Add(1)
	})
	require.NoError(t, err)

	time.Sleep(4 * time.Second)
	require.Equal(t, int64(2), fired.Load())
}

func TestScheduleValidation(t *testing.T) {
	t.Parallel()

	svc := timescheduler.NewScheduler()

	_, err := svc.ScheduleAfter(0, func() {})
	require.Error(t, err)

	_, err = svc.ScheduleAfter(time.Second, nil)
	require.Error(t, err)

	_, err = svc.ScheduleRepeating(time.Second, 0, func() {})
	require.Error(t, err)
}
