package ports

import "time"

type CancelFunc func()

// SchedulerService runs background tasks for the sync service: the stall
// watchdog (one-shot) and the confirmation watcher (repeating, bounded).
type SchedulerService interface {
	Start()
	Stop()
	// ScheduleAfter runs task once after delay. The returned cancel func
	// is safe to call after the task has fired.
	ScheduleAfter(delay time.Duration, task func()) (CancelFunc, error)
	// ScheduleRepeating runs task every interval, at most runs times.
	ScheduleRepeating(interval time.Duration, runs int, task func()) (CancelFunc, error)
}
