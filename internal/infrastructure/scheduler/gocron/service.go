package timescheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/zordon-wallet/zordon/internal/core/ports"
)

type service struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	return &service{svc}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
}

func (s *service) ScheduleAfter(
	delay time.Duration, task func(),
) (ports.CancelFunc, error) {
	if delay <= 0 {
		return nil, fmt.Errorf("invalid delay: %s", delay)
	}
	if task == nil {
		return nil, fmt.Errorf("missing task")
	}

	job, err := s.scheduler.Every(delay).WaitForSchedule().LimitRunsTo(1).Do(task)
	if err != nil {
		return nil, err
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.scheduler.RemoveByReference(job)
		})
	}
	return cancel, nil
}

func (s *service) ScheduleRepeating(
	interval time.Duration, runs int, task func(),
) (ports.CancelFunc, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}
	if runs <= 0 {
		return nil, fmt.Errorf("invalid run count: %d", runs)
	}
	if task == nil {
		return nil, fmt.Errorf("missing task")
	}

	job, err := s.scheduler.Every(interval).WaitForSchedule().LimitRunsTo(runs).Do(task)
	if err != nil {
		return nil, err
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.scheduler.RemoveByReference(job)
		})
	}
	return cancel, nil
}
