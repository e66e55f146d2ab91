package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"closetrent/internal/caching"
	"closetrent/internal/jobs"
	"closetrent/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const (
	JobOverdueRentals = "overdue-rentals"
	JobCacheFlush     = "cache-flush"
)

// Intervals configures the scheduled jobs. A zero interval disables the job.
type Intervals struct {
	OverdueCheck time.Duration
	CacheFlush   time.Duration
}

// JobScheduler runs the periodic background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	overdue   *jobs.OverdueReportService
	cacheSvc  caching.CacheService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
	log       *logrus.Entry
}

// NewJobScheduler creates the scheduler and registers the enabled jobs.
func NewJobScheduler(overdue *jobs.OverdueReportService, cacheSvc caching.CacheService, intervals Intervals) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		overdue:   overdue,
		cacheSvc:  cacheSvc,
		jobs:      make(map[string]gocron.Job),
		log:       logger.WithComponent("scheduler"),
	}

	if intervals.OverdueCheck > 0 {
		if err := js.AddJob(JobOverdueRentals, intervals.OverdueCheck, js.overdue.Run); err != nil {
			return nil, err
		}
	}
	if intervals.CacheFlush > 0 {
		if err := js.AddJob(JobCacheFlush, intervals.CacheFlush, js.flushCache); err != nil {
			return nil, err
		}
	}

	js.log.WithField("jobs", len(js.jobs)).Info("Registered background jobs")
	return js, nil
}

// AddJob schedules fn every interval. Runs of the same job never overlap.
func (js *JobScheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn, context.Background()),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}
	js.jobs[name] = job
	return nil
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not registered", name)
	}
	return job.RunNow()
}

// JobNames returns the registered job names.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) Start() {
	js.log.Info("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// flushCache drops every cached entry so stale reads cannot outlive one
// flush interval even if an invalidation was missed.
func (js *JobScheduler) flushCache(ctx context.Context) error {
	if err := js.cacheSvc.InvalidateAll(ctx); err != nil {
		js.log.WithError(err).Warn("Cache flush failed")
		return err
	}
	js.log.Debug("Cache flushed")
	return nil
}
