package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

var (
	ErrFailedToCreateScheduler = errors.New("failed to create scheduler")
	ErrRunAlreadyExists        = errors.New("run already registered")
	ErrFailedToCreateJob       = errors.New("failed to create job")
	ErrFailedToGetNextRun      = errors.New("failed to get next run time")
	ErrRunNotFound             = errors.New("run not found")
)

// Task is one scheduled scrape.
type Task func(ctx context.Context) error

// Runner fires registered scrape runs on cron schedules. A run that is still
// going when its next tick arrives is rescheduled instead of overlapping.
type Runner struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
	tasks     map[string]Task
	mu        sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRunner creates a runner. Extra options are passed to gocron, e.g.
// gocron.WithClock for tests.
func NewRunner(opts ...gocron.SchedulerOption) (*Runner, error) {
	opts = append([]gocron.SchedulerOption{
		gocron.WithLocation(time.UTC),
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		),
	}, opts...)

	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create scheduler")
		return nil, ErrFailedToCreateScheduler
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		scheduler: scheduler,
		jobs:      make(map[string]gocron.Job),
		tasks:     make(map[string]Task),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Register schedules task under name. Five-field cron expressions run on
// minute resolution, six-field ones include seconds.
func (r *Runner) Register(name, cronSchedule string, task Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[name]; exists {
		log.Error().Str("run", name).Msg("Run already registered")
		return ErrRunAlreadyExists
	}

	withSeconds := len(strings.Fields(cronSchedule)) == 6
	job, err := r.scheduler.NewJob(
		gocron.CronJob(cronSchedule, withSeconds),
		gocron.NewTask(r.execute, name),
		gocron.WithName(strings.Join([]string{"scrape", name}, "_")),
		gocron.WithTags("scrape", name),
	)
	if err != nil {
		log.Error().Err(err).Str("run", name).Msg("Failed to schedule run")
		return fmt.Errorf("%w: %w", ErrFailedToCreateJob, err)
	}

	r.tasks[name] = task
	r.jobs[name] = job

	nextRun, err := job.NextRun()
	if err != nil {
		log.Error().Err(err).Str("run", name).Msg("Failed to get next run time")
		return ErrFailedToGetNextRun
	}

	log.Info().
		Str("run", name).
		Str("cron", cronSchedule).
		Time("next_run", nextRun).
		Msg("Scrape registered with scheduler")

	return nil
}

func (r *Runner) execute(name string) {
	r.mu.RLock()
	task, exists := r.tasks[name]
	r.mu.RUnlock()

	if !exists {
		log.Error().Str("run", name).Msg("Run not found in registry")
		return
	}

	log.Info().Str("run", name).Msg("Starting scheduled scrape")
	if err := task(r.ctx); err != nil {
		log.Error().Err(err).Str("run", name).Msg("Scheduled scrape failed")
	}
}

func (r *Runner) Start() {
	r.scheduler.Start()
	log.Info().Int("jobs", len(r.jobs)).Msg("Scheduler started")
}

// Stop cancels running tasks and shuts the scheduler down.
func (r *Runner) Stop() error {
	r.cancel()
	return r.scheduler.Shutdown()
}

// RunNow triggers a registered run outside its schedule.
func (r *Runner) RunNow(name string) error {
	r.mu.RLock()
	job, exists := r.jobs[name]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrRunNotFound, name)
	}
	return job.RunNow()
}

func (r *Runner) NextRun(name string) (time.Time, error) {
	r.mu.RLock()
	job, exists := r.jobs[name]
	r.mu.RUnlock()

	if !exists {
		return time.Time{}, fmt.Errorf("%w: %s", ErrRunNotFound, name)
	}
	return job.NextRun()
}
