package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrBusy is returned when a guarded cycle is already running.
var ErrBusy = errors.New("already running")

// Guard lets one cycle run at a time. Callers that find it taken are turned away, never queued.
type Guard struct {
	running atomic.Bool
}

func (g *Guard) TryAcquire() bool { return g.running.CompareAndSwap(false, true) }
func (g *Guard) Release()         { g.running.Store(false) }
func (g *Guard) Running() bool    { return g.running.Load() }

// Run executes fn under the guard or returns ErrBusy without calling it.
func (g *Guard) Run(fn func() error) error {
	if !g.TryAcquire() {
		return ErrBusy
	}
	defer g.Release()
	return fn()
}

type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler ticks every job on its own interval. Jobs with a non-positive interval are skipped.
type Scheduler struct {
	jobs []Job
	wg   sync.WaitGroup
}

func New(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs}
}

func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		if j.Interval <= 0 {
			logrus.WithField("job", j.Name).Info("job has no interval, manual trigger only")
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

// Wait blocks until every job loop has returned after ctx is cancelled.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	defer s.wg.Done()
	log := logrus.WithField("job", j.Name)
	log.WithField("interval", j.Interval).Info("job scheduled")

	t := time.NewTicker(j.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("job stopped")
			return
		case <-t.C:
			// each tick runs on its own goroutine so a long cycle never leaves a tick buffered;
			// the job's guard turns overlapping ticks away
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.tick(ctx, j, log)
			}()
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, j Job, log *logrus.Entry) {
	err := j.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrBusy):
		log.Debug("previous cycle still running, tick skipped")
	case ctx.Err() != nil:
	default:
		log.WithError(err).Error("job cycle failed")
	}
}
