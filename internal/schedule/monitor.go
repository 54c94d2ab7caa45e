// Package schedule runs periodic monitoring passes over the configured
// repositories.
package schedule

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/crumbwatch/crumbwatch/internal/log"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// DefaultInterval is how often repositories are re-scanned.
const DefaultInterval = time.Hour

// defaultConcurrency bounds how many repositories are processed at once.
const defaultConcurrency = 4

// Processor runs one monitoring pass over a repository.
type Processor interface {
	ProcessRepository(ctx context.Context, owner, repo string) (*model.Analytics, error)
}

// ConfigSource lists the repository configs to monitor.
type ConfigSource interface {
	All() []*model.RepositoryConfig
}

// Clock abstracts time for testing.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Monitor drives periodic scans. Repositories run concurrently up to a
// limit, and a repository whose previous scan is still running when the
// next tick arrives is skipped rather than scanned twice.
type Monitor struct {
	processor Processor
	configs   ConfigSource
	interval  time.Duration
	clock     Clock
	sem       *semaphore.Weighted

	mu       sync.Mutex
	inFlight map[string]bool
	wg       sync.WaitGroup
}

// NewMonitor returns a monitor scanning at the given interval. A zero or
// negative interval falls back to the default.
func NewMonitor(processor Processor, configs ConfigSource, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		processor: processor,
		configs:   configs,
		interval:  interval,
		clock:     realClock{},
		sem:       semaphore.NewWeighted(defaultConcurrency),
		inFlight:  make(map[string]bool),
	}
}

// WithClock overrides the monitor's time source (for testing).
func (m *Monitor) WithClock(clock Clock) *Monitor {
	m.clock = clock
	return m
}

// Run scans immediately, then on every interval tick, until the context
// is cancelled. Outstanding scans are waited for before returning the
// context's error.
func (m *Monitor) Run(ctx context.Context) error {
	log.Info("monitor started", "interval", m.interval)

	m.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			m.wg.Wait()
			log.Info("monitor stopped")
			return ctx.Err()
		case <-m.clock.After(m.interval):
			m.Tick(ctx)
		}
	}
}

// Tick schedules one scan for every active repository that is not
// already being scanned. It blocks only while waiting for concurrency
// slots, not for the scans themselves. Scan errors are logged per
// repository.
func (m *Monitor) Tick(ctx context.Context) {
	scheduled := 0
	for _, cfg := range m.configs.All() {
		if !cfg.Active {
			continue
		}
		if !m.begin(cfg.RepositoryID) {
			log.Debug("scan already in flight, skipping", "repository", cfg.RepositoryID)
			continue
		}
		if err := m.sem.Acquire(ctx, 1); err != nil {
			m.end(cfg.RepositoryID)
			return
		}
		scheduled++

		owner, repo := cfg.Owner, cfg.Name
		repositoryID := cfg.RepositoryID
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			defer m.sem.Release(1)
			defer m.end(repositoryID)
			if _, err := m.processor.ProcessRepository(ctx, owner, repo); err != nil {
				log.Warn("scheduled scan failed", "repository", repositoryID, "error", err)
			}
		}()
	}
	log.Debug("tick complete", "scheduled", scheduled)
}

// Wait blocks until all in-flight scans finish (for testing).
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// begin marks a repository as in flight. It returns false if a scan for
// that repository is already running.
func (m *Monitor) begin(repositoryID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight[repositoryID] {
		return false
	}
	m.inFlight[repositoryID] = true
	return true
}

func (m *Monitor) end(repositoryID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, repositoryID)
}
