package service

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ExportedJobGuard lets _test packages exercise the guard.
type ExportedJobGuard = jobGuard

// jobGuard keeps at most one run of each scheduled job in flight.
type jobGuard struct {
	mu      sync.Mutex
	started map[string]time.Time
	wg      sync.WaitGroup
}

// TryStart marks job as running. It reports false, with the start time of
// the run in flight, when job is already running.
func (g *jobGuard) TryStart(job string) (bool, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started == nil {
		g.started = make(map[string]time.Time)
	}
	if since, ok := g.started[job]; ok {
		return false, since
	}
	g.started[job] = time.Now()
	g.wg.Add(1)
	return true, time.Time{}
}

// Finish ends a run begun by a successful TryStart.
func (g *jobGuard) Finish(job string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.started[job]; !ok {
		return
	}
	delete(g.started, job)
	g.wg.Done()
}

// Running lists the jobs currently in flight.
func (g *jobGuard) Running() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	jobs := make([]string, 0, len(g.started))
	for job := range g.started {
		jobs = append(jobs, job)
	}
	sort.Strings(jobs)
	return jobs
}

// Wait blocks until no job is running. It returns ctx.Err() if ctx ends first.
func (g *jobGuard) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
