// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     health
// Description: Named health checks shared by the HTTP and gRPC surfaces
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package health

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Status is the outcome of a check. Ordered from best to worst.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Result is the outcome of one named check
type Result struct {
	Name    string                 `json:"name"`
	Status  Status                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Latency time.Duration          `json:"latency"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Func performs a single check. Name and Latency are filled in by the
// registry.
type Func func(ctx context.Context) Result

// Ping turns an error-returning probe into a check
func Ping(probe func(ctx context.Context) error) Func {
	return func(ctx context.Context) Result {
		if err := probe(ctx); err != nil {
			return Result{Status: StatusUnhealthy, Message: err.Error()}
		}
		return Result{Status: StatusHealthy}
	}
}

// Canary runs a known input through run and compares the output with want.
// A wrong answer is unhealthy; a correct answer slower than slow is
// degraded. A zero slow disables the latency check.
func Canary(run func(ctx context.Context) (string, error), want string, slow time.Duration) Func {
	return func(ctx context.Context) Result {
		start := time.Now()
		got, err := run(ctx)
		took := time.Since(start)

		switch {
		case err != nil:
			return Result{Status: StatusUnhealthy, Message: err.Error()}
		case got != want:
			return Result{
				Status:  StatusUnhealthy,
				Message: "unexpected canary output",
				Details: map[string]interface{}{"want": want, "got": got},
			}
		case slow > 0 && took > slow:
			return Result{
				Status:  StatusDegraded,
				Message: fmt.Sprintf("canary took %s", took.Round(time.Microsecond)),
			}
		}
		return Result{Status: StatusHealthy}
	}
}

// Registry holds the checks of one component
type Registry struct {
	mu      sync.RWMutex
	checks  map[string]Func
	name    string
	version string
	started time.Time
}

// NewRegistry creates an empty registry for a component
func NewRegistry(component, version string) *Registry {
	return &Registry{
		checks:  make(map[string]Func),
		name:    component,
		version: version,
		started: time.Now(),
	}
}

// Add registers fn under name, replacing an existing check
func (r *Registry) Add(name string, fn Func) {
	r.mu.Lock()
	r.checks[name] = fn
	r.mu.Unlock()
}

// Remove drops the check called name
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	delete(r.checks, name)
	r.mu.Unlock()
}

// Names returns the registered check names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Run executes all checks in parallel. The report status is the worst
// single status, an empty registry is healthy.
func (r *Registry) Run(ctx context.Context) *Report {
	names := r.Names()

	r.mu.RLock()
	fns := make([]Func, len(names))
	for i, name := range names {
		fns[i] = r.checks[name]
	}
	r.mu.RUnlock()

	results := make([]Result, len(names))
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Now()
			res := fns[i](ctx)
			res.Name = names[i]
			res.Latency = time.Since(start)
			if res.Status == "" {
				res.Status = StatusHealthy
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	status := StatusHealthy
	for _, res := range results {
		if res.Status.rank() > status.rank() {
			status = res.Status
		}
	}

	return &Report{
		Component: r.name,
		Version:   r.version,
		Status:    status,
		Uptime:    time.Since(r.started),
		CheckedAt: time.Now(),
		Checks:    results,
	}
}

// RunWithTimeout is Run bounded by timeout
func (r *Registry) RunWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Run(ctx)
}

// Report is the combined result of a registry run
type Report struct {
	Component string        `json:"component"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	CheckedAt time.Time     `json:"checked_at"`
	Checks    []Result      `json:"checks"`
}

// Healthy is false only when a check is unhealthy; degraded still serves
func (r *Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// Failing lists the names of checks that are not healthy
func (r *Report) Failing() []string {
	var names []string
	for _, c := range r.Checks {
		if c.Status != StatusHealthy {
			names = append(names, c.Name)
		}
	}
	return names
}

func (r *Report) String() string {
	s := fmt.Sprintf("%s %s: %s (%d checks)", r.Component, r.Version, r.Status, len(r.Checks))
	if failing := r.Failing(); len(failing) > 0 {
		s += ", failing: " + strings.Join(failing, ", ")
	}
	return s
}
