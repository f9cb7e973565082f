package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPing(t *testing.T) {
	tests := []struct {
		name  string
		probe func(ctx context.Context) error
		want  Status
	}{
		{"ok", func(ctx context.Context) error { return nil }, StatusHealthy},
		{"failing", func(ctx context.Context) error { return errors.New("database is locked") }, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ping(tt.probe)(context.Background()).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanary(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
		delay  time.Duration
		slow   time.Duration
		want   Status
	}{
		{"correct", "(1 + (2 * 3))", nil, 0, 0, StatusHealthy},
		{"wrong output", "((1 + 2) * 3)", nil, 0, 0, StatusUnhealthy},
		{"error", "", errors.New("boom"), 0, 0, StatusUnhealthy},
		{"slow", "(1 + (2 * 3))", nil, 20 * time.Millisecond, time.Millisecond, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func(ctx context.Context) (string, error) {
				time.Sleep(tt.delay)
				return tt.output, tt.err
			}

			res := Canary(run, "(1 + (2 * 3))", tt.slow)(context.Background())
			if res.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", res.Status, tt.want, res.Message)
			}
		})
	}
}

func TestRegistry_Run(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"degraded wins over healthy", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
		{"empty status counts as healthy", []Status{""}, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("frege", "0.1.0")
			// added in reverse so the report has to sort
			for i := len(tt.statuses) - 1; i >= 0; i-- {
				status := tt.statuses[i]
				registry.Add(string(rune('a'+i)), func(ctx context.Context) Result {
					return Result{Status: status}
				})
			}

			report := registry.Run(context.Background())

			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Fatalf("len(Checks) = %d, want %d", len(report.Checks), len(tt.statuses))
			}
			for i, c := range report.Checks {
				if c.Name != string(rune('a'+i)) {
					t.Errorf("Checks[%d].Name = %q, want sorted names", i, c.Name)
				}
			}
			if report.Healthy() != (tt.want != StatusUnhealthy) {
				t.Errorf("Healthy() = %v", report.Healthy())
			}
		})
	}
}

func TestRegistry_Remove(t *testing.T) {
	registry := NewRegistry("frege", "0.1.0")
	registry.Add("parser", Ping(func(ctx context.Context) error { return nil }))
	registry.Remove("parser")

	if report := registry.RunWithTimeout(time.Second); len(report.Checks) != 0 {
		t.Errorf("len(Checks) = %d, want 0", len(report.Checks))
	}
}

func TestReport_String(t *testing.T) {
	registry := NewRegistry("frege", "0.1.0")
	if got := registry.Run(context.Background()).String(); got != "frege 0.1.0: healthy (0 checks)" {
		t.Errorf("String() = %q", got)
	}

	registry.Add("history", Ping(func(ctx context.Context) error { return errors.New("closed") }))
	registry.Add("parser", Ping(func(ctx context.Context) error { return nil }))

	want := "frege 0.1.0: unhealthy (2 checks), failing: history"
	if got := registry.Run(context.Background()).String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
