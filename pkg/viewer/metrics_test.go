package viewer

import (
	"testing"
	"time"

	"github.com/Sonicaii/lerche/pkg/api"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMeasuredRateCountsIterationsPerClosedSecond(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := NewMetrics(clock.now)

	m.Tick(api.RateUnknown) // opens the window at second 1000
	const n = 42
	for i := 0; i < n; i++ {
		m.Tick(api.RateUnknown)
		clock.advance(time.Second / (n + 1))
	}
	if m.MeasuredRate() != 0 {
		t.Fatalf("measured = %v before the second closed, want 0", m.MeasuredRate())
	}

	clock.t = time.Unix(1001, 0)
	if closed := m.Tick(api.RateUnknown); !closed {
		t.Fatal("tick in the next second did not close the window")
	}
	if m.MeasuredRate() != n+1 {
		t.Errorf("measured = %v, want %v", m.MeasuredRate(), n+1)
	}

	// the closing tick itself starts the new window
	clock.t = time.Unix(1002, 0)
	m.Tick(api.RateUnknown)
	if m.MeasuredRate() != 1 {
		t.Errorf("measured = %v after a one-tick second, want 1", m.MeasuredRate())
	}
}

func TestMeasuredRateIndependentOfReportedRate(t *testing.T) {
	clock := &fakeClock{t: time.Unix(5, 0)}
	m := NewMetrics(clock.now)

	m.Tick(120)
	m.Tick(30)
	m.Tick(api.RateUnknown)
	clock.t = time.Unix(6, 0)
	m.Tick(999)
	if m.MeasuredRate() != 3 {
		t.Errorf("measured = %v, want 3 regardless of reported values", m.MeasuredRate())
	}
}

func TestReportedRateIsPassthrough(t *testing.T) {
	m := NewMetrics((&fakeClock{t: time.Unix(1, 0)}).now)

	if got := m.ReportedRate(); got != "n/a" {
		t.Errorf("initial reported = %q, want n/a", got)
	}
	m.Tick(60)
	if got := m.ReportedRate(); got != "60" {
		t.Errorf("reported = %q, want 60", got)
	}
	// omitted value keeps the previous one, never resets
	m.Tick(api.RateUnknown)
	if got := m.ReportedRate(); got != "60" {
		t.Errorf("reported = %q after omission, want 60", got)
	}
	m.Tick(144)
	if got := m.ReportedRate(); got != "144" {
		t.Errorf("reported = %q, want 144", got)
	}
}
