package viewer

import (
	"strconv"
	"time"

	"github.com/Sonicaii/lerche/pkg/api"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks two independently sourced rates:
//
//   - the backend-reported capture fps, passed through as-is. When the
//     backend omits the value the last shown one is kept, never reset
//     (the capture side only refreshes its counter once a second).
//   - the locally measured loop throughput: completed iterations within
//     the most recently closed whole wall-clock second. A plain window
//     counter, not a smoothed average.
type Metrics struct {
	now func() time.Time

	reported uint32
	measured int
	winStart int64
	winCount int

	gaugeReported prometheus.Gauge
	gaugeMeasured prometheus.Gauge
}

func NewMetrics(now func() time.Time) *Metrics {
	if now == nil {
		now = time.Now
	}
	return &Metrics{
		now: now,
		gaugeReported: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lerche",
			Name:      "reported_fps",
			Help:      "Frame rate self-reported by the capture backend.",
		}),
		gaugeMeasured: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lerche",
			Name:      "measured_fps",
			Help:      "Render loop iterations completed in the last closed second.",
		}),
	}
}

// Collectors returns the gauges for an optional registry; Metrics never
// registers itself so tests can build as many trackers as they like.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.gaugeReported, m.gaugeMeasured}
}

// Tick records one completed successful iteration. closed reports
// whether a whole second just ended and MeasuredRate got a new value.
func (m *Metrics) Tick(reported uint32) (closed bool) {
	if reported != api.RateUnknown {
		m.reported = reported
		m.gaugeReported.Set(float64(reported))
	}
	sec := m.now().Unix()
	if sec > m.winStart {
		m.measured = m.winCount
		m.winCount = 0
		m.winStart = sec
		m.gaugeMeasured.Set(float64(m.measured))
		closed = true
	}
	m.winCount++
	return closed
}

// MeasuredRate is the iteration count of the last closed second.
func (m *Metrics) MeasuredRate() int { return m.measured }

// ReportedRate formats the backend rate, "n/a" until first reported.
func (m *Metrics) ReportedRate() string {
	if m.reported == api.RateUnknown {
		return "n/a"
	}
	return strconv.Itoa(int(m.reported))
}
