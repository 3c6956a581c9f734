package stub

import (
	"math"
	"slices"
	"time"

	"github.com/STTM-NSU/trading-app/internal/model"
)

const _maxLatencySamples = 1000

func (b *Backend) observe(route string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	samples := append(b.latency[route], float64(d.Microseconds())/1000)
	if len(samples) > _maxLatencySamples {
		samples = samples[len(samples)-_maxLatencySamples:]
	}
	b.latency[route] = samples
}

// latencyStats must be called with mu held.
func (b *Backend) latencyStats() model.LatencyMetrics {
	out := make(model.LatencyMetrics, len(b.latency))
	for route, samples := range b.latency {
		sorted := slices.Clone(samples)
		slices.Sort(sorted)
		out[route] = model.LatencyMetricStats{
			Count: int64(len(sorted)),
			P50:   percentile(sorted, 50),
			P95:   percentile(sorted, 95),
			P99:   percentile(sorted, 99),
		}
	}
	return out
}

// percentile uses the nearest-rank method on sorted samples.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
