package risk

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/riskdash/internal/simulation"
)

func sumCounts(buckets []Bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

// =============================================================================
// Histogram
// =============================================================================

func TestHistogramEmpty(t *testing.T) {
	assert.Empty(t, Histogram(nil, DefaultBins))
	assert.Empty(t, Histogram([]float64{}, DefaultBins))
}

func TestHistogramCountsSumToLength(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 2, 7, 100, 20000} {
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64()*15 - 3
		}

		buckets := Histogram(values, DefaultBins)
		require.Len(t, buckets, DefaultBins)
		assert.Equal(t, n, sumCounts(buckets), "n=%d", n)
	}
}

func TestHistogramConstantInput(t *testing.T) {
	buckets := Histogram([]float64{5, 5, 5, 5}, DefaultBins)
	require.Len(t, buckets, DefaultBins)

	nonZero := 0
	for _, b := range buckets {
		if b.Count > 0 {
			nonZero++
		}
	}
	assert.Equal(t, 1, nonZero)
	assert.Equal(t, 4, buckets[0].Count)

	// width fallback = 1
	assert.Equal(t, 5.0, buckets[0].LeftEdge)
	assert.Equal(t, 6.0, buckets[1].LeftEdge)
	assert.Equal(t, 54.0, buckets[49].LeftEdge)
}

func TestHistogramMaxFallsInLastBucket(t *testing.T) {
	buckets := Histogram([]float64{0, 10}, 10)
	require.Len(t, buckets, 10)

	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 1, buckets[9].Count)
	assert.Equal(t, 9.0, buckets[9].LeftEdge)
}

func TestHistogramEdgesAscendingAndRounded(t *testing.T) {
	buckets := Histogram([]float64{0, 1}, 3)
	require.Len(t, buckets, 3)

	assert.Equal(t, 0.0, buckets[0].LeftEdge)
	assert.Equal(t, 0.33, buckets[1].LeftEdge)
	assert.Equal(t, 0.67, buckets[2].LeftEdge)
	for i := 1; i < len(buckets); i++ {
		assert.Less(t, buckets[i-1].LeftEdge, buckets[i].LeftEdge)
	}
}

func TestHistogramDefaultBins(t *testing.T) {
	assert.Len(t, Histogram([]float64{1, 2, 3}, 0), DefaultBins)
}

func TestHistogramDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Histogram(values, 5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

// =============================================================================
// Fan
// =============================================================================

func makePaths(rows, cols int) [][]float64 {
	paths := make([][]float64, rows)
	for i := range paths {
		paths[i] = make([]float64, cols)
		for t := range paths[i] {
			paths[i][t] = float64(i*1000 + t)
		}
	}
	return paths
}

func TestFanSampleCapsAtLimit(t *testing.T) {
	paths := makePaths(25, 11)
	fan := FanSample(paths, DefaultFanCap)

	require.Len(t, fan.Series, 20)
	for i, s := range fan.Series {
		require.Len(t, s, 11)
		for tIdx, p := range s {
			assert.Equal(t, tIdx, p.T)
			assert.Equal(t, paths[i][tIdx], p.Y)
		}
	}
	assert.Equal(t, [2]int{0, 11}, fan.Domain)
}

func TestFanSampleFewerRowsThanCap(t *testing.T) {
	fan := FanSample(makePaths(5, 3), DefaultFanCap)
	assert.Len(t, fan.Series, 5)
	assert.Equal(t, [2]int{0, 3}, fan.Domain)
}

func TestFanSampleEmpty(t *testing.T) {
	fan := FanSample(nil, DefaultFanCap)
	assert.Empty(t, fan.Series)
	assert.Equal(t, [2]int{0, 0}, fan.Domain)
}

func TestFanSampleDoesNotMutateInput(t *testing.T) {
	paths := makePaths(3, 2)
	fan := FanSample(paths, 2)
	fan.Series[0][0].Y = -1

	assert.Equal(t, 0.0, paths[0][0])
	assert.Len(t, paths, 3)
}

// =============================================================================
// Format
// =============================================================================

func ptr(v float64) *float64 { return &v }

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name    string
		in      *float64
		want    string
		present bool
	}{
		{"absent", nil, "", false},
		{"zero is rendered", ptr(0), "0.00", true},
		{"two decimals", ptr(12.3456), "12.35", true},
		{"negative", ptr(-7.1), "-7.10", true},
		{"integer", ptr(100), "100.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatValue(tt.in)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMetricsLine(t *testing.T) {
	view := FormatMetrics(simulation.Metrics{VaR: ptr(-12.345), ES: ptr(-20)})
	assert.True(t, view.HasVaR)
	assert.True(t, view.HasES)
	assert.Equal(t, "VaR: -12.35 | ES: -20.00", view.Line(""))
	assert.Equal(t, "Terminal Cost — VaR: -12.35 | ES: -20.00", view.Line("Terminal Cost — "))

	missing := FormatMetrics(simulation.Metrics{})
	assert.False(t, missing.HasVaR)
	assert.False(t, missing.HasES)
	assert.Equal(t, "VaR:  | ES: ", missing.Line(""))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, -0.5, Round2(-0.5))
	assert.True(t, math.IsNaN(Round2(math.NaN())))
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
}

// =============================================================================
// Summary
// =============================================================================

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{5, 1, 3, 2, 4})

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.P50)
	assert.InDelta(t, 1.2, s.P5, 1e-12)
	assert.InDelta(t, 4.8, s.P95, 1e-12)
}

func TestSummarizeEdgeCases(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	one := Summarize([]float64{7})
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 0.0, one.StdDev)
	assert.Equal(t, 7.0, one.P95)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.Equal(t, 10.0, Percentile(sorted, 0))
	assert.Equal(t, 40.0, Percentile(sorted, 100))
	assert.InDelta(t, 25.0, Percentile(sorted, 50), 1e-12)
	assert.Equal(t, 0.0, Percentile(nil, 50))
}
