package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/riskdash/internal/pipeline"
	"github.com/wonny/riskdash/internal/risk"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	doubleSeparator = "═══════════════════════════════════════════════════════════"
	separator       = "───────────────────────────────────────────────────────────"

	// histogramBarWidth 가장 큰 버킷의 막대 길이
	histogramBarWidth = 40
)

// PrintDashboard prints a dashboard as text
func PrintDashboard(w io.Writer, d *pipeline.Dashboard) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleSeparator)
	fmt.Fprintf(w, "  Model     : %s\n", d.Model)
	fmt.Fprintf(w, "  Run ID    : %s\n", d.RunID)
	fmt.Fprintln(w, separator)

	if d.Unknown {
		fmt.Fprintf(w, "  %s\n", d.Title)
		if d.Message != "" {
			fmt.Fprintf(w, "  %s\n", d.Message)
		}
		fmt.Fprintln(w, doubleSeparator)
		return
	}

	fmt.Fprintf(w, "  %s\n", d.MetricsLine)
	fmt.Fprintln(w, separator)

	printSummary(w, d.Summary)

	if d.Fan != nil {
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "  Fan chart : %d paths, t ∈ [%d, %d]\n", len(d.Fan.Series), d.Fan.Domain[0], d.Fan.Domain[1])
	}

	if len(d.Histogram) > 0 {
		fmt.Fprintln(w, separator)
		printHistogram(w, d.Histogram)
	}

	fmt.Fprintln(w, doubleSeparator)
}

func printSummary(w io.Writer, s risk.Summary) {
	fmt.Fprintf(w, "  %-8s %12d\n", "Count:", s.Count)
	if s.Count == 0 {
		return
	}
	rows := []struct {
		label string
		value float64
	}{
		{"Mean:", s.Mean},
		{"StdDev:", s.StdDev},
		{"Min:", s.Min},
		{"P5:", s.P5},
		{"P50:", s.P50},
		{"P95:", s.P95},
		{"Max:", s.Max},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-8s %12.2f\n", row.label, row.value)
	}
}

func printHistogram(w io.Writer, buckets []risk.Bucket) {
	peak := 0
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
	}

	for _, b := range buckets {
		bar := 0
		if peak > 0 {
			bar = b.Count * histogramBarWidth / peak
		}
		fmt.Fprintf(w, "  %12.2f │%-*s %d\n", b.LeftEdge, histogramBarWidth, strings.Repeat("█", bar), b.Count)
	}
}
