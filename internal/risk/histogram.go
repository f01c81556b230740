package risk

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultBins 기본 히스토그램 버킷 수
const DefaultBins = 50

// Bucket 히스토그램 버킷
type Bucket struct {
	LeftEdge float64 `json:"left_edge"` // 소수 둘째 자리 반올림
	Count    int     `json:"count"`
}

// Histogram 고정 폭 경험적 분포
// - 빈 입력 → 빈 결과
// - width = (max-min)/bins, 0이면 (모든 값이 동일) 1로 대체
// - idx = floor((v-min)/width)를 [0, bins-1]로 clamp (v == max 경계값 처리)
// 입력 값은 하나도 버려지지 않으므로 count 합계 == len(values)
func Histogram(values []float64, bins int) []Bucket {
	if len(values) == 0 {
		return []Bucket{}
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	lo := floats.Min(values)
	hi := floats.Max(values)

	width := (hi - lo) / float64(bins)
	if width == 0 || math.IsNaN(width) {
		width = 1
	}

	counts := make([]int, bins)
	for _, v := range values {
		counts[bucketIndex(v, lo, width, bins)]++
	}

	buckets := make([]Bucket, bins)
	for i, c := range counts {
		buckets[i] = Bucket{
			LeftEdge: Round2(lo + float64(i)*width),
			Count:    c,
		}
	}
	return buckets
}

func bucketIndex(v, lo, width float64, bins int) int {
	f := math.Floor((v - lo) / width)
	switch {
	case !(f >= 0): // 음수 또는 NaN
		return 0
	case f >= float64(bins):
		return bins - 1
	default:
		return int(f)
	}
}
