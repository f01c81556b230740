package risk

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/wonny/riskdash/internal/simulation"
)

// Round2 소수 둘째 자리 반올림. NaN/Inf는 그대로 반환
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// FormatValue 값이 있으면 소수 둘째 자리 문자열, 없으면 ("", false)
// "계산 안 됨"과 "0으로 계산됨"을 구분하기 위해 placeholder나 0을 쓰지 않는다
func FormatValue(v *float64) (string, bool) {
	if v == nil {
		return "", false
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return strconv.FormatFloat(*v, 'f', 2, 64), true
	}
	return decimal.NewFromFloat(*v).StringFixed(2), true
}

// MetricsView 표시용 VaR/ES
type MetricsView struct {
	VaR    string `json:"var,omitempty"`
	ES     string `json:"es,omitempty"`
	HasVaR bool   `json:"has_var"`
	HasES  bool   `json:"has_es"`
}

// FormatMetrics VaR/ES 포맷
func FormatMetrics(m simulation.Metrics) MetricsView {
	var view MetricsView
	view.VaR, view.HasVaR = FormatValue(m.VaR)
	view.ES, view.HasES = FormatValue(m.ES)
	return view
}

// Line "<label>VaR: x | ES: y" 형태. 없는 값은 빈 문자열로 렌더링
func (v MetricsView) Line(label string) string {
	return label + "VaR: " + v.VaR + " | ES: " + v.ES
}
