package pipeline

import (
	"time"

	"github.com/wonny/riskdash/internal/risk"
	"github.com/wonny/riskdash/internal/simulation"
)

// Dashboard 한 번의 실행 결과를 화면에 그릴 수 있는 형태로 변환한 것
// 차트 렌더링은 하지 않음: 이미 계산된 시리즈만 담는다
type Dashboard struct {
	RunID       string           `json:"run_id"`
	Model       string           `json:"model"`
	Title       string           `json:"title"`
	MetricsLine string           `json:"metrics_line"`
	Metrics     risk.MetricsView `json:"metrics"`
	Fan         *risk.Fan        `json:"fan,omitempty"` // credit_risk는 팬 차트 없음
	Histogram   []risk.Bucket    `json:"histogram"`
	Summary     risk.Summary     `json:"summary"`
	Unknown     bool             `json:"unknown"`
	Message     string           `json:"message,omitempty"`
	CompletedAt time.Time        `json:"completed_at"`
}

// 모델별 metrics 라인 접두어
const (
	titleStock        = ""
	titleStartupCosts = "Terminal Cost — "
	titleCreditRisk   = "Portfolio Loss — "
	titleUnknown      = "Unknown model"
)

// BuildDashboard Result의 모든 케이스를 처리 (total match)
func BuildDashboard(res simulation.Result) Dashboard {
	switch r := res.(type) {
	case simulation.StockResult:
		return assemble(r.Tag(), titleStock, r.Metrics, r.PathsSample, true, r.PnL)
	case simulation.StartupCostsResult:
		return assemble(r.Tag(), titleStartupCosts, r.Metrics, r.CumPathsSample, true, r.Terminal)
	case simulation.CreditRiskResult:
		return assemble(r.Tag(), titleCreditRisk, r.Metrics, nil, false, r.PortfolioLoss)
	case simulation.UnknownResult:
		return Dashboard{
			Model:     r.Model,
			Title:     titleUnknown,
			Histogram: []risk.Bucket{},
			Unknown:   true,
			Message:   r.Message,
		}
	default:
		// nil Result
		return Dashboard{Title: titleUnknown, Histogram: []risk.Bucket{}, Unknown: true}
	}
}

func assemble(model, title string, m simulation.Metrics, paths [][]float64, withFan bool, dist []float64) Dashboard {
	view := risk.FormatMetrics(m)
	d := Dashboard{
		Model:       model,
		Title:       title,
		MetricsLine: view.Line(title),
		Metrics:     view,
		Histogram:   risk.Histogram(dist, risk.DefaultBins),
		Summary:     risk.Summarize(dist),
	}
	if withFan {
		fan := risk.FanSample(paths, risk.DefaultFanCap)
		d.Fan = &fan
	}
	return d
}
