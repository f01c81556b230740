package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// =============================================================================
// Result (sum type)
// =============================================================================

// Result 엔진 응답을 정규화한 결과
// ⭐ 모델별로 하나의 케이스만 존재: StockResult, StartupCostsResult, CreditRiskResult, UnknownResult
type Result interface {
	// Tag 엔진이 보낸 model 판별자
	Tag() string
	isResult()
}

// Metrics VaR/ES. nil = 아직 계산되지 않음 (0과 구분)
type Metrics struct {
	VaR *float64 `json:"VaR,omitempty"`
	ES  *float64 `json:"ES,omitempty"`
}

// Available VaR와 ES가 모두 있을 때 true
func (m Metrics) Available() bool {
	return m.VaR != nil && m.ES != nil
}

// StockResult gbm / bootstrap
type StockResult struct {
	Model       Model
	PathsSample [][]float64
	PnL         []float64
	Terminal    []float64
	Metrics     Metrics
}

// StartupCostsResult startup_costs
type StartupCostsResult struct {
	CumPathsSample [][]float64
	Terminal       []float64
	Metrics        Metrics
}

// CreditRiskResult credit_risk
type CreditRiskResult struct {
	PortfolioLoss []float64
	DefaultCounts []int
	Metrics       Metrics
}

// UnknownResult 알 수 없는(또는 누락된) model 태그
// Message에는 엔진이 보낸 error/detail 문자열이 있으면 담긴다
type UnknownResult struct {
	Model   string
	Message string
}

func (r StockResult) Tag() string        { return string(r.Model) }
func (r StartupCostsResult) Tag() string { return string(ModelStartupCosts) }
func (r CreditRiskResult) Tag() string   { return string(ModelCreditRisk) }
func (r UnknownResult) Tag() string      { return r.Model }

func (StockResult) isResult()        {}
func (StartupCostsResult) isResult() {}
func (CreditRiskResult) isResult()   {}
func (UnknownResult) isResult()      {}

// =============================================================================
// Normalizer
// =============================================================================

// ErrMalformedResult 응답 본문이 JSON 객체가 아님 (전송 계층 에러로 취급)
var ErrMalformedResult = errors.New("malformed simulation result")

// envelope 모든 필드를 nil 허용으로 받는다
type envelope struct {
	Model          *string         `json:"model"`
	Metrics        *rawMetrics     `json:"metrics"`
	PathsSample    [][]float64     `json:"paths_sample"`
	PnL            []float64       `json:"pnl"`
	Terminal       []float64       `json:"terminal"`
	CumPathsSample [][]float64     `json:"cum_paths_sample"`
	PortfolioLoss  []float64       `json:"portfolio_loss"`
	DefaultCounts  []int           `json:"default_counts"`
	Error          *string         `json:"error"`
	Detail         json.RawMessage `json:"detail"`
}

type rawMetrics struct {
	VaR *float64 `json:"VaR"`
	ES  *float64 `json:"ES"`
}

func (m *rawMetrics) toMetrics() Metrics {
	if m == nil {
		return Metrics{}
	}
	return Metrics{VaR: m.VaR, ES: m.ES}
}

// Normalize 응답 본문을 Result로 변환
// metrics/VaR/ES 누락은 에러가 아니며, 알 수 없는 모델은 UnknownResult
func Normalize(body []byte) (Result, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}

	tag := ""
	if env.Model != nil {
		tag = *env.Model
	}

	metrics := env.Metrics.toMetrics()

	switch Model(tag) {
	case ModelGBM, ModelBootstrap:
		return StockResult{
			Model:       Model(tag),
			PathsSample: env.PathsSample,
			PnL:         env.PnL,
			Terminal:    env.Terminal,
			Metrics:     metrics,
		}, nil
	case ModelStartupCosts:
		return StartupCostsResult{
			CumPathsSample: env.CumPathsSample,
			Terminal:       env.Terminal,
			Metrics:        metrics,
		}, nil
	case ModelCreditRisk:
		return CreditRiskResult{
			PortfolioLoss: env.PortfolioLoss,
			DefaultCounts: env.DefaultCounts,
			Metrics:       metrics,
		}, nil
	default:
		return UnknownResult{Model: tag, Message: env.message()}, nil
	}
}

// message 엔진 에러 본문에서 사람이 읽을 문자열을 뽑는다
// detail은 문자열이거나 (검증 에러일 때) 객체 배열일 수 있음
func (e envelope) message() string {
	if e.Error != nil {
		return *e.Error
	}
	if len(e.Detail) == 0 || string(e.Detail) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return string(e.Detail)
}
