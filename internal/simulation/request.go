package simulation

import "github.com/wonny/riskdash/internal/ingest"

// Request 엔진으로 보내는 payload
// Config는 평탄하게 직렬화되고, prices/start_price는 조건부로만 붙는다 (null로 보내지 않음)
type Request struct {
	Config
	Prices     []float64 `json:"prices,omitempty"`
	StartPrice *float64  `json:"start_price,omitempty"`
}

// BuildRequest 설정과 (선택적) 가격 시계열로 요청을 만든다
// gbm/bootstrap 이고 시계열이 비어있지 않을 때만 prices, start_price(=마지막 가격)를 추가
// 검증은 하지 않음 (Validate 참고)
func BuildRequest(cfg Config, prices ingest.Series) Request {
	req := Request{Config: cfg}

	if !cfg.Model.UsesPrices() {
		return req
	}

	last, ok := prices.Last()
	if !ok {
		return req
	}

	req.Prices = append([]float64(nil), prices...)
	req.StartPrice = &last
	return req
}
