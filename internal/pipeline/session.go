package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/riskdash/internal/ingest"
	"github.com/wonny/riskdash/internal/simulation"
	"github.com/wonny/riskdash/pkg/logger"
)

// Simulator 원격 엔진 (engine.Client가 구현)
type Simulator interface {
	Simulate(ctx context.Context, req simulation.Request) (simulation.Result, error)
}

// Recorder 실행 메트릭 (metrics.Recorder가 구현). nil이면 기록하지 않음
type Recorder interface {
	RunStarted()
	RunFinished(model, outcome string, seconds float64)
	RecordIngest(valid, skipped int)
}

// Session 파이프라인 상태 (API URL, 로딩 표시, 가격 버퍼, 현재 결과)
// ⭐ 전역 상태 없음: 호출자가 생성/Reset 등 수명주기를 관리
//
// 상태는 통째로 교체만 된다. mutex는 포인터 교체를 보호할 뿐이며
// 겹치는 실행은 중복 제거/취소되지 않는다: 마지막에 끝난 실행의 결과가 남는다 (last-writer-wins)
type Session struct {
	apiURL    string
	simulator Simulator
	logger    *logger.Logger
	recorder  Recorder

	mu       sync.Mutex
	inflight int
	prices   ingest.Series
	result   *Dashboard
}

// Status 세션 상태 스냅샷
type Status struct {
	APIURL     string `json:"api_url"`
	Loading    bool   `json:"loading"`
	PriceCount int    `json:"price_count"`
	HasResult  bool   `json:"has_result"`
}

// NewSession creates a new session
func NewSession(apiURL string, sim Simulator, log *logger.Logger, rec Recorder) *Session {
	return &Session{
		apiURL:    apiURL,
		simulator: sim,
		logger:    log,
		recorder:  rec,
	}
}

// APIURL 엔진 base URL
func (s *Session) APIURL() string {
	return s.apiURL
}

// Loading 진행 중인 실행이 하나라도 있으면 true
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Prices 현재 가격 시계열
func (s *Session) Prices() ingest.Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prices
}

// SetPrices 가격 시계열을 통째로 교체 (호출자의 슬라이스는 복사)
func (s *Session) SetPrices(prices ingest.Series) {
	cp := append(ingest.Series(nil), prices...)

	s.mu.Lock()
	s.prices = cp
	s.mu.Unlock()
}

// LoadPrices 텍스트를 파싱해 가격 시계열로 설정
func (s *Session) LoadPrices(text string) ingest.Report {
	report := ingest.Classify(text)
	s.applyReport(report)
	return report
}

// LoadPricesFile 파일 전체를 읽어 가격 시계열로 설정
func (s *Session) LoadPricesFile(path string) (ingest.Report, error) {
	report, err := ingest.ReadFile(path)
	if err != nil {
		return ingest.Report{}, err
	}
	s.applyReport(report)
	return report, nil
}

func (s *Session) applyReport(report ingest.Report) {
	s.SetPrices(report.Series)

	if s.recorder != nil {
		s.recorder.RecordIngest(len(report.Series), report.Skipped())
	}

	s.logger.WithFields(map[string]interface{}{
		"count":   len(report.Series),
		"skipped": report.Skipped(),
	}).Info("Price series loaded")
}

// ClearPrices 가격 시계열 제거
func (s *Session) ClearPrices() {
	s.mu.Lock()
	s.prices = nil
	s.mu.Unlock()
}

// Result 현재 대시보드 (없으면 nil)
func (s *Session) Result() *Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Reset 가격과 결과를 모두 비움 (진행 중인 실행은 건드리지 않음)
func (s *Session) Reset() {
	s.mu.Lock()
	s.prices = nil
	s.result = nil
	s.mu.Unlock()
}

// Status 상태 스냅샷
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		APIURL:     s.apiURL,
		Loading:    s.inflight > 0,
		PriceCount: len(s.prices),
		HasResult:  s.result != nil,
	}
}

// Run 한 번의 요청-응답 사이클
// 요청 생성 → 엔진 호출 → 정규화 → 대시보드 → 세션에 저장
// 설정 검증은 호출자 몫 (simulation.Validate). 에러는 그대로 전파되고
// 로딩 표시는 어떤 경로로 끝나든 해제된다
func (s *Session) Run(ctx context.Context, cfg simulation.Config) (*Dashboard, error) {
	runID := uuid.New().String()
	model := string(cfg.Model)
	start := time.Now()

	s.begin()
	outcome := "error"
	defer func() {
		s.end()
		if s.recorder != nil {
			s.recorder.RunFinished(model, outcome, time.Since(start).Seconds())
		}
	}()

	req := simulation.BuildRequest(cfg, s.Prices())

	log := s.logger.WithFields(map[string]interface{}{
		"run_id":  runID,
		"model":   model,
		"trials":  cfg.Trials,
		"horizon": cfg.HorizonDays,
		"prices":  len(req.Prices),
	})
	log.Info("Simulation run started")

	res, err := s.simulator.Simulate(ctx, req)
	if err != nil {
		log.WithError(err).Error("Simulation run failed")
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	dash := BuildDashboard(res)
	dash.RunID = runID
	dash.CompletedAt = time.Now()

	outcome = "ok"
	if dash.Unknown {
		outcome = "unknown_model"
		log.WithField("tag", dash.Model).Warn("Simulation engine returned an unrecognized model")
	}

	s.mu.Lock()
	s.result = &dash
	s.mu.Unlock()

	log.WithFields(map[string]interface{}{
		"duration":    time.Since(start),
		"metrics_var": dash.Metrics.VaR,
		"metrics_es":  dash.Metrics.ES,
	}).Info("Simulation run completed")

	return &dash, nil
}

func (s *Session) begin() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.RunStarted()
	}
}

func (s *Session) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}
