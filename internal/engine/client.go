package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wonny/riskdash/internal/simulation"
	"github.com/wonny/riskdash/pkg/httputil"
	"github.com/wonny/riskdash/pkg/logger"
)

// Client 원격 시뮬레이션 엔진 클라이언트
// ⭐ SSOT: 엔진 호출(POST /simulate, GET /health)은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new engine client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// BaseURL 엔진 base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Simulate 요청을 엔진에 보내고 응답을 정규화
// 상태 코드와 관계없이 본문을 정규화한다: model이 없는 에러 본문은 UnknownResult가 됨
// 네트워크 실패와 JSON이 아닌 본문만 에러
func (c *Client) Simulate(ctx context.Context, req simulation.Request) (simulation.Result, error) {
	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+"/simulate", req)
	if err != nil {
		return nil, fmt.Errorf("simulate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read simulate response failed: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"model":       req.Model,
		}).Warn("Simulation engine returned error status")
	}

	result, err := simulation.Normalize(body)
	if err != nil {
		return nil, fmt.Errorf("simulate response (status %d): %w", resp.StatusCode, err)
	}

	return result, nil
}

// HealthStatus /health 응답
type HealthStatus struct {
	Status string `json:"status"`
}

// Health 엔진 상태 확인
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/health")
	if err != nil {
		return HealthStatus{}, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HealthStatus{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var hs HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		return HealthStatus{}, fmt.Errorf("decode health response failed: %w", err)
	}
	return hs, nil
}
