package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/riskdash/internal/engine"
	"github.com/wonny/riskdash/pkg/config"
	"github.com/wonny/riskdash/pkg/httputil"
	"github.com/wonny/riskdash/pkg/logger"
)

var (
	// Global flags
	apiURL  string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "riskdash",
	Short: "Monte-Carlo 리스크 시뮬레이션 클라이언트",
	Long: `riskdash CLI

원격 시뮬레이션 엔진에 설정을 보내고
결과를 VaR/ES 요약, 팬 차트 샘플, 히스토그램으로 정리합니다.

Usage:
  go run ./cmd/riskdash [command]

Examples:
  go run ./cmd/riskdash run --model gbm --csv prices.csv
  go run ./cmd/riskdash run --params credit.yaml --json
  go run ./cmd/riskdash ingest --csv prices.csv
  go run ./cmd/riskdash health
  go run ./cmd/riskdash api --port 8080`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "simulation engine base URL (default: API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig 환경설정 로드 + 전역 플래그 반영
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if apiURL != "" {
		cfg.Engine.BaseURL = apiURL
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newCLILogger CLI 로그는 stderr로 (stdout은 결과 출력 전용)
func newCLILogger(cfg *config.Config) *logger.Logger {
	return logger.NewWithWriter(cfg, os.Stderr)
}

// newEngineClient 엔진 클라이언트 생성
func newEngineClient(cfg *config.Config, log *logger.Logger) *engine.Client {
	return engine.NewClient(httputil.New(cfg.Engine, log), cfg.Engine.BaseURL, log)
}
