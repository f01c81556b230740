package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/riskdash/internal/api"
	"github.com/wonny/riskdash/internal/api/handlers"
	"github.com/wonny/riskdash/internal/pipeline"
	"github.com/wonny/riskdash/pkg/logger"
	"github.com/wonny/riskdash/pkg/metrics"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `대시보드용 REST API 서버를 시작합니다.

이 명령어는:
- 프로세스 단위 세션 1개 생성
- 가격 업로드/시뮬레이션 실행 엔드포인트 제공
- METRICS_ENABLED=true 이면 /metrics 노출

Endpoints:
  GET    /health        - Health check
  GET    /api/status    - 세션 상태
  POST   /api/prices    - 가격 CSV 업로드 (raw body)
  DELETE /api/prices    - 가격 제거
  POST   /api/simulate  - 시뮬레이션 실행
  GET    /api/result    - 마지막 결과
  POST   /api/reset     - 세션 초기화

Example:
  go run ./cmd/riskdash api
  go run ./cmd/riskdash api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== riskdash API Server ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":   cfg.Port,
		"env":    cfg.Env,
		"engine": cfg.Engine.BaseURL,
	}).Info("Initializing API server")

	// 3. Metrics (nil interface when disabled)
	var (
		recorder       pipeline.Recorder
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		rec := metrics.New()
		recorder = rec
		metricsHandler = rec.Handler()
	}

	// 4. Engine client + session
	session := pipeline.NewSession(cfg.Engine.BaseURL, newEngineClient(cfg, log), log, recorder)

	// 5. Router + server
	simHandler := handlers.NewSimulationHandler(session, log)
	router := api.NewRouter(simHandler, metricsHandler, log)
	server := api.New(cfg, log, router)

	// 6. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Printf("   Engine: %s\n", cfg.Engine.BaseURL)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
