package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "시뮬레이션 엔진 상태 확인",
	Long: `엔진의 GET /health 를 호출합니다.

Example:
  go run ./cmd/riskdash health
  go run ./cmd/riskdash health --api-url http://engine:8000`,
	RunE: runHealth,
}

var (
	healthTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(healthCmd)

	// Flags
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 5*time.Second, "health check timeout")
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newCLILogger(cfg)
	client := newEngineClient(cfg, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
	defer cancel()

	hs, err := client.Health(ctx)
	if err != nil {
		fmt.Printf("❌ %s unreachable: %v\n", client.BaseURL(), err)
		return err
	}

	fmt.Printf("✅ %s status=%s\n", client.BaseURL(), hs.Status)
	return nil
}
