package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/wonny/riskdash/internal/pipeline"
	"github.com/wonny/riskdash/internal/simulation"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "시뮬레이션 1회 실행",
	Long: `설정을 엔진에 보내고 결과 대시보드를 출력합니다.

설정 우선순위: 기본값 < --params 파일 < 개별 플래그
gbm/bootstrap 모델은 --csv 가격 시계열을 함께 전송합니다.

Models:
  gbm            - Geometric Brownian Motion
  bootstrap      - Historical bootstrap
  startup_costs  - 창업 비용 누적 (--params 로 costs 지정)
  credit_risk    - 대출 포트폴리오 손실 (--params 로 loans 지정)

Example:
  go run ./cmd/riskdash run --model gbm --trials 5000 --csv prices.csv
  go run ./cmd/riskdash run --params loans.yaml --json`,
	RunE: runSimulation,
}

var (
	// Run flags
	runModel      string
	runTrials     int
	runHorizon    int
	runConfidence float64
	runMu         float64
	runSigma      float64
	runCSV        string
	runParams     string
	runJSON       bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	defaults := simulation.DefaultConfig()

	// Flags
	runCmd.Flags().StringVar(&runModel, "model", string(defaults.Model), "model (gbm|bootstrap|startup_costs|credit_risk)")
	runCmd.Flags().IntVar(&runTrials, "trials", defaults.Trials, "number of Monte-Carlo trials")
	runCmd.Flags().IntVar(&runHorizon, "horizon", defaults.HorizonDays, "horizon in days")
	runCmd.Flags().Float64Var(&runConfidence, "confidence", defaults.Confidence, "confidence level, 0 < c < 1")
	runCmd.Flags().Float64Var(&runMu, "mu", defaults.Mu, "annual drift")
	runCmd.Flags().Float64Var(&runSigma, "sigma", defaults.Sigma, "annual volatility")
	runCmd.Flags().StringVar(&runCSV, "csv", "", "price CSV file (first column)")
	runCmd.Flags().StringVar(&runParams, "params", "", "config file (.yaml, .yml or .json)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the dashboard as JSON")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newCLILogger(cfg)

	// 1. Build simulation config
	simCfg := simulation.DefaultConfig()
	if runParams != "" {
		if err := loadParams(runParams, &simCfg); err != nil {
			return err
		}
	}
	applyRunFlags(cmd.Flags(), &simCfg)

	if err := simulation.Validate(simCfg); err != nil {
		return err
	}

	// 2. Session
	session := pipeline.NewSession(cfg.Engine.BaseURL, newEngineClient(cfg, log), log, nil)

	if runCSV != "" {
		report, err := session.LoadPricesFile(runCSV)
		if err != nil {
			return err
		}
		if !runJSON {
			fmt.Printf("Loaded %d prices from %s (%d skipped)\n", len(report.Series), runCSV, report.Skipped())
		}
	}

	// 3. Run
	dash, err := session.Run(cmd.Context(), simCfg)
	if err != nil {
		return err
	}

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dash)
	}

	PrintDashboard(os.Stdout, dash)
	return nil
}

// loadParams 설정 파일을 기본값 위에 덮어씀 (파일에 없는 필드는 유지)
func loadParams(path string, cfg *simulation.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read params: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse params %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parse params %s: %w", path, err)
		}
	}
	return nil
}

// applyRunFlags 명시적으로 지정된 플래그만 반영
func applyRunFlags(flags *pflag.FlagSet, cfg *simulation.Config) {
	if flags.Changed("model") {
		cfg.Model = simulation.Model(runModel)
	}
	if flags.Changed("trials") {
		cfg.Trials = runTrials
	}
	if flags.Changed("horizon") {
		cfg.HorizonDays = runHorizon
	}
	if flags.Changed("confidence") {
		cfg.Confidence = runConfidence
	}
	if flags.Changed("mu") {
		cfg.Mu = runMu
	}
	if flags.Changed("sigma") {
		cfg.Sigma = runSigma
	}
}
