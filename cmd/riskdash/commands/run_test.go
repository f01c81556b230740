package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/riskdash/internal/pipeline"
	"github.com/wonny/riskdash/internal/risk"
	"github.com/wonny/riskdash/internal/simulation"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParamsYAML(t *testing.T) {
	path := writeFile(t, "credit.yaml", `
model: credit_risk
trials: 1000
loans:
  - {ead: 1000, pd: 0.02, lgd: 0.45}
  - {ead: 500, pd: 0.05, lgd: 0.6}
correlation: 0.2
`)

	cfg := simulation.DefaultConfig()
	require.NoError(t, loadParams(path, &cfg))

	assert.Equal(t, simulation.ModelCreditRisk, cfg.Model)
	assert.Equal(t, 1000, cfg.Trials)
	assert.Equal(t, 252, cfg.HorizonDays, "fields missing from the file keep their defaults")
	require.Len(t, cfg.Loans, 2)
	assert.Equal(t, simulation.Loan{EAD: 500, PD: 0.05, LGD: 0.6}, cfg.Loans[1])
	require.NotNil(t, cfg.Correlation)
	assert.Equal(t, 0.2, *cfg.Correlation)
}

func TestLoadParamsJSON(t *testing.T) {
	path := writeFile(t, "costs.json", `{"model":"startup_costs","periods":12,"costs":[{"name":"rent","dist":"normal","mean":1000,"sd":100}]}`)

	cfg := simulation.DefaultConfig()
	require.NoError(t, loadParams(path, &cfg))
	assert.Equal(t, simulation.ModelStartupCosts, cfg.Model)
	assert.Equal(t, 12, cfg.Periods)
	require.Len(t, cfg.Costs, 1)
	assert.Equal(t, "rent", cfg.Costs[0]["name"])

	bad := writeFile(t, "bad.json", `{"modle":"gbm"}`)
	assert.Error(t, loadParams(bad, &cfg), "unknown fields are rejected")

	assert.Error(t, loadParams(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))
}

func TestApplyRunFlagsOnlyChanged(t *testing.T) {
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.StringVar(&runModel, "model", "gbm", "")
	flags.IntVar(&runTrials, "trials", 20000, "")
	flags.IntVar(&runHorizon, "horizon", 252, "")
	flags.Float64Var(&runConfidence, "confidence", 0.95, "")
	flags.Float64Var(&runMu, "mu", 0.08, "")
	flags.Float64Var(&runSigma, "sigma", 0.2, "")
	require.NoError(t, flags.Parse([]string{"--trials", "10", "--sigma", "0.3"}))

	cfg := simulation.DefaultConfig()
	cfg.Model = simulation.ModelBootstrap // from a params file
	applyRunFlags(flags, &cfg)

	assert.Equal(t, simulation.ModelBootstrap, cfg.Model)
	assert.Equal(t, 10, cfg.Trials)
	assert.Equal(t, 0.3, cfg.Sigma)
	assert.Equal(t, 0.08, cfg.Mu)
}

func TestPrintDashboard(t *testing.T) {
	d := pipeline.BuildDashboard(simulation.CreditRiskResult{
		PortfolioLoss: []float64{0, 0, 0, 450},
	})
	d.RunID = "run-1"

	var buf bytes.Buffer
	PrintDashboard(&buf, &d)
	out := buf.String()

	assert.Contains(t, out, "credit_risk")
	assert.Contains(t, out, "Portfolio Loss — VaR:  | ES: ")
	assert.Contains(t, out, "Count:")
	assert.NotContains(t, out, "Fan chart")

	buf.Reset()
	unknown := pipeline.BuildDashboard(simulation.UnknownResult{Model: "arima", Message: "unsupported"})
	PrintDashboard(&buf, &unknown)
	assert.Contains(t, buf.String(), "Unknown model")
	assert.Contains(t, buf.String(), "unsupported")
}

func TestPrintHistogramScalesToPeak(t *testing.T) {
	var buf bytes.Buffer
	printHistogram(&buf, []risk.Bucket{{LeftEdge: 0, Count: 2}, {LeftEdge: 1, Count: 4}})
	assert.Contains(t, buf.String(), " 4\n")
	assert.Contains(t, buf.String(), " 2\n")
}
