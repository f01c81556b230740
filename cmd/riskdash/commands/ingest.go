package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/riskdash/internal/ingest"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "가격 CSV 파일 검사",
	Long: `가격 CSV 파일을 파싱해 유효/스킵 라인 수를 보여줍니다.
엔진에는 아무것도 보내지 않습니다.

각 라인의 첫 번째 필드만 숫자로 해석하며,
빈 라인이나 숫자가 아닌 라인(헤더 포함)은 스킵됩니다.

Example:
  go run ./cmd/riskdash ingest --csv prices.csv
  go run ./cmd/riskdash ingest --csv prices.csv -v`,
	RunE: runIngest,
}

var (
	ingestCSV string
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Flags
	ingestCmd.Flags().StringVar(&ingestCSV, "csv", "", "price CSV file")
	ingestCmd.MarkFlagRequired("csv")
}

func runIngest(cmd *cobra.Command, args []string) error {
	report, err := ingest.ReadFile(ingestCSV)
	if err != nil {
		return err
	}

	fmt.Println(doubleSeparator)
	fmt.Printf("  File      : %s\n", ingestCSV)
	fmt.Println(separator)
	fmt.Printf("  Valid     : %d\n", len(report.Series))
	fmt.Printf("  Skipped   : %d\n", report.Skipped())
	if last, ok := report.Series.Last(); ok {
		fmt.Printf("  Current   : %.2f\n", last)
	}

	if verbose && report.Skipped() > 0 {
		fmt.Println(separator)
		for _, line := range report.Lines {
			if line.Status == ingest.LineSkipped {
				fmt.Printf("  skip %5d: %q\n", line.Number, line.Raw)
			}
		}
	}
	fmt.Println(doubleSeparator)

	if len(report.Series) == 0 {
		return fmt.Errorf("%s: %w", ingestCSV, ingest.ErrEmptySeries)
	}
	return nil
}
