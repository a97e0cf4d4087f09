package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/refileproj/refile/internal/pipeline"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Infer the date and title of a single file without copying it",
	Long: `Inspect runs the full inference chain on one file and prints the
result: the detected type, the proposed title and the year/month it
would be filed under. Nothing is copied.

Example:
  refile inspect f1034056.pdf
  refile inspect f1034056.pdf --max-date 2023-06-01 -v`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "reuse this directory for text renditions (default: fresh temp dir)")
	inspectCmd.Flags().StringVar(&maxDate, "max-date", "", "reference date YYYY-MM-DD; later dates are rejected (default: today)")
	inspectCmd.Flags().IntVar(&minYear, "min-year", 1900, "reject years before this")
	inspectCmd.Flags().StringSliceVar(&languages, "langs", []string{"fr", "en"}, "month-name languages")
	inspectCmd.Flags().BoolVar(&forcePDFOCR, "force-pdf-ocr", false, "always OCR PDFs instead of trusting their text layer")
}

func runInspect(cmd *cobra.Command, args []string) error {
	file := args[0]
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Organize.DryRun = true

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	res, ft := p.Infer(context.Background(), file)

	fmt.Printf("File:   %s\n", file)
	fmt.Printf("Type:   %s (category %s)\n", ft.Extension, ft.Category())
	fmt.Printf("Year:   %s\n", res.Year)
	if res.Month != "" {
		fmt.Printf("Month:  %s\n", res.Month)
	}
	fmt.Printf("Title:  %s\n", res.Title)
	return nil
}
