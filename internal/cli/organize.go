package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/refileproj/refile/internal/ledger"
	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/organize"
	"github.com/refileproj/refile/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outputDir   string
	dryRun      bool
	keepNames   bool
	cacheDir    string
	maxDate     string
	minYear     int
	languages   []string
	forcePDFOCR bool
	summaryPath string
	llmProvider string
	llmModel    string
)

// organizeCmd represents the organize command
var organizeCmd = &cobra.Command{
	Use:   "organize <file|dir>...",
	Short: "Infer dates and titles and copy files into a year/month hierarchy",
	Long: `Organize processes each input file in order:
- Classify the file and produce a text rendition (cached)
- Infer a plausible creation date and title from metadata, text and filename
- Copy the file to <output-dir>/<year>/<month>/<title>.<ext>
- Record the placement in the ledger for later undo

Directories are walked recursively. Sources are never modified or moved.

Example:
  refile organize ~/recovered
  refile organize ~/recovered --output-dir ./sorted --dry
  refile organize ~/recovered --keep --max-date 2023-06-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOrganize,
}

func init() {
	rootCmd.AddCommand(organizeCmd)

	organizeCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "output", "destination directory for the year/month hierarchy")
	organizeCmd.Flags().BoolVarP(&dryRun, "dry", "d", false, "infer and report, copy nothing")
	organizeCmd.Flags().BoolVarP(&keepNames, "keep", "k", false, "keep original filenames, only reorganize by date")
	organizeCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "reuse this directory for text renditions (default: fresh temp dir)")
	organizeCmd.Flags().StringVar(&maxDate, "max-date", "", "reference date YYYY-MM-DD; later dates are rejected (default: today)")
	organizeCmd.Flags().IntVar(&minYear, "min-year", 1900, "reject years before this")
	organizeCmd.Flags().StringSliceVar(&languages, "langs", []string{"fr", "en"}, "month-name languages")
	organizeCmd.Flags().BoolVar(&forcePDFOCR, "force-pdf-ocr", false, "always OCR PDFs instead of trusting their text layer")
	organizeCmd.Flags().StringVar(&summaryPath, "summary", "", "write a run summary to this file")

	// LLM flags
	organizeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "polish display titles with an LLM (openai, ollama)")
	organizeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	files, skipped, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to process")
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Refile Organize\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Files:       %d\n", len(files))
	fmt.Fprintf(os.Stderr, "  Output dir:  %s\n", cfg.Organize.OutputDir)
	fmt.Fprintf(os.Stderr, "  Reference:   %s\n", cfg.Dates.Reference().Format("2006-01-02"))
	if cfg.Organize.DryRun {
		fmt.Fprintf(os.Stderr, "  Mode:        dry run (no files copied)\n")
	}
	fmt.Fprintf(os.Stderr, "\n")

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	var rec organize.Recorder
	var led *ledger.Ledger
	if !cfg.Organize.DryRun {
		if err := os.MkdirAll(cfg.Organize.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		led, err = ledger.Open(ledgerPath(cfg))
		if err != nil {
			return err
		}
		defer led.Close()
		rec = led
	}
	org := organize.NewOrganizer(cfg.Organize, rec, cfg.Output.Verbose)

	ctx := context.Background()
	type placed struct {
		source, destination, title string
	}
	var done []placed
	var failed []string

	for i, file := range files {
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "---(%d/%d)--- Processing %s\n", i+1, len(files), file)

		res, ft := p.Infer(ctx, file)
		dst, err := org.Place(file, res, ft)
		if err != nil {
			failed = append(failed, file)
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", file, err)
			continue
		}

		display := p.Polish(ctx, file, res)
		done = append(done, placed{source: file, destination: dst, title: display})
		fmt.Fprintf(os.Stderr, "✓ %s -> %s\n", file, dst)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Organize Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(files))
	fmt.Fprintf(os.Stderr, "  Placed:    %d\n", len(done))
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", len(failed))
	fmt.Fprintf(os.Stderr, "  Skipped:   %d\n", len(skipped))
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Organize.OutputDir)
	fmt.Fprintf(os.Stderr, "  Renditions: %s\n", p.Store().Dir())
	fmt.Fprintf(os.Stderr, "\n")

	if summaryPath != "" {
		f, err := os.Create(summaryPath)
		if err != nil {
			return fmt.Errorf("create summary file: %w", err)
		}
		defer f.Close()
		for _, pl := range done {
			fmt.Fprintf(f, "%s\t%s\t%s\n", pl.source, pl.destination, pl.title)
		}
		for _, file := range failed {
			fmt.Fprintf(f, "%s\tFAILED\t\n", file)
		}
		for _, file := range skipped {
			fmt.Fprintf(f, "%s\tSKIPPED\t\n", file)
		}
	}

	return nil
}

// buildConfig layers the organize flags over the defaults.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Organize.OutputDir = outputDir
	cfg.Organize.DryRun = dryRun
	cfg.Organize.Keep = keepNames
	cfg.Cache.Dir = cacheDir
	cfg.Dates.MinYear = minYear
	cfg.Dates.Languages = languages
	cfg.Tools.ForcePDFOCR = forcePDFOCR
	cfg.Output.Verbose = verbose

	if maxDate != "" {
		d, err := time.Parse("2006-01-02", maxDate)
		if err != nil {
			return nil, fmt.Errorf("parse --max-date: %w", err)
		}
		cfg.Dates.MaxDate = d
	}

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		if llmProvider == "openai" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		}
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); llmProvider == "ollama" && baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}

// collectFiles expands the argument list: files pass through, directories
// are walked recursively. Anything else is reported as skipped.
func collectFiles(args []string) (files, skipped []string, err error) {
	for _, arg := range args {
		info, statErr := os.Stat(arg)
		if statErr != nil {
			skipped = append(skipped, arg)
			fmt.Fprintf(os.Stderr, "WARNING: skipping %s: %v\n", arg, statErr)
			continue
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		walkErr := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, nil, fmt.Errorf("walk %s: %w", arg, walkErr)
		}
	}
	return files, skipped, nil
}

// ledgerPath resolves the ledger location: explicit config wins, otherwise
// the database sits next to the organized files.
func ledgerPath(cfg *model.Config) string {
	if cfg.Organize.LedgerPath != "" {
		return cfg.Organize.LedgerPath
	}
	return filepath.Join(cfg.Organize.OutputDir, "refile.db")
}
