package model

import (
	"time"
)

// Config is the complete engine and CLI configuration. It is built once at
// startup (defaults, then config file, then env, then flags) and passed
// explicitly into every component; there are no ambient globals.
type Config struct {
	Dates    DatesConfig    `yaml:"dates" mapstructure:"dates"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Tools    ToolsConfig    `yaml:"tools" mapstructure:"tools"`
	Organize OrganizeConfig `yaml:"organize" mapstructure:"organize"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// DatesConfig bounds the dates the engine will accept.
type DatesConfig struct {
	// MaxDate is the reference processing date: any inferred date after it
	// is rejected as implausible. Zero means "today". Operators recovering
	// from a crash should set it to one day after the crash.
	MaxDate time.Time `yaml:"max_date" mapstructure:"max_date"`

	// MinYear rejects obviously-too-old years. Default 1900.
	MinYear int `yaml:"min_year" mapstructure:"min_year"`

	// Languages selects the month-name vocabularies ("fr", "en").
	Languages []string `yaml:"languages" mapstructure:"languages"`

	// ScanLines caps how many rendition lines the date aggregator reads.
	ScanLines int `yaml:"scan_lines" mapstructure:"scan_lines"`
}

// Reference returns the effective reference processing date.
func (d DatesConfig) Reference() time.Time {
	if d.MaxDate.IsZero() {
		return time.Now()
	}
	return d.MaxDate
}

// CacheConfig controls the text-rendition cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Empty: engine creates a temp dir it owns
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ToolsConfig configures the external conversion tools.
type ToolsConfig struct {
	TesseractLangs string  `yaml:"tesseract_langs" mapstructure:"tesseract_langs"` // e.g. "fra+eng"
	ForcePDFOCR    bool    `yaml:"force_pdf_ocr" mapstructure:"force_pdf_ocr"`
	RatePerSecond  float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"` // Heavy-tool pacing
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// OrganizeConfig controls file placement.
type OrganizeConfig struct {
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	Keep        bool   `yaml:"keep" mapstructure:"keep"`         // Keep original filenames, only reorganize by date
	DryRun      bool   `yaml:"dry_run" mapstructure:"dry_run"`   // Infer and report, copy nothing
	TitleMaxLen int    `yaml:"title_max_len" mapstructure:"title_max_len"`
	LedgerPath  string `yaml:"ledger_path" mapstructure:"ledger_path"` // Empty: <output>/refile.db
	SummaryPath string `yaml:"summary_path" mapstructure:"summary_path"`
}

// LLMConfig configures the optional display-title polish. The LLM output is
// presentation-only and never affects inferred dates or destination paths.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai", "ollama", "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls console output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Dates: DatesConfig{
			MinYear:   1900,
			Languages: []string{"fr", "en"},
			ScanLines: 200,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Tools: ToolsConfig{
			TesseractLangs: "fra",
			RatePerSecond:  1,
			Burst:          2,
		},
		Organize: OrganizeConfig{
			OutputDir:   "output",
			TitleMaxLen: 100,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 200,
		},
	}
}
