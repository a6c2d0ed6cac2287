package model

import "time"

// Config is the full engine configuration. Built once at startup and passed
// by reference to every component; nothing mutates it after construction.
type Config struct {
	Engine     EngineConfig     `yaml:"engine" mapstructure:"engine"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// EngineConfig controls analysis behavior
type EngineConfig struct {
	// Concurrency bounds parallel item analysis in a batch.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	// RegistryFile optionally overlays the built-in methodology and
	// reason-code catalogs with operator-edited YAML.
	RegistryFile string `yaml:"registry_file" mapstructure:"registry_file"`
}

// ClassifierConfig holds the furnisher classifier's fragment lists.
// Operator-editable data, not code: extending either list requires no
// rebuild.
type ClassifierConfig struct {
	CollectorFragments        []string `yaml:"collector_fragments" mapstructure:"collector_fragments"`
	OriginalCreditorFragments []string `yaml:"original_creditor_fragments" mapstructure:"original_creditor_fragments"`
}

// LLMConfig configures the pluggable text-completion service
type LLMConfig struct {
	// Provider: "openai", "ollama", or "" (disabled; deterministic
	// templates only).
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"-" mapstructure:"api_key"` // Never serialized
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`

	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Retry policy for completion calls. On exhaustion the composer
	// falls back to the deterministic template.
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" mapstructure:"base_delay"`

	// RequestsPerSecond rate-limits completion calls client-side.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`

	// Proxy settings for the completion HTTP client.
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig configures completion-response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Concurrency: 4,
		},
		Classifier: ClassifierConfig{
			CollectorFragments:        DefaultCollectorFragments(),
			OriginalCreditorFragments: DefaultOriginalCreditorFragments(),
		},
		LLM: LLMConfig{
			Provider:          "", // Disabled by default
			Timeout:           30 * time.Second,
			MaxTokens:         1500,
			MaxAttempts:       3,
			BaseDelay:         500 * time.Millisecond,
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Cache: CacheConfig{
			Enabled:   false,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
	}
}

// DefaultCollectorFragments is the curated list of collection-agency name
// fragments the classifier matches first (case-insensitive substring).
func DefaultCollectorFragments() []string {
	return []string{
		"collection", "recovery", "receivable", "portfolio",
		"midland", "lvnv", "cavalry", "jefferson capital",
		"portfolio recovery", "enhanced recovery", "convergent",
		"ic system", "transworld", "afni", "radius global",
		"credit control", "national credit", "asset acceptance",
		"encore capital", "erc", "mcm", "alltran", "credence",
	}
}

// DefaultOriginalCreditorFragments is the curated list of known original
// creditors (banks, telecoms, retailers, student-loan servicers,
// utilities). A match here means the item is not a collection tradeline,
// so a missing-original-creditor issue would be fabricated.
func DefaultOriginalCreditorFragments() []string {
	return []string{
		"chase", "capital one", "citibank", "citi", "bank of america",
		"wells fargo", "discover", "american express", "amex",
		"synchrony", "barclays", "us bank", "usaa", "navy federal",
		"verizon", "at&t", "t-mobile", "sprint", "comcast", "xfinity",
		"macy", "kohl", "target", "amazon", "best buy", "home depot",
		"lowe", "navient", "nelnet", "mohela", "sallie mae",
		"great lakes", "fedloan", "duke energy", "pg&e", "conedison",
		"toyota financial", "honda financial", "ally", "santander",
	}
}
