package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"resumeready/internal/retry"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is built once at startup
// and passed down explicitly.
//
// API key precedence:
// 1. Vault (if configured)
// 2. Config file values
// 3. Environment variables (RESUMEREADY_AI_APIKEY, GEMINI_API_KEY, ANTHROPIC_API_KEY)
// 4. Default values
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Retry         retry.Config        `mapstructure:"retry"`
	Server        ServerConfig        `mapstructure:"server"`
	Store         StoreConfig         `mapstructure:"store"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// Analysis module names.
const (
	ModuleUniqueness = "uniqueness"
	ModuleImpact     = "impact"
	ModuleContext    = "context"
	ModuleCompany    = "company"
	ModuleSoftSkills = "softSkills"
)

// Modules lists the analysis modules in report order.
var Modules = []string{ModuleUniqueness, ModuleImpact, ModuleContext, ModuleCompany, ModuleSoftSkills}

// Providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-2.0-flash",
	ProviderAnthropic: "claude-3-7-sonnet-latest",
}

// AIConfig holds global model settings and per-module overrides.
type AIConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"apiKey"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"maxTokens"`
	// TimeBudget bounds one module call including all retries.
	TimeBudget time.Duration `mapstructure:"timeBudget"`

	Uniqueness ModuleAIConfig `mapstructure:"uniqueness"`
	Impact     ModuleAIConfig `mapstructure:"impact"`
	Context    ModuleAIConfig `mapstructure:"context"`
	Company    ModuleAIConfig `mapstructure:"company"`
	SoftSkills ModuleAIConfig `mapstructure:"softSkills"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ModuleAIConfig holds the settings of one analysis module. Unset fields
// fall back to AIConfig.
type ModuleAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	APIKey           string               `mapstructure:"apiKey"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	Temperature      *float32             `mapstructure:"temperature"`
	MaxTokens        *int                 `mapstructure:"maxTokens"`
	TimeBudget       *time.Duration       `mapstructure:"timeBudget"`
	SystemPrompt     string               `mapstructure:"systemPrompt"`
	SystemPromptFile string               `mapstructure:"systemPromptFile"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
	ByIP           bool `mapstructure:"byIP"`
}

// StoreConfig configures the resume/job/analysis store.
type StoreConfig struct {
	// Path is the SQLite database file; ":memory:" keeps everything in RAM.
	Path string `mapstructure:"path"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	ConsoleOutput   bool             `mapstructure:"consoleOutput"`
	SampleRate      float64          `mapstructure:"sampleRate"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Console         ConsoleConfig    `mapstructure:"console"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

type ConsoleConfig struct {
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from defaults, an optional config file and
// environment variables. An empty configFile searches the standard locations.
func LoadConfig(configFile string) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMEREADY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'RESUMEREADY'")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/resumeready/")
		v.AddConfigPath("$HOME/.resumeready")
		v.AddConfigPath(".")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}
	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid. A missing API key is not
// an error here: commands that never call a model work without one, and the
// analysis modules report it themselves.
func (c *Config) Validate() error {
	if !isKnownProvider(c.AI.Provider) {
		return fmt.Errorf("unsupported AI provider: %q", c.AI.Provider)
	}
	for _, name := range Modules {
		m, _ := c.rawModule(name)
		if m.Provider != "" && !isKnownProvider(m.Provider) {
			return fmt.Errorf("unsupported AI provider for %s: %q", name, m.Provider)
		}
		if m.Temperature != nil && (*m.Temperature < 0 || *m.Temperature > 2) {
			return fmt.Errorf("%s temperature must be between 0 and 2", name)
		}
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	if c.AI.TimeBudget < 0 {
		return fmt.Errorf("AI time budget must not be negative")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.maxRetries must not be negative")
	}
	if c.Retry.JitterFactor < 0 || c.Retry.JitterFactor > 1 {
		return fmt.Errorf("retry.jitterFactor must be between 0 and 1")
	}
	if c.Retry.InitialDelay > 0 && c.Retry.MaxDelay > 0 && c.Retry.MaxDelay < c.Retry.InitialDelay {
		return fmt.Errorf("retry.maxDelay must not be less than retry.initialDelay")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}

func isKnownProvider(p string) bool {
	return p == ProviderGemini || p == ProviderAnthropic
}

func (c *Config) rawModule(name string) (ModuleAIConfig, bool) {
	switch name {
	case ModuleUniqueness:
		return c.AI.Uniqueness, true
	case ModuleImpact:
		return c.AI.Impact, true
	case ModuleContext:
		return c.AI.Context, true
	case ModuleCompany:
		return c.AI.Company, true
	case ModuleSoftSkills:
		return c.AI.SoftSkills, true
	default:
		return ModuleAIConfig{}, false
	}
}

// ModuleConfig returns the effective settings of an analysis module with
// global fallbacks applied.
func (c *Config) ModuleConfig(name string) (ModuleAIConfig, error) {
	m, ok := c.rawModule(name)
	if !ok {
		return ModuleAIConfig{}, fmt.Errorf("unknown analysis module: %s", name)
	}
	c.applyModuleDefaults(&m)
	return m, nil
}

// applyModuleDefaults applies global defaults to module-specific configuration
func (c *Config) applyModuleDefaults(m *ModuleAIConfig) {
	if m.Provider == "" {
		m.Provider = c.AI.Provider
	}
	if m.Model == "" {
		if m.Provider == c.AI.Provider && c.AI.Model != "" {
			m.Model = c.AI.Model
		} else {
			m.Model = defaultModels[m.Provider]
		}
	}
	if m.APIKey == "" && m.Provider == c.AI.Provider {
		m.APIKey = c.AI.APIKey
	}
	if m.APIKey == "" {
		m.APIKey = providerKeyFromEnv(m.Provider)
	}
	if m.Timeout == nil {
		timeout := c.AI.Timeout
		m.Timeout = &timeout
	}
	if m.Temperature == nil {
		temperature := c.AI.Temperature
		m.Temperature = &temperature
	}
	if m.MaxTokens == nil {
		maxTokens := c.AI.MaxTokens
		m.MaxTokens = &maxTokens
	}
	if m.TimeBudget == nil {
		budget := c.AI.TimeBudget
		m.TimeBudget = &budget
	}
}
