// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Intent        IntentConfig       `mapstructure:"intent"`
	Planner       PlannerConfig      `mapstructure:"planner"`
	Fees          FeeConfig          `mapstructure:"fees"`
	Verification  VerificationConfig `mapstructure:"verification"`
	Catalog       CatalogConfig      `mapstructure:"catalog"`
	Audit         AuditConfig        `mapstructure:"audit"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`         // HTTP API listen address
	MetricsAddress string `mapstructure:"metrics_address"` // Prometheus/pprof listen address
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Pipeline Configuration Sections ---

// IntentConfig holds the intent parser/extractor settings.
type IntentConfig struct {
	ConfidenceThreshold    float64 `mapstructure:"confidence_threshold"`    // "did-you-mean" trigger
	ClarificationThreshold float64 `mapstructure:"clarification_threshold"` // hard clarification trigger
	MaxEntities            int     `mapstructure:"max_entities"`
	DefaultCurrency        string  `mapstructure:"default_currency"`
}

// PlannerConfig holds Gate 1 and execution-engine settings.
// MaxStepsPerPlan is documented but not currently enforced; DefaultTimeoutMs
// and MaxRetries are stored per-step for an external supervisor, not
// auto-applied by the engine.
type PlannerConfig struct {
	MaxStepsPerPlan          int   `mapstructure:"max_steps_per_plan"`
	DefaultTimeoutMs         int   `mapstructure:"default_timeout_ms"`
	MaxRetries               int   `mapstructure:"max_retries"`
	RequireApprovalByDefault bool  `mapstructure:"require_approval_by_default"`
	SimulationThresholdCents int64 `mapstructure:"simulation_threshold_cents"`
	DefaultSlippageBps       int   `mapstructure:"default_slippage_bps"`
}

// FeeConfig holds the Gate 1 fee estimate parameters.
type FeeConfig struct {
	NetworkFeeCents int64 `mapstructure:"network_fee_cents"`
	PlatformFeeBps  int   `mapstructure:"platform_fee_bps"` // transfer / fund_card
	SwapFeeBps      int   `mapstructure:"swap_fee_bps"`
}

// VerificationConfig selects the soul-verification collaborator.
// Mode "stub" uses the fixed-delay stand-in; mode "remote" calls URL.
type VerificationConfig struct {
	Mode      string `mapstructure:"mode"`
	DelayMs   int    `mapstructure:"delay_ms"`
	URL       string `mapstructure:"url"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

// CatalogConfig points at the action catalog JSON.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// AuditConfig holds the Elasticsearch audit sink settings.
type AuditConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	IndexPrefix string `mapstructure:"index_prefix"`
}

// NotificationConfig holds settings for the notify executor.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
