package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/mindscore/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 1
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 10000
	DefaultServeAddr    = ":8080"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// CompositeRawInput holds the composite wellness settings from the YAML config file.
type CompositeRawInput struct {
	Polarity map[string]string  `mapstructure:"polarity"`
	Weights  map[string]float64 `mapstructure:"weights"`
}

// RiskRawInput holds the default risk thresholds from the YAML config file.
type RiskRawInput struct {
	High     *float64 `mapstructure:"high"`
	Moderate *float64 `mapstructure:"moderate"`
}

// Config holds the runtime configuration for the engine and its adapters.
// This struct is the "final, validated" config.
type Config struct {
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseEmojis  bool
	UseColors  bool

	AnswerPolicy    schema.AnswerPolicy
	InstrumentFiles []string
	Composite       schema.CompositeConfig
	RiskDefaults    schema.RiskThresholds

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UserID        string
	InstrumentKey string
	Record        bool
	Limit         int

	ServeAddr   string
	CORSOrigins []string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	AnswerPolicy     string `mapstructure:"answer-policy"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from score, trend, insight and history flags ---
	User       string `mapstructure:"user"`
	Instrument string `mapstructure:"instrument"`
	Record     bool   `mapstructure:"record"`
	Limit      int    `mapstructure:"limit"`

	// --- Fields from serveCmd.Flags() ---
	Addr        string `mapstructure:"addr"`
	CORSOrigins string `mapstructure:"cors-origins"`

	// --- Extra instrument definition files from config file ---
	Instruments []string `mapstructure:"instruments"`

	// --- Composite wellness settings from config file ---
	Composite CompositeRawInput `mapstructure:"composite"`

	// --- Default risk thresholds from config file ---
	Risk RiskRawInput `mapstructure:"risk"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processComposite(cfg, input); err != nil {
		return err
	}
	if err := processRiskDefaults(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates output and request fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.UserID = strings.TrimSpace(input.User)
	cfg.InstrumentKey = strings.TrimSpace(input.Instrument)
	cfg.Record = input.Record
	cfg.InstrumentFiles = input.Instruments

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	cfg.AnswerPolicy = schema.AnswerPolicy(strings.ToLower(input.AnswerPolicy))
	if cfg.AnswerPolicy == "" {
		cfg.AnswerPolicy = schema.ClampPolicy
	}
	if _, ok := schema.ValidAnswerPolicies[cfg.AnswerPolicy]; !ok {
		return fmt.Errorf("invalid answer policy '%s'. must be clamp, reject", input.AnswerPolicy)
	}

	cfg.Limit = input.Limit
	if cfg.Limit == 0 {
		cfg.Limit = DefaultHistoryLimit
	}
	if cfg.Limit < 0 || cfg.Limit > MaxHistoryLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryLimit, input.Limit)
	}

	if cfg.Record && cfg.UserID == "" {
		return fmt.Errorf("--record requires --user")
	}

	cfg.ServeAddr = input.Addr
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}
	cfg.CORSOrigins = nil
	for p := range strings.SplitSeq(input.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
		}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processComposite converts the raw composite settings into the engine config.
func processComposite(cfg *Config, input *ConfigRawInput) error {
	composite := schema.CompositeConfig{}

	if len(input.Composite.Polarity) > 0 {
		composite.Polarity = make(map[string]schema.Polarity, len(input.Composite.Polarity))
		for key, raw := range input.Composite.Polarity {
			p := schema.Polarity(strings.ToLower(strings.TrimSpace(raw)))
			if _, ok := schema.ValidPolarities[p]; !ok {
				return fmt.Errorf("invalid polarity '%s' for %s. must be distress, wellbeing", raw, key)
			}
			composite.Polarity[key] = p
		}
	}

	if len(input.Composite.Weights) > 0 {
		composite.Weights = make(map[string]float64, len(input.Composite.Weights))
		for key, w := range input.Composite.Weights {
			if w < 0 {
				return fmt.Errorf("composite weight for %s must not be negative (received %.2f)", key, w)
			}
			composite.Weights[key] = w
		}
	}

	cfg.Composite = composite
	return nil
}

// processRiskDefaults applies config file overrides to the default risk thresholds.
func processRiskDefaults(cfg *Config, input *ConfigRawInput) error {
	risk := schema.DefaultRiskThresholds()
	if input.Risk.High != nil {
		risk.High = *input.Risk.High
	}
	if input.Risk.Moderate != nil {
		risk.Moderate = *input.Risk.Moderate
	}

	for name, v := range map[string]float64{"high": risk.High, "moderate": risk.Moderate} {
		if v < 0.0 || v > 100.0 {
			return fmt.Errorf("risk threshold %s must be between 0.0 and 100.0 (received %.2f)", name, v)
		}
	}
	if risk.Moderate > risk.High {
		return fmt.Errorf("risk moderate threshold (%.2f) cannot exceed high threshold (%.2f)", risk.Moderate, risk.High)
	}

	cfg.RiskDefaults = risk
	return nil
}
