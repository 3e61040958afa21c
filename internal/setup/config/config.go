package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrInvalidPolicy         = errors.New("invalid policy value")
)

// CurrentVersion is the expected config file version.
const CurrentVersion = 1

// Consent failure policies.
const (
	ConsentFailureCancel = "cancel"
	ConsentFailureReopen = "reopen"
)

// Penalty overlap policies.
const (
	PenaltyOverlapSupersede = "supersede"
	PenaltyOverlapStack     = "stack"
)

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	API        APIConfig  `koanf:"api"`
	Worker     Worker     `koanf:"worker"`
	Policy     Policy     `koanf:"policy"`
}

// Debug contains logging and debug configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log session directories to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// APIConfig contains REST server configuration.
type APIConfig struct {
	Server    Server    `koanf:"server"`
	RateLimit RateLimit `koanf:"rate_limit"`
}

// Server contains HTTP listener configuration.
type Server struct {
	// Listen address.
	Host string `koanf:"host"`
	// Listen port.
	Port int `koanf:"port"`
}

// RateLimit contains API rate limiting configuration.
type RateLimit struct {
	// Allowed requests per second per client.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// Burst size per client.
	BurstSize int `koanf:"burst_size"`
	// Block duration in seconds after repeated violations.
	BlockDuration int `koanf:"block_duration"`
	// Violations before a client is blocked.
	StrikeLimit int `koanf:"strike_limit"`
}

// Worker contains sweep worker configuration.
type Worker struct {
	// Seconds between sweep passes.
	SweepInterval int `koanf:"sweep_interval"`
	// Maximum rows force-closed per entity per pass.
	BatchSize int `koanf:"batch_size"`
}

// Policy contains the lifecycle policy knobs.
type Policy struct {
	// Confirmation rate above which a seller withdrawal is penalized.
	ConfirmationThreshold float64 `koanf:"confirmation_threshold"`
	// Hours granted for seller and buyer final-selection decisions.
	FinalSelectionHours int `koanf:"final_selection_hours"`
	// What happens to the group-buy when a consent process fails:
	// "cancel" or "reopen" (back to bidding with the remaining bids).
	ConsentFailure string `koanf:"consent_failure"`
	// What a new penalty does to an existing active one: "supersede"
	// or "stack".
	PenaltyOverlap string `koanf:"penalty_overlap"`
	// Length of the fresh bidding window when a failed consent process
	// reopens a group-buy, in hours.
	ReopenBiddingHours int `koanf:"reopen_bidding_hours"`
	// Suspension length for intentionally false reports, in days.
	FalseReportSuspensionDays int `koanf:"false_report_suspension_days"`
}

// ReopenOnConsentFailure checks if a failed consent process sends the
// group-buy back to bidding instead of cancelling it.
func (p *Policy) ReopenOnConsentFailure() bool {
	return p.ConsentFailure == ConsentFailureReopen
}

// StackPenalties checks if a new penalty extends an active one instead of
// replacing it.
func (p *Policy) StackPenalties() bool {
	return p.PenaltyOverlap == PenaltyOverlapStack
}

// Validate checks the policy values against their closed sets.
func (p *Policy) Validate() error {
	if p.ConsentFailure != ConsentFailureCancel && p.ConsentFailure != ConsentFailureReopen {
		return fmt.Errorf("%w: consent_failure=%q", ErrInvalidPolicy, p.ConsentFailure)
	}

	if p.PenaltyOverlap != PenaltyOverlapSupersede && p.PenaltyOverlap != PenaltyOverlapStack {
		return fmt.Errorf("%w: penalty_overlap=%q", ErrInvalidPolicy, p.PenaltyOverlap)
	}

	return nil
}

// LoadConfig loads the config file from the first matching search path and
// returns the config along with the directory it was loaded from.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".gonggu",
		homeDir + "/.gonggu/config",
		"/etc/gonggu/config",
		"/app/config",
		"config",
		".",
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/gonggu.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: gonggu.toml", ErrConfigFileNotFound)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Version == 0 {
		return nil, "", fmt.Errorf("%w: gonggu.toml", ErrConfigVersionMissing)
	}

	if config.Version != CurrentVersion {
		return nil, "", fmt.Errorf("%w: gonggu.toml (got: %d, expected: %d)",
			ErrConfigVersionMismatch, config.Version, CurrentVersion)
	}

	applyDefaults(&config)

	if err := config.Policy.Validate(); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// applyDefaults fills unset policy and worker values.
func applyDefaults(config *Config) {
	if config.Policy.ConfirmationThreshold == 0 {
		config.Policy.ConfirmationThreshold = 50
	}

	if config.Policy.FinalSelectionHours == 0 {
		config.Policy.FinalSelectionHours = 24
	}

	if config.Policy.ConsentFailure == "" {
		config.Policy.ConsentFailure = ConsentFailureCancel
	}

	if config.Policy.PenaltyOverlap == "" {
		config.Policy.PenaltyOverlap = PenaltyOverlapSupersede
	}

	if config.Policy.ReopenBiddingHours == 0 {
		config.Policy.ReopenBiddingHours = 24
	}

	if config.Policy.FalseReportSuspensionDays == 0 {
		config.Policy.FalseReportSuspensionDays = 30
	}

	if config.Worker.SweepInterval == 0 {
		config.Worker.SweepInterval = 60
	}

	if config.Worker.BatchSize == 0 {
		config.Worker.BatchSize = 100
	}
}
