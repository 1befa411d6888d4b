// Package config loads binary settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"retail-sales-lab/internal/recommendation"
)

// Prefix is the environment prefix for every setting, e.g. RETAIL_POSTGRES_DSN.
const Prefix = "RETAIL"

// PolicyPrefix is the environment prefix for recommendation multipliers,
// e.g. RETAIL_POLICY_RETENTION_UPLIFT.
const PolicyPrefix = Prefix + "_POLICY"

// Config holds the settings shared by the binaries. Flags override them.
type Config struct {
	Input         string `envconfig:"INPUT"`
	Sheet         string `envconfig:"SHEET" default:"Online Retail"`
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	ClickhouseDSN string `envconfig:"CLICKHOUSE_DSN"`
	OutputDir     string `envconfig:"OUTPUT_DIR" default:"output"`
	PolicyFile    string `envconfig:"POLICY_FILE"`
	Concurrent    bool   `envconfig:"CONCURRENT" default:"false"`
	MetricsFile   string `envconfig:"METRICS_FILE"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadDotEnv loads variables from the given files (".env" when none given).
// Missing files are skipped. Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	return &cfg, nil
}

// LoadPolicy builds the recommendation policy: defaults, then the YAML file
// at path (if any), then RETAIL_POLICY_* variables.
func LoadPolicy(path string) (recommendation.Policy, error) {
	policy := recommendation.DefaultPolicy()
	if path != "" {
		var err error
		policy, err = recommendation.LoadPolicyFile(path)
		if err != nil {
			return policy, err
		}
	}

	if err := envconfig.Process(PolicyPrefix, &policy); err != nil {
		return policy, fmt.Errorf("load policy from env: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}
