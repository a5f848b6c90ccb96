package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/user/bench_normalizer_go/internal/analysis"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. BENCHNORM_DIR.
	EnvPrefix = "BENCHNORM"
	// DefaultConfigName is looked up in the working directory when no
	// config file is given.
	DefaultConfigName = "normalize"
)

// PhaseConfig describes one normalization phase in a config file.
type PhaseConfig struct {
	Name       string   `mapstructure:"name"`
	Baseline   string   `mapstructure:"baseline"`
	Suffix     string   `mapstructure:"suffix"`
	Structures []string `mapstructure:"structures"`
}

// Config is the resolved run configuration.
type Config struct {
	Dir     string        `mapstructure:"dir"`
	Verbose bool          `mapstructure:"verbose"`
	LogFile string        `mapstructure:"log_file"`
	Plots   bool          `mapstructure:"plots"`
	Report  string        `mapstructure:"report"`
	Phases  []PhaseConfig `mapstructure:"phases"`
}

// SetDefaults registers every scalar key so environment overrides resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", ".")
	v.SetDefault("verbose", false)
	v.SetDefault("log_file", "")
	v.SetDefault("plots", false)
	v.SetDefault("report", "")
}

// Load reads cfgFile, or normalize.{yaml,json,toml,...} from the working
// directory if present, then applies BENCHNORM_* environment variables.
// Flags bound to v before Load take precedence over both.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects phases that cannot be run.
func (c *Config) Validate() error {
	if c.Dir == "" {
		c.Dir = "."
	}
	for _, p := range c.AnalysisPhases() {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AnalysisPhases converts the configured phases, falling back to the
// default find and add phases when none are configured.
func (c *Config) AnalysisPhases() []analysis.Phase {
	if len(c.Phases) == 0 {
		return analysis.DefaultPhases()
	}
	phases := make([]analysis.Phase, 0, len(c.Phases))
	for _, pc := range c.Phases {
		name := pc.Name
		if name == "" {
			name = strings.TrimPrefix(pc.Suffix, "-")
		}
		phases = append(phases, analysis.Phase{
			Name:       name,
			Baseline:   pc.Baseline,
			Suffix:     pc.Suffix,
			Structures: append([]string(nil), pc.Structures...),
		})
	}
	return phases
}
