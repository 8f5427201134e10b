package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to environment overrides, e.g. RAYCAST_SERVER_PORT
const EnvPrefix = "RAYCAST"

// Config represents the raycast configuration
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Scenes ScenesConfig `yaml:"scenes" mapstructure:"scenes"`
}

// ServerConfig contains web server configuration
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// BatchConfig controls parallel raycasting
type BatchConfig struct {
	Workers   int `yaml:"workers" mapstructure:"workers"`       // 0 means one per CPU
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size"` // task buffer size
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// ScenesConfig locates scene files
type ScenesConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig controls how numbers are printed
type OutputConfig struct {
	Precision int `yaml:"precision" mapstructure:"precision"`
}

var validLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
	"panic": true,
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Batch:  BatchConfig{Workers: 0, QueueSize: 256},
		Log:    LogConfig{Level: "info"},
		Output: OutputConfig{Precision: 4},
		Scenes: ScenesConfig{Dir: "scenes"},
	}
}

// Load reads configuration. An explicit configFile must exist; otherwise
// config.yaml is searched in $HOME/.raycast, the working directory and
// ./configs, and defaults are used when none is found. Environment
// variables with the RAYCAST_ prefix override file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".raycast"))
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("batch.workers", defaults.Batch.Workers)
	v.SetDefault("batch.queue_size", defaults.Batch.QueueSize)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("output.precision", defaults.Output.Precision)
	v.SetDefault("scenes.dir", defaults.Scenes.Dir)
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch workers cannot be negative")
	}
	if c.Batch.QueueSize < 0 {
		return fmt.Errorf("batch queue size cannot be negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Output.Precision < 0 || c.Output.Precision > 17 {
		return fmt.Errorf("output precision must be between 0 and 17, got %d", c.Output.Precision)
	}
	if c.Scenes.Dir == "" {
		return fmt.Errorf("scenes directory cannot be empty")
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed
func Save(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
