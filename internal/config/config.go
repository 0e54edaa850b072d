package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/trapstat-cli/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	LinkFile   string `mapstructure:"link_file" yaml:"link_file"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`

	// Category ordering and labels
	OdorOrder     []string          `mapstructure:"odor_order" yaml:"odor_order"`
	DropUnlisted  bool              `mapstructure:"drop_unlisted" yaml:"drop_unlisted"`
	Abbreviations map[string]string `mapstructure:"abbreviations" yaml:"abbreviations"`

	// Figure
	PaletteOdor    string `mapstructure:"palette_odor" yaml:"palette_odor"`
	PaletteSolvent string `mapstructure:"palette_solvent" yaml:"palette_solvent"`
	PlotWidth      int    `mapstructure:"plot_width" yaml:"plot_width"`
	PlotHeight     int    `mapstructure:"plot_height" yaml:"plot_height"`

	// Statistics
	SignificanceAlpha float64 `mapstructure:"significance_alpha" yaml:"significance_alpha"`
	MinGroupSize      int     `mapstructure:"min_group_size" yaml:"min_group_size"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// Dir returns ~/.trapstat.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".trapstat"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.trapstat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TRAPSTAT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("link_file", "trap_gsheet_link.txt")
	v.SetDefault("output_path", filepath.Join("figures", "funneltrap_bar.PNG"))
	v.SetDefault("odor_order", []string{})
	v.SetDefault("drop_unlisted", false)
	v.SetDefault("abbreviations", map[string]string{})
	v.SetDefault("palette_odor", "#4c72b0")
	v.SetDefault("palette_solvent", "#dd8452")
	v.SetDefault("plot_width", 1280)
	v.SetDefault("plot_height", 800)
	v.SetDefault("significance_alpha", 0.05)
	v.SetDefault("min_group_size", 1)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
