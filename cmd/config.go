package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/trapstat-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set trapstat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}
		fmt.Printf("link_file: %s\n", cfg.LinkFile)
		fmt.Printf("output_path: %s\n", cfg.OutputPath)
		if len(cfg.OdorOrder) > 0 {
			fmt.Printf("odor_order: %s\n", strings.Join(cfg.OdorOrder, ", "))
		}
		fmt.Printf("drop_unlisted: %t\n", cfg.DropUnlisted)
		if len(cfg.Abbreviations) > 0 {
			keys := make([]string, 0, len(cfg.Abbreviations))
			for k := range cfg.Abbreviations {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Println("abbreviations:")
			for _, k := range keys {
				fmt.Printf("  %s: %s\n", k, cfg.Abbreviations[k])
			}
		}
		fmt.Printf("palette_odor: %s\n", cfg.PaletteOdor)
		fmt.Printf("palette_solvent: %s\n", cfg.PaletteSolvent)
		fmt.Printf("plot_width: %d\n", cfg.PlotWidth)
		fmt.Printf("plot_height: %d\n", cfg.PlotHeight)
		fmt.Printf("significance_alpha: %.3f\n", cfg.SignificanceAlpha)
		fmt.Printf("min_group_size: %d\n", cfg.MinGroupSize)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

odor_order takes a comma-separated list. abbreviations takes
comma-separated name=abbr pairs, e.g. "Ethyl acetate=EA,Vinegar=VIN".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if err := applySetting(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func applySetting(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "link_file":
		c.LinkFile = val
	case "output_path":
		c.OutputPath = val
	case "odor_order":
		c.OdorOrder = trimAll(strings.Split(val, ","))
	case "drop_unlisted":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for drop_unlisted: %w", err)
		}
		c.DropUnlisted = b
	case "abbreviations":
		m := map[string]string{}
		for _, pair := range trimAll(strings.Split(val, ",")) {
			name, abbr, ok := strings.Cut(pair, "=")
			if !ok || strings.TrimSpace(name) == "" {
				return fmt.Errorf("invalid abbreviation %q (use name=abbr)", pair)
			}
			m[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(abbr)
		}
		c.Abbreviations = m
	case "palette_odor":
		c.PaletteOdor = val
	case "palette_solvent":
		c.PaletteSolvent = val
	case "plot_width", "plot_height", "min_group_size", "http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		switch key {
		case "plot_width":
			c.PlotWidth = i
		case "plot_height":
			c.PlotHeight = i
		case "min_group_size":
			c.MinGroupSize = i
		case "http_timeout_sec":
			c.HTTPTimeoutSec = i
		case "retry_max_attempts":
			c.RetryMaxAttempts = i
		case "retry_base_delay_ms":
			c.RetryBaseDelayMs = i
		case "retry_max_delay_ms":
			c.RetryMaxDelayMs = i
		}
	case "significance_alpha":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 || f >= 1 {
			return fmt.Errorf("invalid float for significance_alpha: %v (must be in (0,1))", val)
		}
		c.SignificanceAlpha = f
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
