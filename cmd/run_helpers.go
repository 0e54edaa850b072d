package cmd

import (
	"fmt"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/trapstat-cli/internal/config"
	"github.com/KaramelBytes/trapstat-cli/internal/pipeline"
	"github.com/KaramelBytes/trapstat-cli/internal/plot"
	"github.com/KaramelBytes/trapstat-cli/internal/trap"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// runFlags are shared by plot and summary.
type runFlags struct {
	linkFile     string
	input        string
	sheet        string
	order        []string
	dropUnlisted bool
	alpha        float64
	minGroup     int
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.linkFile, "link-file", "", "file whose first line is the spreadsheet share URL (default from config)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "read a local .csv/.tsv/.xlsx instead of fetching the sheet")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.Flags().StringSliceVar(&f.order, "order", nil, "odor plot order, comma-separated (overrides config)")
	cmd.Flags().BoolVar(&f.dropUnlisted, "drop-unlisted", false, "drop odors not named in the order instead of plotting them last")
	cmd.Flags().Float64Var(&f.alpha, "alpha", 0, "significance threshold (overrides config)")
	cmd.Flags().IntVar(&f.minGroup, "min-group", 0, "minimum observations per trap group for the test (overrides config)")
}

// options merges configuration with the flags that were set on cmd.
func (f *runFlags) options(cmd *cobra.Command, c *cfgpkg.Global) pipeline.Options {
	opt := pipeline.Options{
		LinkFile:     c.LinkFile,
		InputPath:    f.input,
		Sheet:        f.sheet,
		OutputPath:   c.OutputPath,
		Order:        c.OdorOrder,
		DropUnlisted: c.DropUnlisted,
		MinGroupSize: c.MinGroupSize,
		Alpha:        c.SignificanceAlpha,
		Fetcher:      newFetcher(c),
		Logger:       logger,
	}
	fl := cmd.Flags()
	if fl.Changed("link-file") && f.linkFile != "" {
		opt.LinkFile = f.linkFile
	}
	if fl.Changed("order") {
		opt.Order = trimAll(f.order)
	}
	if fl.Changed("drop-unlisted") {
		opt.DropUnlisted = f.dropUnlisted
	}
	if fl.Changed("alpha") && f.alpha > 0 {
		opt.Alpha = f.alpha
	}
	if fl.Changed("min-group") && f.minGroup > 0 {
		opt.MinGroupSize = f.minGroup
	}

	p := plot.DefaultOptions()
	if c.PlotWidth > 0 {
		p.Width = c.PlotWidth
	}
	if c.PlotHeight > 0 {
		p.Height = c.PlotHeight
	}
	if c.PaletteOdor != "" {
		p.Palette[trap.TrapOdor] = c.PaletteOdor
	}
	if c.PaletteSolvent != "" {
		p.Palette[trap.TrapSolvent] = c.PaletteSolvent
	}
	p.Abbreviations = c.Abbreviations
	opt.Plot = p
	return opt
}

// printRunNotes reports source size and any pipeline warnings.
func printRunNotes(res *pipeline.Result) {
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
	}
	if res.SourceBytes > 0 {
		fmt.Printf("✓ Downloaded %s from %s\n", humanize.Bytes(uint64(res.SourceBytes)), res.Source)
	} else {
		fmt.Printf("✓ Loaded %s\n", res.Source)
	}
	c := res.Clean
	fmt.Printf("✓ Kept %d of %d rows (%d excluded, %d with missing values)\n", c.Kept, c.Rows, c.Excluded, c.Missing)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
