package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/trapstat-cli/internal/pipeline"
	"github.com/KaramelBytes/trapstat-cli/internal/plot"
	"github.com/spf13/cobra"
)

var (
	plotFlags      runFlags
	plotOutputPath string
	plotTitle      string
	plotSummaryOut string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Fetch the trap sheet, test each odor and save the bar chart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		opt := plotFlags.options(cmd, c)
		opt.Render = true
		if plotOutputPath != "" {
			opt.OutputPath = plotOutputPath
		}
		opt.Plot.Title = plotTitle

		res, err := pipeline.Run(cmd.Context(), opt)
		if err != nil {
			return err
		}
		printRunNotes(res)
		for _, t := range res.Tests {
			label := "n/a"
			if t.OK() {
				label = plot.FormatP(t.Result.PValue, res.Alpha)
			}
			n := 0
			for _, cc := range res.Counts {
				if cc.Category == t.Category {
					n = cc.Count
				}
			}
			fmt.Printf("  %s (n=%d): %s\n", plot.Abbreviate(opt.Plot.Abbreviations, t.Category), n, label)
		}
		fmt.Printf("✓ Saved figure to %s\n", res.Figure)

		if plotSummaryOut != "" {
			if err := os.WriteFile(plotSummaryOut, []byte(res.Markdown()), 0o644); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			fmt.Printf("✓ Wrote summary to %s\n", plotSummaryOut)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotFlags.bind(plotCmd)
	plotCmd.Flags().StringVarP(&plotOutputPath, "output", "o", "", "PNG output path; the directory must exist (default from config)")
	plotCmd.Flags().StringVar(&plotTitle, "title", "", "figure title")
	plotCmd.Flags().StringVar(&plotSummaryOut, "summary-out", "", "also write the Markdown summary to this path")
}
