package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/trapstat-cli/internal/pipeline"
	"github.com/KaramelBytes/trapstat-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sumFlags      runFlags
	sumOutputPath string
	sumJSON       bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print sample counts, group means and test results without plotting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		opt := sumFlags.options(cmd, c)
		res, err := pipeline.Run(cmd.Context(), opt)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
		}

		var out []byte
		if sumJSON {
			b, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			out = append(b, '\n')
		} else {
			out = []byte(res.Markdown())
		}
		if sumOutputPath != "" {
			if err := os.WriteFile(sumOutputPath, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote summary to %s\n", sumOutputPath)
			return nil
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	sumFlags.bind(summaryCmd)
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "write the summary to a file instead of stdout")
	summaryCmd.Flags().BoolVar(&sumJSON, "json", false, "emit JSON instead of Markdown")
}
