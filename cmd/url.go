package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/trapstat-cli/internal/sheets"
	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url [share-url]",
	Short: "Print the CSV export URL for a share link (default: the link file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var link string
		if len(args) == 1 {
			link = args[0]
		} else {
			c, err := currentConfig()
			if err != nil {
				return err
			}
			l, err := sheets.ReadLinkFile(c.LinkFile)
			if err != nil {
				return err
			}
			link = l
		}
		u, err := sheets.ExportURL(link)
		if errors.Is(err, sheets.ErrNotSheetURL) {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v; printing it unchanged\n", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
}
