package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/trapstat-cli/internal/sheets"
	"github.com/KaramelBytes/trapstat-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initForce    bool
	initLinkFile string
)

var initCmd = &cobra.Command{
	Use:   "init <share-url>",
	Short: "Write the spreadsheet share URL to the link file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link := strings.TrimSpace(args[0])
		if _, err := sheets.ExportURL(link); errors.Is(err, sheets.ErrNotSheetURL) {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v; it will be fetched unchanged\n", err)
		}
		path := initLinkFile
		if path == "" {
			c, err := currentConfig()
			if err != nil {
				return err
			}
			path = c.LinkFile
		}
		// Refuse to overwrite an existing link file.
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("link file %s already exists; use --force to overwrite", path)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat link file: %w", err)
		}
		if err := utils.SafeWriteFile(path, []byte(link+"\n")); err != nil {
			return err
		}
		fmt.Printf("✓ Link file written: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing link file")
	initCmd.Flags().StringVar(&initLinkFile, "link-file", "", "link file path (default from config)")
}
