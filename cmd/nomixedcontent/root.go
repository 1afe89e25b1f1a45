package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nomixedcontent.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nomixedcontent",
		Short: "Scan web pages for mixed content issues",
		Long: `nomixedcontent crawls a website and reports pages that reference
sub-resources (images, scripts, stylesheets, frames, media) over plain
HTTP. Browsers block or warn about such mixed content on HTTPS pages.

The crawl stays on the seed URL's host, follows links up to a bounded
depth, and never fetches the same page twice.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
