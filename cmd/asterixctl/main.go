// Command asterixctl decodes and describes ASTERIX data blocks from the
// command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "asterixctl",
	Short: "Decode and inspect ASTERIX surveillance data",
	Long: `asterixctl decodes ASTERIX (EUROCONTROL surveillance data exchange
format) byte streams against a set of loaded category definitions, and
can describe the items and bit fields a category declares.`,
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(describeCmd)

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("category-dir", "testdata/categories", "Directory of category XML definitions to load")
}
