// dosedoc runs the dynamic-section test batteries of an authored document
// from the command line: one-shot runs, single-section previews, and a watch
// mode that re-runs on every save.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dosedoc/internal/config"
	"dosedoc/internal/logging"
)

var (
	cfgPath string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dosedoc",
	Short: "dosedoc - dynamic section test runner",
	Long: `dosedoc executes the script sections of a patient reference document
against their authored test cases and reports pass/fail per section and for
the document as a whole.

Documents are YAML or JSON files of static and dynamic sections; dynamic
sections carry script fragments evaluated in a sandboxed interpreter against
synthesized clinical variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		return logging.Initialize(level, cfg.Logging.JSON)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "dosedoc.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
