package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dosedoc/internal/document"
	"dosedoc/internal/runner"
	"dosedoc/internal/store"
	"dosedoc/internal/types"
)

var (
	runJSON   bool
	runRecord bool
)

var runCmd = &cobra.Command{
	Use:   "run <document>",
	Short: "Run every test case in a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		doc, err := document.Load(path)
		if err != nil {
			return err
		}

		r := runner.New(runner.Options{
			Timeout:      cfg.Sandbox.TimeoutDuration(),
			ExtraImports: cfg.Sandbox.ExtraImports,
		})
		summary := r.RunAll(cmd.Context(), doc.Sections)

		if runRecord {
			if err := recordSummary(path, &summary); err != nil {
				return err
			}
		}

		if runJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return err
			}
		} else {
			fmt.Print(renderSummary(doc.Title, &summary))
		}

		if summary.FailedTests > 0 {
			return fmt.Errorf("%d of %d tests failed", summary.FailedTests, summary.TotalTests)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <document>",
	Short: "Show recorded summaries for a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		sums, err := st.ListSummaries(args[0], 20)
		if err != nil {
			return err
		}
		if len(sums) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}
		for _, s := range sums {
			fmt.Print(renderHistoryLine(s))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "emit the raw summary as JSON")
	runCmd.Flags().BoolVar(&runRecord, "record", false, "append the summary to the history database")
}

func recordSummary(path string, summary *types.TestSummary) error {
	st, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SaveSummary(path, summary)
}
