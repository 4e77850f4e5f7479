package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dosedoc/internal/document"
	"dosedoc/internal/runner"
)

var (
	previewSection int
	previewCase    int
)

var previewCmd = &cobra.Command{
	Use:   "preview <document>",
	Short: "Render one section with one test case's variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}

		sec := doc.Section(previewSection)
		if sec == nil {
			return fmt.Errorf("no section with id %d", previewSection)
		}
		if !sec.IsDynamic() {
			fmt.Println(sec.Content)
			return nil
		}

		vars := map[string]any{}
		if previewCase >= 0 && previewCase < len(sec.TestCases) && sec.TestCases[previewCase] != nil {
			vars = sec.TestCases[previewCase].Variables
		}

		r := runner.New(runner.Options{
			Timeout:      cfg.Sandbox.TimeoutDuration(),
			ExtraImports: cfg.Sandbox.ExtraImports,
		})
		fmt.Println(r.Preview(sec.Content, vars))
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVarP(&previewSection, "section", "s", 0, "section id to render")
	previewCmd.Flags().IntVarP(&previewCase, "case", "c", 0, "test case index supplying variables")
}
