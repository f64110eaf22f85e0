package main

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/mealwise/internal/render"
	"github.com/pageza/mealwise/internal/service"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <meal description>",
		Short: "Analyze one meal and print the result",
		Example: `  mealwise analyze "two eggs, toast and orange juice"
  mealwise analyze --json grilled salmon with rice`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := a.analyzer(cmd.Context())
			if err != nil {
				return err
			}

			result, err := analyzer.Analyze(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return errors.New(service.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return render.WriteText(out, result)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw analysis as JSON")
	return cmd
}
