package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"flood-reports/services"
	"flood-reports/ui"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset and list invalid rows without writing reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		p := services.NewPipeline(pipelineOptions(cfg), nil, logger)
		ds, err := p.Load(ctx, cfg.Input.Path, cfg.Input.Sheet)
		if err != nil {
			return eris.Wrap(err, "validate: load")
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.LoadMessage(ds, pipelineOptions(cfg).Window))

		if validateStrict && len(ds.Errors) > 0 {
			return eris.Errorf("validate: %d invalid rows", len(ds.Errors))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero when any row is invalid")
}
