package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"flood-reports/ui"
)

var runNoPreview bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load the dataset and write every report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ds, err := a.pipeline.Load(ctx, cfg.Input.Path, cfg.Input.Sheet)
		if err != nil {
			return eris.Wrap(err, "run: load")
		}
		fmt.Fprintln(out, ui.LoadMessage(ds, pipelineOptions(cfg).Window))

		result, err := a.pipeline.Generate(ctx, ds)
		if err != nil {
			return eris.Wrap(err, "run: generate")
		}

		files, err := a.publisher.Publish(ctx, ds, result)
		if err != nil {
			return eris.Wrap(err, "run: publish")
		}

		previewRows := cfg.Output.PreviewRows
		if runNoPreview {
			previewRows = 0
		}
		fmt.Fprint(out, ui.GenerateMessage(result, files, previewRows))
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoPreview, "no-preview", false, "skip the report tables on stdout")
}
