package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flood-reports/services"
	"flood-reports/ui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive load and generate loop",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		// Info logs on stderr would tear the interactive view.
		logger = logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		session := services.NewSession(a.pipeline, cfg.Input.Path, cfg.Input.Sheet, logger)
		return ui.RunMenu(ctx, menuActions(session, a.publisher))
	},
}

func menuActions(session *services.Session, publisher *services.Publisher) ui.Actions {
	window := pipelineOptions(cfg).Window
	previewRows := cfg.Output.PreviewRows

	return ui.Actions{
		Load: func(ctx context.Context) (string, error) {
			ds, err := session.Load(ctx)
			if err != nil {
				return "", err
			}
			return ui.LoadMessage(ds, window), nil
		},
		Generate: func(ctx context.Context) (string, error) {
			out, err := session.Generate(ctx)
			if err != nil {
				return "", err
			}
			files, err := publisher.Publish(ctx, session.Dataset(), out)
			if err != nil {
				return "", err
			}
			return ui.GenerateMessage(out, files, previewRows), nil
		},
	}
}
