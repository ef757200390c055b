package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/commands/options"
	"tableflip.dev/promoreel/pkg/tui/app"
	"tableflip.dev/promoreel/pkg/tui/components/eventviewer"
)

func addUI(topLevel *cobra.Command) {
	so := &options.SectionOptions{}
	debug := false

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
promoreel ui
promoreel ui --section seo --debug
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			fd := os.Stdout.Fd()
			if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return errors.New("ui needs an interactive terminal")
			}

			sink := eventviewer.NewSink(256)
			e, err := openEnv(cmd.Context(), envOptions{
				logFile: true,
				migrate: true,
				extra:   []slog.Handler{sink.Handler(slog.LevelDebug)},
			})
			if err != nil {
				return err
			}
			defer e.close()
			if _, err := e.section(so.Key()); err != nil {
				return err
			}
			return app.Run(app.Options{
				Config:   e.cfg,
				Provider: e.svc.Provider,
				Store:    e.svc.Store,
				Watcher:  e.svc.Watcher,
				Section:  so.Key(),
				Logger:   e.logger,
				Events:   sink,
				Debug:    debug,
			})
		},
	}

	options.AddSectionArg(cmd, so)
	cmd.Flags().BoolVar(&debug, "debug", false, "Open with the event log visible.")
	topLevel.AddCommand(cmd)
}
