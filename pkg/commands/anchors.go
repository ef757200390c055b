package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/commands/options"
	"tableflip.dev/promoreel/pkg/content/demo"
	"tableflip.dev/promoreel/pkg/page"
	"tableflip.dev/promoreel/pkg/page/live"
	"tableflip.dev/promoreel/pkg/printers"
	"tableflip.dev/promoreel/pkg/trigger"
)

func addAnchors(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "anchors",
		Short: "inspect how trigger rules resolve against a page",
	}

	addAnchorsCheck(cmd)
	topLevel.AddCommand(cmd)
}

func addAnchorsCheck(parent *cobra.Command) {
	so := &options.SectionOptions{}
	oo := &options.OutputOptions{}
	file := ""
	url := ""
	remote := ""

	cmd := &cobra.Command{
		Use:   "check",
		Short: "resolve the show and hide anchors of a section and report which rule matched",
		Example: `
promoreel anchors check --section seo
promoreel anchors check --section home --file ./site/index.html
promoreel anchors check --section home --url https://example.com
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if file != "" && url != "" {
				return errors.New("give --file or --url, not both")
			}
			return cobra.NoArgs(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return oo.HandleError(func() error {
				e, err := openEnv(cmd.Context(), envOptions{})
				if err != nil {
					return err
				}
				defer e.close()
				sec, err := e.section(so.Key())
				if err != nil {
					return err
				}

				var doc page.Document
				layout := page.Layout{Width: e.cfg.Overlay.ColWidth, RowHeight: e.cfg.Overlay.RowHeight}
				switch {
				case url != "":
					doc, err = live.Capture(cmd.Context(), url, live.Options{RemoteURL: remote, Logger: e.logger})
				case file != "" || sec.Page != "":
					path := file
					if path == "" {
						path = sec.Page
					}
					doc, err = parseFile(path, layout)
				default:
					raw, ok := demo.Page(sec.Key)
					if !ok {
						return fmt.Errorf("no page for section %q, pass --file or --url", sec.Key)
					}
					doc, err = page.ParseString(raw, layout)
				}
				if err != nil {
					return err
				}

				anchors := trigger.Resolve(doc, sec.Rules)
				return printers.New(oo.JSON).Value(anchors, "%s", anchors.Report())
			}())
		},
	}

	options.AddSectionArg(cmd, so)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVar(&file, "file", "", "Lay out a local HTML file.")
	cmd.Flags().StringVar(&url, "url", "", "Measure a live page in headless Chrome.")
	cmd.Flags().StringVar(&remote, "remote", "", "DevTools websocket of a running Chrome, used with --url.")
	parent.AddCommand(cmd)
}

func parseFile(path string, layout page.Layout) (*page.Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return page.Parse(f, layout)
}
