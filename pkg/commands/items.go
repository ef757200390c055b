package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/commands/options"
	"tableflip.dev/promoreel/pkg/printers"
)

func addItems(topLevel *cobra.Command) {
	so := &options.SectionOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "items",
		Short: "list the active reels of a section and whether they are dismissed",
		Example: `
promoreel items
promoreel items --section seo --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return oo.HandleError(func() error {
				e, err := openEnv(cmd.Context(), envOptions{migrate: true})
				if err != nil {
					return err
				}
				defer e.close()
				if _, err := e.section(so.Key()); err != nil {
					return err
				}
				items, err := e.svc.Items(cmd.Context(), so.Key())
				if err != nil {
					return err
				}
				return printers.New(oo.JSON).Items(so.Key(), items)
			}())
		},
	}

	options.AddSectionArg(cmd, so)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
