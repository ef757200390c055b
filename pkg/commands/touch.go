package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/commands/options"
	"tableflip.dev/promoreel/pkg/printers"
)

func addTouch(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "touch <id>",
		Short: "record an edit of an item or notification so it shows again",
		Example: `
promoreel touch 2b0c6d52-6a61-5f1c-9d43-6c5b0b7e8c11
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return oo.HandleError(func() error {
				e, err := openEnv(cmd.Context(), envOptions{migrate: true})
				if err != nil {
					return err
				}
				defer e.close()
				version, err := e.svc.Touch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printers.New(oo.JSON).Value(
					map[string]interface{}{"id": args[0], "version": version},
					"%s is now at version %d", args[0], version)
			}())
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
