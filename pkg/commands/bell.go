package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/commands/options"
	"tableflip.dev/promoreel/pkg/printers"
)

func addBell(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "bell",
		Short: "list notifications and their read state",
		Example: `
promoreel bell
promoreel bell read --all
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
				b, err := e.svc.Bell(cmd.Context())
				if err != nil {
					return err
				}
				return printers.New(oo.JSON).Bell(b.Entries())
			}())
		},
	}

	options.AddOutputArg(cmd, oo)
	addBellRead(cmd)
	topLevel.AddCommand(cmd)
}

func addBellRead(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	all := false

	cmd := &cobra.Command{
		Use:   "read [id]",
		Short: "mark a notification, or all of them, as read",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("give an id or --all, not both")
			}
			if !all && len(args) != 1 {
				return errors.New("an id or --all is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return oo.HandleError(func() error {
				e, err := openEnv(cmd.Context(), envOptions{migrate: true})
				if err != nil {
					return err
				}
				defer e.close()
				b, err := e.svc.Bell(cmd.Context())
				if err != nil {
					return err
				}
				p := printers.New(oo.JSON)
				if all {
					n := b.UnreadCount()
					if err := b.MarkAllRead(); err != nil {
						return err
					}
					return p.Message("marked %d notifications read", n)
				}
				if err := b.MarkRead(args[0]); err != nil {
					return err
				}
				return p.Message("marked %s read", args[0])
			}())
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Mark every notification read.")
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}
