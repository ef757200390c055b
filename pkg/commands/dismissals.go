package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/commands/options"
	"tableflip.dev/promoreel/pkg/printers"
)

func addDismissals(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "dismissals",
		Short: "inspect or reset the dismissal ledgers",
	}

	addDismissalsList(cmd)
	addDismissalsClear(cmd)
	topLevel.AddCommand(cmd)
}

func addDismissalsList(parent *cobra.Command) {
	lo := &options.LedgerOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded dismissals",
		Example: `
promoreel dismissals list
promoreel dismissals list --ledger bell --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return oo.HandleError(func() error {
				kind, err := lo.Kind()
				if err != nil {
					return err
				}
				e, err := openEnv(cmd.Context(), envOptions{})
				if err != nil {
					return err
				}
				defer e.close()
				return printers.New(oo.JSON).Records(kind, e.svc.Ledger(kind).Sorted())
			}())
		},
	}

	options.AddLedgerArg(cmd, lo)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addDismissalsClear(parent *cobra.Command) {
	lo := &options.LedgerOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "forget every recorded dismissal so all items show again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return oo.HandleError(func() error {
				kind, err := lo.Kind()
				if err != nil {
					return err
				}
				e, err := openEnv(cmd.Context(), envOptions{})
				if err != nil {
					return err
				}
				defer e.close()
				l := e.svc.Ledger(kind)
				n := len(l.Records())
				if err := l.Clear(); err != nil {
					return err
				}
				return printers.New(oo.JSON).Message("cleared %d %s records", n, kind)
			}())
		},
	}

	options.AddLedgerArg(cmd, lo)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}
