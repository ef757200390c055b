package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/commands/options"
	"tableflip.dev/promoreel/pkg/printers"
)

func addMigrate(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	statusOnly := false

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply pending migrations to the content database",
		Example: `
promoreel migrate
promoreel migrate --status
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return oo.HandleError(func() error {
				e, err := openEnv(cmd.Context(), envOptions{})
				if err != nil {
					return err
				}
				defer e.close()
				st, err := e.svc.SQL()
				if err != nil {
					return err
				}
				p := printers.New(oo.JSON)
				if !statusOnly {
					n, err := st.Migrate(cmd.Context())
					if err != nil {
						return err
					}
					if !oo.JSON {
						_ = p.Message("applied %d migrations", n)
					}
				}
				status, err := st.Status(cmd.Context())
				if err != nil {
					return err
				}
				return p.Migrations(status)
			}())
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "Only show the migration status.")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
