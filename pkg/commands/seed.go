package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/commands/options"
	"tableflip.dev/promoreel/pkg/printers"
)

func addSeed(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "load the demo reels and notifications into the content database",
		Long: `Upserts the built-in demo content. Ids are stable, so seeding again
refreshes the rows and marks them as edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return oo.HandleError(func() error {
				e, err := openEnv(cmd.Context(), envOptions{migrate: true})
				if err != nil {
					return err
				}
				defer e.close()
				res, err := e.svc.Seed(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				return printers.New(oo.JSON).Value(res, "seeded %d items and %d notifications", res.Items, res.Notifications)
			}())
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
