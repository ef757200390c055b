package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

// New returns the root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promoreel",
		Short: base.Wrap80("Contextual promotional reels that pop up over a page and stay dismissed until they change."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

// AddCommands registers every subcommand on topLevel.
func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addItems(topLevel)
	addBell(topLevel)
	addDismissals(topLevel)
	addTouch(topLevel)
	addMigrate(topLevel)
	addSeed(topLevel)
	addAnchors(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}
