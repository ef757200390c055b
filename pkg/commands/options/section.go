// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/promoreel/pkg/app"
	"tableflip.dev/promoreel/pkg/config"
	"tableflip.dev/promoreel/pkg/content"
)

// SectionOptions selects a site section.
type SectionOptions struct {
	Section string
}

// AddSectionArg registers --section and its completion.
func AddSectionArg(cmd *cobra.Command, o *SectionOptions) {
	cmd.Flags().StringVarP(&o.Section, "section", "s", string(content.SectionHome),
		"Site section, one of the configured section keys.")
	_ = cmd.RegisterFlagCompletionFunc("section", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return SectionKeys(), cobra.ShellCompDirectiveNoFileComp
	})
}

// Key returns the selected section.
func (o *SectionOptions) Key() content.SectionKey {
	return content.SectionKey(o.Section)
}

// SectionKeys lists the configured sections, or the built-in ones when the
// configuration cannot be read.
func SectionKeys() []string {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	keys := cfg.SectionKeys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, string(k))
	}
	return out
}

// LedgerOptions selects the reel or bell ledger.
type LedgerOptions struct {
	Ledger string
}

// AddLedgerArg registers --ledger.
func AddLedgerArg(cmd *cobra.Command, o *LedgerOptions) {
	cmd.Flags().StringVar(&o.Ledger, "ledger", string(app.LedgerReel),
		`Ledger to use, "reel" for overlay dismissals or "bell" for read notifications.`)
}

// Kind validates the selected ledger.
func (o *LedgerOptions) Kind() (app.LedgerKind, error) {
	return app.ParseLedgerKind(o.Ledger)
}
