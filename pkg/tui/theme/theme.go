package theme

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss/v2"
)

// Theme centralizes Lip Gloss styles for the terminal host.
type Theme struct {
	Header HeaderTheme
	Footer FooterTheme
	Card   CardTheme
	Bell   BellTheme
	Events EventsTheme
}

// HeaderTheme styles the section tabs and bell badge.
type HeaderTheme struct {
	Bar       lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Badge     lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// CardTheme styles the reel overlay in its three visible modes.
type CardTheme struct {
	Docked     lipgloss.Style
	Fullscreen lipgloss.Style
	Pill       lipgloss.Style
	Title      lipgloss.Style
	Media      lipgloss.Style
	Progress   lipgloss.Style
	Dot        lipgloss.Style
	ActiveDot  lipgloss.Style
	Hint       lipgloss.Style
}

// BellTheme styles the notification panel.
type BellTheme struct {
	Frame  lipgloss.Style
	Title  lipgloss.Style
	Unread lipgloss.Style
	Read   lipgloss.Style
}

// EventsTheme styles the debug event pane.
type EventsTheme struct {
	Frame  lipgloss.Style
	Title  lipgloss.Style
	Stamp  lipgloss.Style
	Source lipgloss.Style
	Debug  lipgloss.Style
	Info   lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
}

// Level returns the message style for a slog level.
func (t EventsTheme) Level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return t.Error
	case l >= slog.LevelWarn:
		return t.Warn
	case l >= slog.LevelInfo:
		return t.Info
	}
	return t.Debug
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")

	tab := lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	return Theme{
		Header: HeaderTheme{
			Bar:       lipgloss.NewStyle().Bold(true),
			Tab:       tab,
			ActiveTab: tab.Foreground(accent).Bold(true).Reverse(true),
			Badge:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(muted),
		},
		Card: CardTheme{
			Docked: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Fullscreen: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Pill: lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(accent).
				Padding(0, 1),
			Title:     lipgloss.NewStyle().Bold(true),
			Media:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
			Progress:  lipgloss.NewStyle().Foreground(accent),
			Dot:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			ActiveDot: lipgloss.NewStyle().Foreground(accent),
			Hint:      lipgloss.NewStyle().Foreground(muted),
		},
		Bell: BellTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title:  lipgloss.NewStyle().Bold(true),
			Unread: lipgloss.NewStyle().Bold(true),
			Read:   lipgloss.NewStyle().Foreground(muted),
		},
		Events: EventsTheme{
			Frame:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
			Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
			Stamp:  lipgloss.NewStyle().Foreground(muted),
			Source: lipgloss.NewStyle().Foreground(accent),
			Debug:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
			Info:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		},
	}
}
