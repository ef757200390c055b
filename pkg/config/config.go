// Package config loads promoreel settings with viper from `.promoreel.yaml`
// and PROMOREEL_* environment variables.
package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/trigger"
)

// Content selects the content provider.
type Content struct {
	// Driver is "memory", "sqlite" or "postgres".
	Driver string `mapstructure:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" json:"dsn"`
}

// Log configures the slog handlers.
type Log struct {
	Level     string `mapstructure:"level" json:"level"`
	File      string `mapstructure:"file" json:"file"`
	SentryDSN string `mapstructure:"sentry_dsn" json:"sentryDSN,omitempty"`
}

// Overlay holds host timing and gesture thresholds.
type Overlay struct {
	Settle           time.Duration `mapstructure:"settle" json:"settle"`
	RowHeight        int           `mapstructure:"row_height" json:"rowHeight"`
	ColWidth         int           `mapstructure:"col_width" json:"colWidth"`
	DragThreshold    int           `mapstructure:"drag_threshold" json:"dragThreshold"`
	DismissThreshold int           `mapstructure:"dismiss_threshold" json:"dismissThreshold"`
	WheelThreshold   int           `mapstructure:"wheel_threshold" json:"wheelThreshold"`
}

// Section is one page with its trigger rules. An empty Page uses the
// built-in demo page for the key.
type Section struct {
	Key   content.SectionKey `mapstructure:"-" json:"key"`
	Title string             `mapstructure:"title" json:"title"`
	Page  string             `mapstructure:"page" json:"page,omitempty"`
	Rules trigger.Rules      `mapstructure:",squash" json:"rules"`
}

// Config is the resolved configuration.
type Config struct {
	// Path is the directory holding the dismissal ledgers.
	Path     string                         `json:"path"`
	Content  Content                        `json:"content"`
	Log      Log                            `json:"log"`
	Overlay  Overlay                        `json:"overlay"`
	Sections map[content.SectionKey]Section `json:"sections"`
}

// BasePath returns the ledger directory.
func (c *Config) BasePath() string { return c.Path }

// Section returns the section for key.
func (c *Config) Section(key content.SectionKey) (Section, bool) {
	s, ok := c.Sections[key]
	return s, ok
}

// SectionKeys returns the configured keys, home first then alphabetical.
func (c *Config) SectionKeys() []content.SectionKey {
	keys := make([]content.SectionKey, 0, len(c.Sections))
	for k := range c.Sections {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == content.SectionHome || keys[j] == content.SectionHome {
			return keys[i] == content.SectionHome
		}
		return keys[i] < keys[j]
	})
	return keys
}

// DefaultSections are used for keys the config file does not mention. Home
// falls back to a scroll offset and never auto-hides; seo uses named markers.
func DefaultSections() map[content.SectionKey]Section {
	return map[content.SectionKey]Section{
		content.SectionHome: {
			Key:   content.SectionHome,
			Title: "Home",
			Rules: trigger.Rules{
				ShowText:   "Latest reels",
				ShowOffset: trigger.Offset(800),
			},
		},
		content.SectionSEO: {
			Key:   content.SectionSEO,
			Title: "SEO course",
			Rules: trigger.Rules{
				ShowMarker: "reel-show",
				HideMarker: "reel-hide",
				ShowText:   "What you will learn",
				HideText:   "Frequently asked questions",
			},
		},
	}
}

// Default is the configuration used when nothing is read from disk: the
// demo provider, the built-in sections and no ledger path.
func Default() *Config {
	return &Config{
		Content: Content{Driver: "memory"},
		Log:     Log{Level: "info"},
		Overlay: Overlay{
			Settle:           400 * time.Millisecond,
			RowHeight:        20,
			ColWidth:         80,
			DragThreshold:    40,
			DismissThreshold: 120,
			WheelThreshold:   50,
		},
		Sections: DefaultSections(),
	}
}

// Load reads the configuration. A missing file is not an error.
func Load() (*Config, error) {
	return load(viper.New(), os.Getenv("PROMOREEL_CONFIG_PATH"))
}

func load(v *viper.Viper, override string) (*Config, error) {
	v.SetDefault("path", "~/.promoreel")
	v.SetDefault("content.driver", "sqlite")
	v.SetDefault("content.dsn", "~/.promoreel/content.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "~/.promoreel/promoreel.log")
	v.SetDefault("log.sentry_dsn", "")
	v.SetDefault("overlay.settle", "400ms")
	v.SetDefault("overlay.row_height", 20)
	v.SetDefault("overlay.col_width", 80)
	v.SetDefault("overlay.drag_threshold", 40)
	v.SetDefault("overlay.dismiss_threshold", 120)
	v.SetDefault("overlay.wheel_threshold", 50)

	v.SetConfigName(".promoreel") // .yaml is implicit
	v.SetEnvPrefix("PROMOREEL")
	v.AutomaticEnv()

	if override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{Path: v.GetString("path")}
	if err := v.UnmarshalKey("content", &cfg.Content); err != nil {
		return nil, fmt.Errorf("config: content: %w", err)
	}
	if err := v.UnmarshalKey("log", &cfg.Log); err != nil {
		return nil, fmt.Errorf("config: log: %w", err)
	}
	if err := v.UnmarshalKey("overlay", &cfg.Overlay); err != nil {
		return nil, fmt.Errorf("config: overlay: %w", err)
	}

	var raw map[string]Section
	if err := v.UnmarshalKey("sections", &raw); err != nil {
		return nil, fmt.Errorf("config: sections: %w", err)
	}
	cfg.Sections = DefaultSections()
	for k, s := range raw {
		s.Key = content.SectionKey(k)
		if s.Title == "" {
			s.Title = k
		}
		cfg.Sections[s.Key] = s
	}

	var err error
	if cfg.Path, err = homedir.Expand(cfg.Path); err != nil {
		return nil, fmt.Errorf("config: path: %w", err)
	}
	if cfg.Log.File, err = homedir.Expand(cfg.Log.File); err != nil {
		return nil, fmt.Errorf("config: log.file: %w", err)
	}
	if cfg.Content.Driver == "sqlite" {
		if cfg.Content.DSN, err = homedir.Expand(cfg.Content.DSN); err != nil {
			return nil, fmt.Errorf("config: content.dsn: %w", err)
		}
	}
	for k, s := range cfg.Sections {
		if s.Page == "" {
			continue
		}
		if s.Page, err = homedir.Expand(s.Page); err != nil {
			return nil, fmt.Errorf("config: sections.%s.page: %w", k, err)
		}
		cfg.Sections[k] = s
	}
	return cfg, nil
}
