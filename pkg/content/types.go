// Package content defines the promotional items the overlay renders and the
// provider contract used to fetch them.
package content

import (
	"fmt"
	"strings"
	"time"
)

// SectionKey names a region of the site that scopes items and trigger rules.
type SectionKey string

const (
	// SectionHome is the default landing section.
	SectionHome SectionKey = "home"
	// SectionSEO is the search-optimisation landing section.
	SectionSEO SectionKey = "seo"
)

// AspectRatio describes the media frame shape.
type AspectRatio int

const (
	// Portrait media is taller than wide (reels, stories).
	Portrait AspectRatio = iota
	// Landscape media is wider than tall.
	Landscape
)

func (a AspectRatio) String() string {
	switch a {
	case Landscape:
		return "landscape"
	default:
		return "portrait"
	}
}

// ParseAspectRatio maps a stored aspect name back to its value.
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	default:
		return Portrait, fmt.Errorf("content: unknown aspect ratio %q", s)
	}
}

// DefaultDuration is used when an item carries no playback length.
const DefaultDuration = 15 * time.Second

// MediaItem is one promotional clip. Items are immutable for the duration of a
// page visit; edits arrive as a new Version.
type MediaItem struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	MediaURL string        `json:"mediaUrl"`
	Aspect   AspectRatio   `json:"aspectRatio"`
	Sections []SectionKey  `json:"sections"`
	Active   bool          `json:"active"`
	Version  int64         `json:"version"`
	Duration time.Duration `json:"duration,omitempty"`
}

// InSection reports whether the item belongs to the section.
func (m MediaItem) InSection(key SectionKey) bool {
	for _, s := range m.Sections {
		if s == key {
			return true
		}
	}
	return false
}

// PlayLength returns the clip duration, falling back to DefaultDuration.
func (m MediaItem) PlayLength() time.Duration {
	if m.Duration <= 0 {
		return DefaultDuration
	}
	return m.Duration
}

// NotificationItem is an entry of the notification bell.
type NotificationItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Image   string `json:"image,omitempty"`
	Version int64  `json:"version"`
}

// VersionOf converts a last-modified timestamp into an item version.
func VersionOf(t time.Time) int64 {
	return t.UnixMilli()
}

// TimeOf is the inverse of VersionOf.
func TimeOf(version int64) time.Time {
	return time.UnixMilli(version)
}
