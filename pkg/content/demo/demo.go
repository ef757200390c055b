// Package demo carries the built-in sample content: media items,
// notifications and the two landing pages used when no page file is
// configured.
package demo

import (
	"embed"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/promoreel/pkg/content"
)

//go:embed pages/*.html
var pages embed.FS

// namespace scopes demo ids so reseeding produces the same ids and keeps
// existing dismissals meaningful.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://promoreel.dev/demo"))

// ID returns the stable id of a demo entry.
func ID(slug string) string {
	return uuid.NewSHA1(namespace, []byte(slug)).String()
}

// Page returns the built-in HTML for section.
func Page(section content.SectionKey) (string, bool) {
	data, err := pages.ReadFile("pages/" + string(section) + ".html")
	if err != nil {
		return "", false
	}
	return string(data), true
}

type seedItem struct {
	slug     string
	title    string
	aspect   content.AspectRatio
	sections []content.SectionKey
	duration time.Duration
	age      time.Duration
}

var seedItems = []seedItem{
	{"harbour-shoot", "Behind the scenes: harbour shoot", content.Portrait, []content.SectionKey{content.SectionHome}, 8 * time.Second, time.Hour},
	{"bakery-launch", "Bakery launch in 30 seconds", content.Portrait, []content.SectionKey{content.SectionHome}, 10 * time.Second, 2 * time.Hour},
	{"studio-tour", "Studio tour", content.Landscape, []content.SectionKey{content.SectionHome, content.SectionSEO}, 12 * time.Second, 3 * time.Hour},
	{"keyword-basics", "Keyword research in one minute", content.Portrait, []content.SectionKey{content.SectionSEO}, 9 * time.Second, 4 * time.Hour},
	{"audit-walkthrough", "Technical audit walkthrough", content.Landscape, []content.SectionKey{content.SectionSEO}, 14 * time.Second, 5 * time.Hour},
}

// Items returns the demo media items stamped relative to now.
func Items(now time.Time) []content.MediaItem {
	out := make([]content.MediaItem, 0, len(seedItems))
	for _, s := range seedItems {
		out = append(out, content.MediaItem{
			ID:       ID(s.slug),
			Title:    s.title,
			MediaURL: "https://cdn.promoreel.dev/demo/" + s.slug + ".mp4",
			Aspect:   s.aspect,
			Sections: append([]content.SectionKey(nil), s.sections...),
			Active:   true,
			Version:  content.VersionOf(now.Add(-s.age)),
			Duration: s.duration,
		})
	}
	return out
}

// Notifications returns the demo bell entries stamped relative to now.
func Notifications(now time.Time) []content.NotificationItem {
	return []content.NotificationItem{
		{
			ID:      ID("notice-cohort"),
			Title:   "New SEO cohort",
			Body:    "Enrolment for the next six-week cohort is open.",
			Version: content.VersionOf(now.Add(-30 * time.Minute)),
		},
		{
			ID:      ID("notice-reels"),
			Title:   "Fresh reels",
			Body:    "Three new clips from the harbour shoot.",
			Image:   "https://cdn.promoreel.dev/demo/harbour-shoot.jpg",
			Version: content.VersionOf(now.Add(-90 * time.Minute)),
		},
	}
}

// Provider returns an in-memory provider preloaded with the demo content.
func Provider(now time.Time) *content.Memory {
	p := content.NewMemory(Items(now)...)
	for _, n := range Notifications(now) {
		p.PutNotification(n)
	}
	return p
}
