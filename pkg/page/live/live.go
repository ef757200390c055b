// Package live measures a real page in headless Chrome so trigger rules can
// be checked against the production layout.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"tableflip.dev/promoreel/pkg/page"
)

// Snapshot is the measured page.
type Snapshot struct {
	URL            string         `json:"url"`
	ViewportHeight int            `json:"viewportHeight"`
	ScrollHeight   int            `json:"scrollHeight"`
	Items          []page.Element `json:"elements"`
}

// Elements implements page.Document.
func (s *Snapshot) Elements() []page.Element { return s.Items }

// Options configure the browser.
type Options struct {
	// RemoteURL is the DevTools websocket of a running Chrome. Empty launches
	// a local headless one.
	RemoteURL string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// collectScript returns candidate elements with document offsets as JSON.
const collectScript = `() => {
	const attr = "` + page.MarkerAttr + `";
	const out = [];
	const seen = new Set();
	const push = (el) => {
		if (seen.has(el)) return;
		seen.add(el);
		const r = el.getBoundingClientRect();
		out.push({
			tag: el.tagName.toLowerCase(),
			text: (el.textContent || "").trim().slice(0, 500),
			marker: el.getAttribute(attr) || "",
			top: Math.round(r.top + window.scrollY),
		});
	};
	document.querySelectorAll("[" + attr + "]").forEach(push);
	document.querySelectorAll("h1,h2,h3,h4,h5,h6,p,span").forEach(push);
	out.sort((a, b) => a.top - b.top);
	return JSON.stringify({
		viewportHeight: window.innerHeight,
		scrollHeight: document.documentElement.scrollHeight,
		elements: out,
	});
}`

// Capture opens url and measures it.
func Capture(ctx context.Context, url string, o Options) (*Snapshot, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wsURL := o.RemoteURL
	var l *launcher.Launcher
	if wsURL == "" {
		l = launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("live: launch: %w", err)
		}
		wsURL = u
		defer l.Cleanup()
		logger.Debug("live: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("live: connect: %w", err)
	}
	defer b.Close()

	p, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("live: create tab: %w", err)
	}
	defer p.Close()

	if err := p.Context(ctx).Navigate(url); err != nil {
		return nil, fmt.Errorf("live: navigate %s: %w", url, err)
	}
	if err := p.Context(ctx).WaitLoad(); err != nil {
		logger.Warn("live: wait load timeout", "url", url, "error", err)
	}

	res, err := p.Context(ctx).Eval(collectScript)
	if err != nil {
		return nil, fmt.Errorf("live: measure %s: %w", url, err)
	}
	snap, err := decode(res.Value.Str())
	if err != nil {
		return nil, err
	}
	snap.URL = url
	return snap, nil
}

func decode(raw string) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("live: decode: %w", err)
	}
	return &snap, nil
}

// Viewport returns the viewport at scrollY using the measured height.
func (s *Snapshot) Viewport(scrollY int) page.Viewport {
	return page.Viewport{ScrollY: scrollY, Height: s.ViewportHeight}
}
