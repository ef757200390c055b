package app

import (
	"time"

	"tableflip.dev/promoreel/pkg/playback"
)

// clipPlayer stands in for a media element: it only keeps a play clock so
// the card can draw progress and the session learns when a clip ends.
type clipPlayer struct {
	playing bool
	muted   bool
	loop    bool

	length  time.Duration
	elapsed time.Duration
}

var _ playback.Player = (*clipPlayer)(nil)

func (p *clipPlayer) Play() error {
	if p.ended() {
		p.elapsed = 0
	}
	p.playing = true
	return nil
}

func (p *clipPlayer) Pause()              { p.playing = false }
func (p *clipPlayer) SetMuted(muted bool) { p.muted = muted }
func (p *clipPlayer) SetLoop(loop bool)   { p.loop = loop }

// load binds the clock to a new clip.
func (p *clipPlayer) load(length time.Duration) {
	p.length = length
	p.elapsed = 0
}

// advance runs the clock and reports whether the clip just ended.
func (p *clipPlayer) advance(d time.Duration) bool {
	if !p.playing || p.length <= 0 || p.ended() {
		return false
	}
	p.elapsed += d
	if !p.ended() {
		return false
	}
	p.elapsed = p.length
	p.playing = false
	return true
}

func (p *clipPlayer) ended() bool { return p.length > 0 && p.elapsed >= p.length }

func (p *clipPlayer) progress() float64 {
	if p.length <= 0 {
		return 0
	}
	return float64(p.elapsed) / float64(p.length)
}
