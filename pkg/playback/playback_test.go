package playback

import (
	"errors"
	"testing"
)

type fakePlayer struct {
	plays   int
	pauses  int
	muted   bool
	loop    bool
	playErr error
}

func (f *fakePlayer) Play() error         { f.plays++; return f.playErr }
func (f *fakePlayer) Pause()              { f.pauses++ }
func (f *fakePlayer) SetMuted(muted bool) { f.muted = muted }
func (f *fakePlayer) SetLoop(loop bool)   { f.loop = loop }

func TestMutedByDefault(t *testing.T) {
	p := &fakePlayer{}
	c := New(p, nil)
	if !c.Muted() || !p.muted {
		t.Fatal("controller and element must start muted")
	}
	if c.Paused() {
		t.Fatal("controller must not start paused")
	}
}

func TestMuteSurvivesIndexChange(t *testing.T) {
	p := &fakePlayer{}
	c := New(p, nil)
	c.ToggleMute()
	c.IndexChanged(false)
	if c.Muted() || p.muted {
		t.Fatal("index change must not reset mute")
	}
}

func TestIndexChangeResumes(t *testing.T) {
	p := &fakePlayer{}
	c := New(p, nil)
	c.TogglePause()
	if !c.Paused() || p.pauses != 1 {
		t.Fatal("expected paused")
	}
	c.IndexChanged(true)
	if c.Paused() || !p.loop || p.plays != 1 {
		t.Fatalf("paused=%v loop=%v plays=%d", c.Paused(), p.loop, p.plays)
	}
}

func TestFullscreenUnmutesOnlyOnce(t *testing.T) {
	p := &fakePlayer{}
	c := New(p, nil)
	c.EnterFullscreen()
	if c.Muted() {
		t.Fatal("first fullscreen entry must unmute")
	}
	c.ToggleMute()
	c.EnterFullscreen()
	if !c.Muted() {
		t.Fatal("later fullscreen entries must keep the user's mute choice")
	}
}

func TestPlayErrorsAreSwallowed(t *testing.T) {
	p := &fakePlayer{playErr: errors.New("autoplay blocked")}
	c := New(p, nil)
	c.TogglePause()
	c.TogglePause()
	if c.Paused() {
		t.Fatal("failed play must not leave the controller paused")
	}
}

func TestNilPlayer(t *testing.T) {
	c := New(nil, nil)
	c.ToggleMute()
	c.EnterFullscreen()
	c.IndexChanged(false)
	c.Stop()
}
