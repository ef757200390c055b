// Package playback keeps the mute and pause state of the active media
// element in step with the overlay.
package playback

import "log/slog"

// Player is the media element bound to the current item.
type Player interface {
	Play() error
	Pause()
	SetMuted(muted bool)
	SetLoop(loop bool)
}

// Controller owns mute and pause. Muted starts true so autoplay is allowed;
// only the user or the first fullscreen entry unmutes.
type Controller struct {
	player Player
	logger *slog.Logger

	muted            bool
	paused           bool
	fullscreenBefore bool
}

// New binds a controller to player. A nil player is allowed.
func New(player Player, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{player: player, logger: logger, muted: true}
	if player != nil {
		player.SetMuted(true)
	}
	return c
}

// Muted reports the mute state.
func (c *Controller) Muted() bool { return c.muted }

// Paused reports the pause state.
func (c *Controller) Paused() bool { return c.paused }

// ToggleMute flips mute on explicit user action.
func (c *Controller) ToggleMute() {
	c.muted = !c.muted
	if c.player != nil {
		c.player.SetMuted(c.muted)
	}
}

// EnterFullscreen unmutes on the first entry of the session and always
// resumes playback.
func (c *Controller) EnterFullscreen() {
	if !c.fullscreenBefore {
		c.fullscreenBefore = true
		if c.muted {
			c.muted = false
			if c.player != nil {
				c.player.SetMuted(false)
			}
		}
	}
	c.resume()
}

// TogglePause flips pause; callers only allow it in fullscreen.
func (c *Controller) TogglePause() {
	if c.paused {
		c.resume()
		return
	}
	c.paused = true
	if c.player != nil {
		c.player.Pause()
	}
}

// IndexChanged restarts playback for a newly shown item. Mute is kept.
func (c *Controller) IndexChanged(loop bool) {
	if c.player != nil {
		c.player.SetLoop(loop)
	}
	c.resume()
}

// Stop pauses the element when the overlay goes away.
func (c *Controller) Stop() {
	if c.player != nil {
		c.player.Pause()
	}
}

func (c *Controller) resume() {
	c.paused = false
	if c.player == nil {
		return
	}
	if err := c.player.Play(); err != nil {
		// Rejected autoplay is not a state change.
		c.logger.Debug("playback: play rejected", "error", err)
	}
}
