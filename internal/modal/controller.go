// Package modal owns the single overlay dialog of the application. Exactly
// one modal may exist at a time; its lifecycle is Hidden → Visible →
// Closing → Hidden, where Closing lasts a fixed deferral so the exit
// transition can finish before removal.
package modal

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Kind string

const (
	KindAuth    Kind = "auth"
	KindProfile Kind = "profile"
	KindReview  Kind = "review"
	KindOrder   Kind = "order"
)

type Phase int

const (
	PhaseHidden Phase = iota
	PhaseVisible
	PhaseClosing
)

// ErrBusy is returned when Open is called while another modal is visible or
// still closing. The request is rejected, never queued and never replacing
// the active modal.
var ErrBusy = errors.New("another modal is active")

const KeyEscape = "Escape"

// AuthPayload accompanies the auth modal. ShowRequiredMessage marks that the
// dialog was opened because a protected action needs authentication first.
type AuthPayload struct {
	ShowRequiredMessage bool
}

// ProfilePayload accompanies the profile modal opened right after a
// successful login.
type ProfilePayload struct {
	ShowSuccessMessage bool
}

// Hooks are the presentation side effects. LockScroll runs exactly once per
// Hidden → Visible transition, UnlockScroll exactly once per close cycle.
type Hooks struct {
	LockScroll   func()
	UnlockScroll func()
}

type Controller struct {
	mu         sync.Mutex
	phase      Phase
	kind       Kind
	payload    any
	onClosed   func()
	afterClose func()
	timer      *time.Timer
	closeDelay time.Duration
	hooks      Hooks
	log        zerolog.Logger
}

func NewController(closeDelay time.Duration, hooks Hooks, log zerolog.Logger) *Controller {
	return &Controller{
		closeDelay: closeDelay,
		hooks:      hooks,
		log:        log,
	}
}

// Open is accepted only from Hidden. onClosed, if not nil, is invoked
// exactly once when this modal reaches Hidden again.
func (c *Controller) Open(kind Kind, payload any, onClosed func()) error {
	c.mu.Lock()
	if c.phase != PhaseHidden {
		active := c.kind
		c.mu.Unlock()
		c.log.Debug().
			Str("requested", string(kind)).
			Str("active", string(active)).
			Msg("modal open rejected")
		return ErrBusy
	}

	c.phase = PhaseVisible
	c.kind = kind
	c.payload = payload
	c.onClosed = onClosed
	lock := c.hooks.LockScroll
	c.mu.Unlock()

	if lock != nil {
		lock()
	}
	c.log.Debug().Str("kind", string(kind)).Msg("modal opened")
	return nil
}

// RequestClose starts the exit transition. Only the Visible → Closing edge
// performs side effects, so repeated calls and a concurrent Escape press
// cannot release the scroll lock twice.
func (c *Controller) RequestClose() {
	c.closeThen(nil)
}

// CloseThen behaves like RequestClose and additionally runs after once the
// modal reaches Hidden, after the opener's onClosed callback. The login
// flow uses it to present the profile modal as a follow-up.
func (c *Controller) CloseThen(after func()) {
	c.closeThen(after)
}

func (c *Controller) closeThen(after func()) {
	c.mu.Lock()
	if c.phase != PhaseVisible {
		c.mu.Unlock()
		return
	}

	c.phase = PhaseClosing
	c.afterClose = after
	unlock := c.hooks.UnlockScroll
	c.timer = time.AfterFunc(c.closeDelay, c.finishClose)
	c.mu.Unlock()

	if unlock != nil {
		unlock()
	}
}

func (c *Controller) finishClose() {
	c.mu.Lock()
	if c.phase != PhaseClosing {
		c.mu.Unlock()
		return
	}

	kind := c.kind
	onClosed := c.onClosed
	after := c.afterClose
	c.phase = PhaseHidden
	c.kind = ""
	c.payload = nil
	c.onClosed = nil
	c.afterClose = nil
	c.timer = nil
	c.mu.Unlock()

	c.log.Debug().Str("kind", string(kind)).Msg("modal closed")
	if onClosed != nil {
		onClosed()
	}
	if after != nil {
		after()
	}
}

// HandleKey maps a cancellation key press to RequestClose while Visible.
func (c *Controller) HandleKey(key string) {
	if key == KeyEscape {
		c.RequestClose()
	}
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Current() (Kind, Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind, c.phase
}

func (c *Controller) Payload() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payload
}

// MutatePayload lets the active dialog adjust its own payload, e.g. hiding
// the authentication-required notice once the user starts typing.
func (c *Controller) MutatePayload(fn func(payload any) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseHidden {
		return
	}
	c.payload = fn(c.payload)
}

// Stop cancels a pending close timer on teardown.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
