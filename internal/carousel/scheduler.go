// Package carousel drives the auto-advancing review feed on the home
// screen: a fixed-period timer moves the current index forward with
// wraparound and keeps the scroll position pinned to index × card width.
package carousel

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/config"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
)

// ScrollFunc receives the new scroll offset; smooth asks the presentation
// layer for an animated transition.
type ScrollFunc func(offset int, smooth bool)

type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	items    []models.Review
	index    int
	cfg      config.CarouselConfig
	onScroll ScrollFunc
	log      zerolog.Logger
}

func NewScheduler(cfg config.CarouselConfig, onScroll ScrollFunc, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		onScroll: onScroll,
		log:      log,
	}
}

// SetItems replaces the rotating list, snaps the view back to the first card
// and restarts the timer from index zero. An empty list stops the rotation
// entirely; no timer runs and no scroll updates are produced.
func (s *Scheduler) SetItems(items []models.Review) {
	s.mu.Lock()

	s.stopLocked()
	s.items = items
	s.index = 0

	if len(items) == 0 {
		s.mu.Unlock()
		return
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %s", s.cfg.TickInterval)
	if _, err := c.AddFunc(spec, s.Advance); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("spec", spec).Msg("carousel timer failed to start")
		return
	}
	c.Start()
	s.cron = c
	scroll := s.onScroll
	s.mu.Unlock()

	// Instant reposition; the following ticks animate from card zero.
	if scroll != nil {
		scroll(0, false)
	}
	s.log.Debug().Int("items", len(items)).Msg("carousel started")
}

// Stop cancels the timer; it must be called on teardown so no tick fires
// after the view is gone.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// Advance moves the rotation one step forward, wrapping to the first item
// after the last one. The timer calls it on every tick; it is also the
// manual stepping primitive.
func (s *Scheduler) Advance() {
	s.mu.Lock()
	if s.cron == nil || len(s.items) == 0 {
		s.mu.Unlock()
		return
	}

	s.index = (s.index + 1) % len(s.items)
	offset := s.index * s.cfg.CardWidth
	scroll := s.onScroll
	s.mu.Unlock()

	if scroll != nil {
		scroll(offset, true)
	}
}

func (s *Scheduler) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}
