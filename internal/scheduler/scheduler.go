package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"RainbowMarket/internal/game"
)

// Advancer is the part of a session the autopilot drives.
type Advancer interface {
	AdvanceDay() *game.DayReport
}

// Scheduler advances the simulation on a cron schedule.
type Scheduler struct {
	Cron    *cron.Cron
	Session Advancer
	// OnDay, when set, receives every report the autopilot produces.
	OnDay func(*game.DayReport)

	log     zerolog.Logger
	mu      sync.Mutex
	maxDays int
	ran     int
	done    chan struct{}
}

// NewScheduler creates a Scheduler. maxDays > 0 stops the autopilot after that
// many advances; Done is closed at that point.
func NewScheduler(session Advancer, maxDays int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Session: session,
		log:     log,
		maxDays: maxDays,
		done:    make(chan struct{}),
	}
}

// Register adds the day-advance task under the given cron spec (with seconds).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.advanceTask); err != nil {
		return fmt.Errorf("register advance task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("autopilot started")
}

// Stop stops the cron scheduler and waits for a running advance to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Int("days", s.Ran()).Msg("autopilot stopped")
}

// Done is closed once the day limit is reached.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// Ran returns how many days the autopilot has advanced.
func (s *Scheduler) Ran() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}

// RunNow advances one day immediately.
func (s *Scheduler) RunNow() {
	s.advanceTask()
}

func (s *Scheduler) advanceTask() {
	// reserve the slot before advancing so RunNow and a tick cannot both
	// pass the limit
	s.mu.Lock()
	if s.maxDays > 0 && s.ran >= s.maxDays {
		s.mu.Unlock()
		return
	}
	s.ran++
	last := s.maxDays > 0 && s.ran == s.maxDays
	s.mu.Unlock()

	rep := s.Session.AdvanceDay()
	s.log.Info().Int("day", rep.Day).Str("season", rep.Season.Name).Str("total", rep.Valuation.Total.String()).Msg("autopilot advanced day")
	if s.OnDay != nil {
		s.OnDay(rep)
	}
	if last {
		close(s.done)
	}
}
