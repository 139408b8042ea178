// Package watchdog implements the agent's self-supervision loop: up
// to two "is this worker stuck?" vote closures are polled on a fixed
// cadence and their stuck counters are summed: a sum of one raises a
// diagnostic alert, two or three stays silent, and above three forces
// a reboot.
package watchdog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/diagnostic"
)

// VoteFunc reports whether the registered worker currently looks
// stuck. A true result increments that worker's stuck counter; false
// resets it to zero, matching watchdog.c's watch_function1/2 return
// convention.
type VoteFunc func() bool

// Verdict is the supervisor's escalation decision for one cycle.
type Verdict int

const (
	VerdictNormal Verdict = iota
	VerdictAlert
	VerdictSilent
	VerdictReboot
)

func (v Verdict) String() string {
	switch v {
	case VerdictNormal:
		return "normal"
	case VerdictAlert:
		return "alert"
	case VerdictSilent:
		return "silent"
	case VerdictReboot:
		return "reboot"
	default:
		return "unknown"
	}
}

// maxVotes matches watchdog.c's add_watchdog_func, which only ever
// fills watch_function1 then watch_function2 and silently ignores a
// third registration — kept as a named, enforced limit rather than
// widened.
const maxVotes = 2

// wakeInterval and wakesPerCycle are vars, not consts, so tests can
// speed up the cadence rather than waiting out the real ~10s cycle.
var (
	wakeInterval  = 2 * time.Second
	wakesPerCycle = 5 // ~10s escalation cadence, per watchdog.c's counter1 >= 5
)

// Rebooter performs the platform reboot. ExecRebooter is the
// production implementation; tests substitute a fake.
type Rebooter interface {
	Reboot() error
}

// Indicator toggles a visible liveness signal once per wake, the Go
// analogue of watchdog.c's flash_running_light(1) call.
type Indicator interface {
	Toggle() error
}

// NopIndicator is used when no GPIO liveness line is available
// (e.g. not running on the target hardware).
type NopIndicator struct{}

func (NopIndicator) Toggle() error { return nil }

// Supervisor runs the vote/escalation loop.
type Supervisor struct {
	diag      *diagnostic.Channel
	rebooter  Rebooter
	indicator Indicator

	mu        sync.Mutex
	votes     []VoteFunc
	names     []string
	counters  []int
	recurrent func()

	// RebootPending is set once the supervisor has decided to reboot,
	// mirroring watchdog.c's reboot_pending flag.
	RebootPending bool
}

func NewSupervisor(diag *diagnostic.Channel, rebooter Rebooter, indicator Indicator) *Supervisor {
	if indicator == nil {
		indicator = NopIndicator{}
	}
	return &Supervisor{diag: diag, rebooter: rebooter, indicator: indicator}
}

// RegisterVote adds a stuck-worker vote closure, up to maxVotes. A
// third registration is an error rather than silently dropped, since
// a caller asking for a third slot almost certainly has a bug — the
// original C source simply discards it, which makes the omission
// invisible.
func (s *Supervisor) RegisterVote(name string, vote VoteFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.votes) >= maxVotes {
		return fmt.Errorf("watchdog: only %d votes supported, %q would be a third", maxVotes, name)
	}
	s.votes = append(s.votes, vote)
	s.names = append(s.names, name)
	s.counters = append(s.counters, 0)
	return nil
}

// RegisterRecurrent installs a closure invoked once per wake (every
// wakeInterval) regardless of escalation state. watchdog.c declares
// the equivalent recurrent_function1 slot but its one call site is
// commented out in the source, leaving it permanently unreachable;
// here it is actually invoked, since a registration API with no way
// to ever fire is not worth carrying forward unchanged.
func (s *Supervisor) RegisterRecurrent(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recurrent = fn
}

// Start runs the supervisor loop until ctx is cancelled or a reboot
// verdict is reached. It returns the final Verdict.
func (s *Supervisor) Start(ctx context.Context) Verdict {
	ticker := time.NewTicker(wakeInterval)
	defer ticker.Stop()

	wakes := 0
	for {
		select {
		case <-ctx.Done():
			return VerdictNormal
		case <-ticker.C:
		}

		s.mu.Lock()
		recurrent := s.recurrent
		s.mu.Unlock()
		if recurrent != nil {
			recurrent()
		}
		if err := s.indicator.Toggle(); err != nil {
			logrus.WithError(err).Warn("watchdog: indicator toggle failed")
		}

		wakes++
		if wakes < wakesPerCycle {
			continue
		}
		wakes = 0

		verdict := s.tally()
		switch verdict {
		case VerdictAlert:
			s.diag.Publish(diagnostic.StatusLibraryStuck, 1, "watchdog alert: one worker reports stuck")
		case VerdictReboot:
			s.mu.Lock()
			s.RebootPending = true
			s.mu.Unlock()
			s.diag.Publish(diagnostic.StatusClientReboot, 0, "watchdog escalated to reboot")
			if err := s.rebooter.Reboot(); err != nil {
				logrus.WithError(err).Error("watchdog: reboot failed")
			}
			return VerdictReboot
		}
	}
}

// tally polls every registered vote, updates its stuck counter, sums
// them, and classifies the sum. A==0 is normal, A==1 alerts, A∈{2,3}
// is silent (see DESIGN.md's Open Question resolution), A>3 reboots.
func (s *Supervisor) tally() Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := 0
	for i, vote := range s.votes {
		if vote() {
			s.counters[i]++
		} else {
			s.counters[i] = 0
		}
		sum += s.counters[i]
	}

	switch {
	case sum == 0:
		return VerdictNormal
	case sum == 1:
		return VerdictAlert
	case sum > 3:
		return VerdictReboot
	default:
		return VerdictSilent
	}
}
