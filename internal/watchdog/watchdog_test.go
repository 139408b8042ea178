package watchdog

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ositech/dmtp-agent/internal/diagnostic"
)

type fakeRebooter struct {
	called int32
}

func (r *fakeRebooter) Reboot() error {
	atomic.AddInt32(&r.called, 1)
	return nil
}

type countingIndicator struct {
	toggles int32
}

func (c *countingIndicator) Toggle() error {
	atomic.AddInt32(&c.toggles, 1)
	return nil
}

func TestRegisterVoteRejectsThirdSlot(t *testing.T) {
	s := NewSupervisor(diagnostic.New(), &fakeRebooter{}, nil)
	require.NoError(t, s.RegisterVote("a", func() bool { return false }))
	require.NoError(t, s.RegisterVote("b", func() bool { return false }))
	err := s.RegisterVote("c", func() bool { return false })
	assert.Error(t, err)
}

func TestTallyNormalWhenNoVotesStuck(t *testing.T) {
	s := NewSupervisor(diagnostic.New(), &fakeRebooter{}, nil)
	require.NoError(t, s.RegisterVote("a", func() bool { return false }))
	assert.Equal(t, VerdictNormal, s.tally())
}

func TestTallyAlertAtSumOne(t *testing.T) {
	s := NewSupervisor(diagnostic.New(), &fakeRebooter{}, nil)
	require.NoError(t, s.RegisterVote("a", func() bool { return true }))
	require.NoError(t, s.RegisterVote("b", func() bool { return false }))
	assert.Equal(t, VerdictAlert, s.tally())
}

func TestTallySilentAtSumTwoAndThree(t *testing.T) {
	s := NewSupervisor(diagnostic.New(), &fakeRebooter{}, nil)
	require.NoError(t, s.RegisterVote("a", func() bool { return true }))
	require.NoError(t, s.RegisterVote("b", func() bool { return true }))
	assert.Equal(t, VerdictSilent, s.tally()) // both counters hit 1 on the same tick -> sum 2

	s3 := NewSupervisor(diagnostic.New(), &fakeRebooter{}, nil)
	require.NoError(t, s3.RegisterVote("a", func() bool { return true }))
	s3.tally()                                 // sum 1
	s3.tally()                                 // sum 2
	assert.Equal(t, VerdictSilent, s3.tally()) // sum 3
}

func TestTallyResetsCounterOnFalseVote(t *testing.T) {
	s := NewSupervisor(diagnostic.New(), &fakeRebooter{}, nil)
	stuck := true
	require.NoError(t, s.RegisterVote("a", func() bool { return stuck }))
	assert.Equal(t, VerdictAlert, s.tally()) // counter 0 -> 1, sum 1
	stuck = false
	assert.Equal(t, VerdictNormal, s.tally()) // false vote resets counter to 0
}

func TestTallyRebootsAboveThree(t *testing.T) {
	s := NewSupervisor(diagnostic.New(), &fakeRebooter{}, nil)
	require.NoError(t, s.RegisterVote("a", func() bool { return true }))
	require.NoError(t, s.RegisterVote("b", func() bool { return true }))
	s.tally() // sum 2
	v := s.tally() // sum 4
	assert.Equal(t, VerdictReboot, v)
}

func TestStartEscalatesToRebootAndInvokesRebooter(t *testing.T) {
	rebooter := &fakeRebooter{}
	indicator := &countingIndicator{}
	s := NewSupervisor(diagnostic.New(), rebooter, indicator)
	require.NoError(t, s.RegisterVote("a", func() bool { return true }))
	require.NoError(t, s.RegisterVote("b", func() bool { return true }))

	origInterval, origWakes := wakeInterval, wakesPerCycle
	wakeInterval = 10 * time.Millisecond
	wakesPerCycle = 2
	defer func() { wakeInterval, wakesPerCycle = origInterval, origWakes }()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	verdict := s.Start(ctx)
	assert.Equal(t, VerdictReboot, verdict)
	assert.True(t, s.RebootPending)
	assert.EqualValues(t, 1, atomic.LoadInt32(&rebooter.called))
	assert.True(t, atomic.LoadInt32(&indicator.toggles) > 0)
}

func TestRegisterRecurrentIsInvokedEachWake(t *testing.T) {
	s := NewSupervisor(diagnostic.New(), &fakeRebooter{}, nil)
	var calls int32
	s.RegisterRecurrent(func() { atomic.AddInt32(&calls, 1) })

	origInterval := wakeInterval
	wakeInterval = 10 * time.Millisecond
	defer func() { wakeInterval = origInterval }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	s.Start(ctx)
	assert.True(t, atomic.LoadInt32(&calls) >= 1)
}
