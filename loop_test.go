package strata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_QueueUpdateDrain(t *testing.T) {
	loop := NewLoop()

	var got []int
	loop.QueueUpdate(func() { got = append(got, 1) })
	loop.QueueUpdate(func() { got = append(got, 2) })
	require.Empty(t, got, "updates ran before the loop did")

	loop.Drain()
	assert.Equal(t, []int{1, 2}, got)
}

func TestLoop_TimersFireInDeadlineOrder(t *testing.T) {
	loop := NewLoop()

	var got []string
	loop.InsertTimer(300*time.Millisecond, func() { got = append(got, "late") })
	loop.InsertTimer(100*time.Millisecond, func() { got = append(got, "early") })

	loop.Advance(50 * time.Millisecond)
	assert.Empty(t, got)

	loop.Advance(time.Second)
	assert.Equal(t, []string{"early", "late"}, got)
}

func TestLoop_CancelledTimerNeverFires(t *testing.T) {
	loop := NewLoop()

	fired := false
	timer := loop.InsertTimer(time.Millisecond, func() { fired = true })
	timer.Cancel()

	loop.Advance(time.Second)
	assert.False(t, fired)
}

func TestLoop_TimerFiresOnce(t *testing.T) {
	loop := NewLoop()

	count := 0
	loop.InsertTimer(time.Millisecond, func() { count++ })

	loop.Advance(time.Second)
	loop.Advance(time.Second)
	assert.Equal(t, 1, count)
}

func TestLoop_PingQueuesCallback(t *testing.T) {
	loop := NewLoop()

	fired := false
	ping := loop.InsertPing(func() { fired = true })

	ping.Ping()
	assert.False(t, fired, "ping ran inline instead of on the loop")

	loop.Drain()
	assert.True(t, fired)
}

func TestLoop_RunStop(t *testing.T) {
	loop := NewLoop()

	done := make(chan error, 1)
	go func() { done <- loop.Run() }()

	ran := make(chan struct{})
	loop.QueueUpdate(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("queued update never ran")
	}

	// Stop the way production code does: from the loop goroutine.
	loop.QueueUpdate(loop.Stop)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}
