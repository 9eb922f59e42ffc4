package sway

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClockDeferRunsOnNextUpdate(t *testing.T) {
	c := NewClock()
	var ran []string
	c.Defer(func() { ran = append(ran, "a") })
	cancel := c.Defer(func() { ran = append(ran, "b") })
	cancel()

	if c.Idle() {
		t.Fatal("clock with a deferred func reports idle")
	}
	c.Update(0)
	c.Update(0)
	if diff := cmp.Diff([]string{"a"}, ran); diff != "" {
		t.Errorf("ran (-want +got):\n%s", diff)
	}
	if !c.Idle() {
		t.Error("clock not idle after deferred funcs ran")
	}
}

func TestClockFrameSteps(t *testing.T) {
	c := NewClock()
	var total float32
	frames := 0
	c.onFrame(func(dt float32) bool {
		total += dt
		frames++
		return frames == 3
	})
	if c.Active() != 1 {
		t.Fatalf("Active = %d, want 1", c.Active())
	}
	for i := 0; i < 5; i++ {
		c.Update(0.5)
	}
	if frames != 3 || total != 1.5 {
		t.Errorf("frames = %d, total = %v", frames, total)
	}
	if c.Active() != 0 || c.Elapsed() != 2.5 {
		t.Errorf("Active = %d, Elapsed = %v", c.Active(), c.Elapsed())
	}
}

func TestClockStepsAddedDuringUpdateWaitOneFrame(t *testing.T) {
	c := NewClock()
	inner := 0
	c.onFrame(func(float32) bool {
		c.onFrame(func(float32) bool {
			inner++
			return true
		})
		return true
	})
	c.Update(0.1)
	if inner != 0 {
		t.Fatalf("step registered during Update ran in the same frame")
	}
	c.Update(0.1)
	if inner != 1 {
		t.Errorf("inner ran %d times, want 1", inner)
	}
}

func TestClockCancelStep(t *testing.T) {
	c := NewClock()
	n := 0
	cancel := c.onFrame(func(float32) bool {
		n++
		return false
	})
	c.Update(0.1)
	cancel()
	c.Update(0.1)
	if n != 1 || !c.Idle() {
		t.Errorf("n = %d, idle = %v", n, c.Idle())
	}
}
