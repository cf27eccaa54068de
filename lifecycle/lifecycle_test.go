package lifecycle

import (
	"testing"
	"time"
)

func TestHappyPathTransitions(t *testing.T) {
	l := New()
	if l.State() != StateInit {
		t.Fatalf("initial state = %v, want INIT", l.State())
	}
	if !l.Run() {
		t.Fatal("Run() = false from INIT")
	}
	if !l.Running() {
		t.Fatal("Running() = false after Run()")
	}
	if !l.Drain() {
		t.Fatal("Drain() = false from RUN")
	}
	if !l.Draining() {
		t.Fatal("Draining() = false after Drain()")
	}
	if !l.Stop() {
		t.Fatal("Stop() = false from DRAINING")
	}
	if !l.Stopped() {
		t.Fatal("Stopped() = false after Stop()")
	}
}

func TestIllegalTransitionsRejected(t *testing.T) {
	l := New()
	if l.Drain() {
		t.Fatal("Drain() succeeded from INIT")
	}
	if l.Stop() {
		t.Fatal("Stop() succeeded from INIT")
	}

	l.Run()
	if l.Run() {
		t.Fatal("Run() succeeded twice")
	}
	if l.Stop() {
		t.Fatal("Stop() succeeded from RUN")
	}
}

func TestForceStopFromAnyState(t *testing.T) {
	l := New()
	l.ForceStop()
	if !l.Stopped() {
		t.Fatal("ForceStop() from INIT did not reach STOPPED")
	}

	l2 := New()
	l2.Run()
	l2.ForceStop()
	if !l2.Stopped() {
		t.Fatal("ForceStop() from RUN did not reach STOPPED")
	}
}

func TestActivityCooldown(t *testing.T) {
	l := NewWithCooldown(20 * time.Millisecond)
	if l.IsActive() {
		t.Fatal("IsActive() = true before any SignalActivity")
	}

	l.SignalActivity()
	if !l.IsActive() {
		t.Fatal("IsActive() = false immediately after SignalActivity")
	}

	time.Sleep(40 * time.Millisecond)
	if l.IsActive() {
		t.Fatal("IsActive() = true after cooldown elapsed")
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateInit:     "INIT",
		StateRunning:  "RUN",
		StateDraining: "DRAINING",
		StateStopped:  "STOPPED",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
