package timer

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newFake() (*Machine, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	return New(clock), clock
}

func TestStartStopMeasuresElapsed(t *testing.T) {
	m, clock := newFake()
	gen, ok := m.Start()
	if !ok || m.State() != StateRunning {
		t.Fatal("expected running state")
	}
	clock.advance(12340 * time.Millisecond)
	if elapsed, live := m.RunningTick(gen); !live || elapsed != 12340 {
		t.Fatalf("tick elapsed = %d live=%v", elapsed, live)
	}
	duration, plusTwo, ok := m.Stop()
	if !ok || duration != 12340 || plusTwo {
		t.Fatalf("stop = (%d, %v, %v)", duration, plusTwo, ok)
	}
	if m.State() != StateIdle {
		t.Fatal("expected idle after stop")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	m, clock := newFake()
	gen, _ := m.StartCountdown(15)
	m.Start() // countdown tick source must die on this transition
	clock.advance(time.Second)
	if _, live := m.CountdownTick(gen); live {
		t.Fatal("countdown tick after start must be stale")
	}
	runGen := m.Generation()
	m.Cancel()
	if _, live := m.RunningTick(runGen); live {
		t.Fatal("running tick after cancel must be stale")
	}
}

func TestCountdownRemaining(t *testing.T) {
	m, clock := newFake()
	gen, ok := m.StartCountdown(15)
	if !ok {
		t.Fatal("countdown should start from idle")
	}
	clock.advance(3 * time.Second)
	remaining, live := m.CountdownTick(gen)
	if !live || remaining != 12 {
		t.Fatalf("remaining = %d live=%v, want 12", remaining, live)
	}
}

func TestCountdownOverrunPlusTwo(t *testing.T) {
	m, clock := newFake()
	gen, _ := m.StartCountdown(15)
	clock.advance(16 * time.Second)
	if _, live := m.CountdownTick(gen); !live {
		t.Fatal("countdown should survive a one second overrun")
	}
	m.Start()
	clock.advance(10 * time.Second)
	_, plusTwo, ok := m.Stop()
	if !ok || !plusTwo {
		t.Fatal("overrun inspection must yield a pending plus-two")
	}
}

func TestCountdownExpiry(t *testing.T) {
	m, clock := newFake()
	gen, _ := m.StartCountdown(15)
	clock.advance(17 * time.Second)
	if _, live := m.CountdownTick(gen); live {
		t.Fatal("countdown two seconds past zero must expire")
	}
	if m.State() != StateIdle {
		t.Fatal("expired countdown returns to idle, no result")
	}
}

func TestCancelDiscardsPending(t *testing.T) {
	m, clock := newFake()
	gen, _ := m.StartCountdown(1)
	clock.advance(2 * time.Second)
	m.CountdownTick(gen) // arms pending plus-two
	m.Cancel()

	m.Start()
	clock.advance(5 * time.Second)
	_, plusTwo, _ := m.Stop()
	if plusTwo {
		t.Fatal("cancel must discard the pending penalty")
	}
}

func TestArmOnlyFromIdle(t *testing.T) {
	m, _ := newFake()
	if !m.Arm() {
		t.Fatal("arm from idle should succeed")
	}
	if m.Arm() {
		t.Fatal("arm from ready should fail")
	}
	if _, ok := m.Start(); !ok {
		t.Fatal("start from ready should succeed")
	}
	if m.Arm() {
		t.Fatal("arm while running should fail")
	}
}

func TestStopOnlyWhileRunning(t *testing.T) {
	m, _ := newFake()
	if _, _, ok := m.Stop(); ok {
		t.Fatal("stop while idle should fail")
	}
	m.StartCountdown(15)
	if _, _, ok := m.Stop(); ok {
		t.Fatal("stop during countdown should fail")
	}
}

func TestGenerationMonotonic(t *testing.T) {
	m, _ := newFake()
	g0 := m.Generation()
	m.StartCountdown(15)
	g1 := m.Generation()
	m.Start()
	g2 := m.Generation()
	m.Cancel()
	g3 := m.Generation()
	if !(g0 < g1 && g1 < g2 && g2 < g3) {
		t.Fatalf("generations must strictly increase: %d %d %d %d", g0, g1, g2, g3)
	}
}
