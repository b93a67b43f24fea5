package clock

import (
	"testing"
	"time"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	var order []string
	f.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	f.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	f.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })

	f.Advance(25 * time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("after 25ms got %v, want [a b]", order)
	}
	if f.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", f.Pending())
	}

	f.Advance(5 * time.Millisecond)
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("after 30ms got %v, want [a b c]", order)
	}
}

func TestFakeStop(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	fired := false
	timer := f.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Fatal("first Stop should report true")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}

	f.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestFakeChainedTimersInsideWindow(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	count := 0
	var tick func()
	tick = func() {
		count++
		f.AfterFunc(100*time.Millisecond, tick)
	}
	f.AfterFunc(100*time.Millisecond, tick)

	f.Advance(450 * time.Millisecond)
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if got := f.Now().Sub(time.Unix(0, 0)); got != 450*time.Millisecond {
		t.Errorf("Now advanced by %v, want 450ms", got)
	}
}

func TestFakeNowDuringCallback(t *testing.T) {
	start := time.Unix(100, 0)
	f := NewFake(start)

	var seen time.Time
	f.AfterFunc(time.Second, func() { seen = f.Now() })
	f.Advance(5 * time.Second)

	if !seen.Equal(start.Add(time.Second)) {
		t.Errorf("callback saw %v, want %v", seen, start.Add(time.Second))
	}
}
