package dispatch

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleCollapsesBurst(t *testing.T) {
	d := NewKeyedDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var calls int32
	var got int32
	for i := 1; i <= 5; i++ {
		quantity := int32(i)
		d.Schedule("item", func() {
			atomic.AddInt32(&calls, 1)
			atomic.StoreInt32(&got, quantity)
		})
	}

	time.Sleep(100 * time.Millisecond)

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("burst of 5 schedules ran %d times, want 1", n)
	}
	if q := atomic.LoadInt32(&got); q != 5 {
		t.Errorf("last scheduled value won = %d, want 5", q)
	}
}

func TestScheduleKeysAreIndependent(t *testing.T) {
	d := NewKeyedDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	ran := make(map[string]int)
	record := func(key string) func() {
		return func() {
			mu.Lock()
			ran[key]++
			mu.Unlock()
		}
	}

	d.Schedule("a", record("a"))
	d.Schedule("b", record("b"))
	d.Schedule("a", record("a")) // replaces a's pending call only

	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if ran["a"] != 1 || ran["b"] != 1 {
		t.Errorf("ran = %v, want one call per key", ran)
	}
}

func TestCancel(t *testing.T) {
	d := NewKeyedDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var calls int32
	d.Schedule("item", func() { atomic.AddInt32(&calls, 1) })

	if !d.Cancel("item") {
		t.Error("Cancel of a pending key should report true")
	}
	if d.Cancel("item") {
		t.Error("second Cancel should report false")
	}

	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("cancelled call should never run")
	}
}

func TestPendingCount(t *testing.T) {
	d := NewKeyedDebouncer(50 * time.Millisecond)
	defer d.Stop()

	d.Schedule("a", func() {})
	d.Schedule("b", func() {})
	d.Schedule("a", func() {}) // replacement, not a new key

	if n := d.PendingCount(); n != 2 {
		t.Errorf("PendingCount() = %d, want 2", n)
	}

	time.Sleep(120 * time.Millisecond)
	if n := d.PendingCount(); n != 0 {
		t.Errorf("PendingCount() after firing = %d, want 0", n)
	}
}

func TestStopRejectsFurtherScheduling(t *testing.T) {
	d := NewKeyedDebouncer(10 * time.Millisecond)

	var calls int32
	d.Schedule("item", func() { atomic.AddInt32(&calls, 1) })
	d.Stop()
	d.Schedule("item", func() { atomic.AddInt32(&calls, 1) })

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("no call should run after Stop")
	}
}
