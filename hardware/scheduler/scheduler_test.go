package scheduler_test

import (
	"testing"

	"github.com/kaedeo/dscore/hardware/scheduler"
)

func TestFireTickEqualsNow(t *testing.T) {
	s := scheduler.New()

	var seenNow scheduler.Tick
	var fired bool
	s.Schedule(100, 1, 0, func(s *scheduler.Scheduler, now scheduler.Tick, param uint32) {
		fired = true
		seenNow = s.Now()
	})

	s.RunUntil(200, func(from, to scheduler.Tick) {})

	if !fired {
		t.Fatal("event never fired")
	}
	if seenNow != 100 {
		t.Fatalf("handler observed now()=%d, wanted 100", seenNow)
	}
	if s.Now() != 200 {
		t.Fatalf("scheduler.Now()=%d after RunUntil(200), wanted 200", s.Now())
	}
}

func TestCancelPreventsInvocation(t *testing.T) {
	s := scheduler.New()

	fired := false
	h := s.Schedule(s.Now()+100, 1, 0, func(s *scheduler.Scheduler, now scheduler.Tick, param uint32) {
		fired = true
	})
	s.Cancel(h)

	s.RunUntil(s.Now()+200, func(from, to scheduler.Tick) {})

	if fired {
		t.Fatal("cancelled event fired")
	}
	if s.Now() != 200 {
		t.Fatalf("scheduler.Now()=%d, wanted 200", s.Now())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	s := scheduler.New()
	h := s.Schedule(10, 1, 0, func(s *scheduler.Scheduler, now scheduler.Tick, param uint32) {})
	s.Cancel(h)
	s.Cancel(h) // must not panic
}

func TestTiesBreakByInsertionOrder(t *testing.T) {
	s := scheduler.New()

	var order []int
	s.Schedule(50, 1, 0, func(s *scheduler.Scheduler, now scheduler.Tick, param uint32) {
		order = append(order, 1)
	})
	s.Schedule(50, 2, 0, func(s *scheduler.Scheduler, now scheduler.Tick, param uint32) {
		order = append(order, 2)
	})

	s.RunUntil(50, func(from, to scheduler.Tick) {})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("fired in order %v, wanted [1 2]", order)
	}
}

func TestZeroDelayFiresImmediately(t *testing.T) {
	s := scheduler.New()
	s.RunUntil(1000, func(from, to scheduler.Tick) {})

	fired := false
	s.Schedule(s.Now()-1, 1, 0, func(s *scheduler.Scheduler, now scheduler.Tick, param uint32) {
		fired = true
	})
	s.RunUntil(s.Now(), func(from, to scheduler.Tick) {})
	if !fired {
		t.Fatal("zero/negative-delay event did not fire on next RunUntil")
	}
}
