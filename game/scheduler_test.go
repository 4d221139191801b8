package game

import (
	"testing"
	"time"
)

func newTestScheduler() (*Scheduler, *Registry, *fakeBus, *fakeStore) {
	bus := &fakeBus{}
	st := newFakeStore()
	reg := NewRegistry(testTimings(), testLogger())
	sched := NewScheduler(reg, bus, st, testTimings(), testLogger())
	return sched, reg, bus, st
}

func TestFirstSelectionArmsCountdown(t *testing.T) {
	sched, reg, bus, _ := newTestScheduler()
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")

	_, first, err := room.SelectCard(1, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !first {
		t.Fatal("first selection not flagged")
	}
	sched.ScheduleCountdown(room)

	waitFor(t, time.Second, func() bool {
		return room.Status() == StatusCountdown || room.Status() == StatusPlaying
	}, "countdown start")

	ticks := bus.ofType(EvtCountdownTick)
	if len(ticks) == 0 {
		t.Fatal("no countdown_tick emitted")
	}
	initial := ticks[0].Payload.(CountdownTickData)
	if initial.Countdown != testTimings().CountdownSeconds {
		t.Fatalf("initial tick = %d, want %d", initial.Countdown, testTimings().CountdownSeconds)
	}
}

func TestCountdownTicksAreMonotonic(t *testing.T) {
	sched, reg, bus, _ := newTestScheduler()
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")
	room.SelectCard(1, "alice")
	sched.StartCountdown(room)

	waitFor(t, time.Second, func() bool { return room.Status() == StatusPlaying }, "game start")

	ticks := bus.ofType(EvtCountdownTick)
	if len(ticks) < 2 {
		t.Fatalf("got %d ticks, want at least 2", len(ticks))
	}
	prev := ticks[0].Payload.(CountdownTickData).Countdown
	for _, e := range ticks[1:] {
		cur := e.Payload.(CountdownTickData).Countdown
		if cur >= prev {
			t.Fatalf("countdown not strictly decreasing: %d then %d", prev, cur)
		}
		prev = cur
	}
	if len(bus.ofType(EvtGameStarted)) != 1 {
		t.Fatalf("game_started emitted %d times, want 1", len(bus.ofType(EvtGameStarted)))
	}
}

func TestCountdownRestartResetsClock(t *testing.T) {
	// A longer countdown keeps the restart comfortably inside the first
	// run.
	timings := testTimings()
	timings.CountdownSeconds = 30
	bus := &fakeBus{}
	reg := NewRegistry(timings, testLogger())
	sched := NewScheduler(reg, bus, newFakeStore(), timings, testLogger())
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")
	room.SelectCard(1, "alice")

	sched.StartCountdown(room)
	waitFor(t, time.Second, func() bool {
		ticks := bus.ofType(EvtCountdownTick)
		return len(ticks) >= 2
	}, "a countdown tick")
	sched.StartCountdown(room) // explicit restart while counting

	waitFor(t, time.Second, func() bool { return room.Status() == StatusPlaying }, "game start")

	// The restart must emit a fresh full-value tick; the old timer must
	// not keep ticking alongside (which would show up as a repeat of the
	// same value from two interleaved countdowns).
	full := 0
	for _, e := range bus.ofType(EvtCountdownTick) {
		if e.Payload.(CountdownTickData).Countdown == timings.CountdownSeconds {
			full++
		}
	}
	if full != 2 {
		t.Fatalf("saw %d full-value ticks, want 2 (initial + restart)", full)
	}
	if got := len(bus.ofType(EvtGameStarted)); got != 1 {
		t.Fatalf("game_started emitted %d times, want 1", got)
	}
}

func TestDrawTickAppendsAndBroadcastsHistory(t *testing.T) {
	sched, reg, bus, _ := newTestScheduler()
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")
	room.SelectCard(1, "alice")
	sched.StartCountdown(room)

	waitFor(t, time.Second, func() bool {
		return len(bus.ofType(EvtNumberCalled)) >= 5
	}, "five number_called events")

	calls := bus.ofType(EvtNumberCalled)
	seen := make(map[int]bool)
	for i, e := range calls[:5] {
		data := e.Payload.(NumberCalledData)
		if data.Number < 1 || data.Number > MaxNumber {
			t.Fatalf("called number %d out of range", data.Number)
		}
		if seen[data.Number] {
			t.Fatalf("number %d called twice", data.Number)
		}
		seen[data.Number] = true
		if len(data.History) != i+1 {
			t.Fatalf("call %d history length = %d, want %d", i, len(data.History), i+1)
		}
		if data.History[len(data.History)-1] != data.Number {
			t.Fatal("history does not end with the called number")
		}
	}
}

func TestExhaustedPoolEndsRoomWithoutWinner(t *testing.T) {
	sched, reg, bus, st := newTestScheduler()
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")

	room.mu.Lock()
	room.status = StatusPlaying
	for n := 1; n <= MaxNumber; n++ {
		room.drawnNumbers = append(room.drawnNumbers, n)
	}
	handle := newTimerHandle()
	room.drawTimer = handle
	room.mu.Unlock()

	if done := sched.drawTick(room, handle); !done {
		t.Fatal("exhausted tick did not stop the loop")
	}
	if room.Status() != StatusEnded {
		t.Fatalf("status = %q, want ended", room.Status())
	}

	ended := bus.ofType(EvtGameEnded)
	if len(ended) != 1 {
		t.Fatalf("game_ended emitted %d times, want 1", len(ended))
	}
	if winners := ended[0].Payload.(GameEndedData).Winners; len(winners) != 0 {
		t.Fatalf("exhausted end has %d winners, want 0", len(winners))
	}

	waitFor(t, time.Second, func() bool { return len(st.savedRounds()) == 1 }, "round save")
	if rec := st.savedRounds()[0]; len(rec.DrawnNumbers) != MaxNumber {
		t.Fatalf("saved %d drawn numbers, want %d", len(rec.DrawnNumbers), MaxNumber)
	}
}

func TestDrawTickNoopsOnceEnded(t *testing.T) {
	sched, reg, bus, _ := newTestScheduler()
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")

	room.mu.Lock()
	room.status = StatusPlaying
	handle := newTimerHandle()
	room.drawTimer = handle
	room.endLocked()
	room.mu.Unlock()

	// The in-flight tick must observe Ended and do nothing, even though
	// it still holds a live handle reference.
	if done := sched.drawTick(room, handle); !done {
		t.Fatal("tick against an ended room did not stop")
	}
	if len(bus.ofType(EvtNumberCalled)) != 0 {
		t.Fatal("ended room broadcast a number")
	}
	if n := len(room.Snapshot().DrawnNumbers); n != 0 {
		t.Fatalf("ended room drew %d numbers", n)
	}
}

func TestStaleDrawTimerCannotDoubleDraw(t *testing.T) {
	sched, reg, bus, _ := newTestScheduler()
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")

	room.mu.Lock()
	room.status = StatusPlaying
	stale := newTimerHandle()
	room.drawTimer = newTimerHandle() // replaced: stale no longer owns the room
	room.mu.Unlock()

	if done := sched.drawTick(room, stale); !done {
		t.Fatal("stale handle tick did not stop")
	}
	if len(bus.ofType(EvtNumberCalled)) != 0 {
		t.Fatal("stale timer drew a number")
	}
}

func TestTimerHandleStopIdempotent(t *testing.T) {
	h := newTimerHandle()
	h.Stop()
	h.Stop()
	select {
	case <-h.Done():
	default:
		t.Fatal("stopped handle not done")
	}
}

func TestPanickingTickForcesRoomToEnd(t *testing.T) {
	sched, reg, bus, _ := newTestScheduler()
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")
	room.mu.Lock()
	room.status = StatusPlaying
	room.mu.Unlock()

	func() {
		defer sched.recoverTick(room, "draw")
		panic("boom")
	}()

	if room.Status() != StatusEnded {
		t.Fatalf("status after tick panic = %q, want ended", room.Status())
	}
	if len(bus.ofType(EvtGameEnded)) != 1 {
		t.Fatal("fail-safe end did not broadcast game_ended")
	}
}

func TestStartCountdownIgnoredOncePlaying(t *testing.T) {
	sched, reg, bus, _ := newTestScheduler()
	room, _ := reg.CreateRoom(ModeOneLine, 50, "")
	room.mu.Lock()
	room.status = StatusPlaying
	room.mu.Unlock()

	sched.StartCountdown(room)
	if room.Status() != StatusPlaying {
		t.Fatal("countdown restarted a playing room")
	}
	if len(bus.ofType(EvtCountdownTick)) != 0 {
		t.Fatal("countdown tick emitted for a playing room")
	}
}
