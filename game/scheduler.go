package game

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Timings are the tunable delays of a round. Tests shrink them to run
// the whole state machine in milliseconds.
type Timings struct {
	CountdownSeconds int
	CountdownTick    time.Duration
	GraceDelay       time.Duration
	DrawInterval     time.Duration
	DestroyDelay     time.Duration
}

// DefaultTimings match the production cadence: 30s countdown ticking
// once a second, 2s grace after the first card, a number every 4s, and
// ended rooms kept readable for 5 minutes.
func DefaultTimings() Timings {
	return Timings{
		CountdownSeconds: 30,
		CountdownTick:    time.Second,
		GraceDelay:       2 * time.Second,
		DrawInterval:     4 * time.Second,
		DestroyDelay:     5 * time.Minute,
	}
}

// timerHandle is an idempotent cancellation token for a ticker
// goroutine. Stop may be called any number of times, from any
// goroutine, including while a tick is in flight; the tick itself
// re-checks room status before acting, so cancellation does not need to
// win the race.
type timerHandle struct {
	stop chan struct{}
	once sync.Once
}

func newTimerHandle() *timerHandle {
	return &timerHandle{stop: make(chan struct{})}
}

func (h *timerHandle) Stop() {
	h.once.Do(func() { close(h.stop) })
}

func (h *timerHandle) Done() <-chan struct{} {
	return h.stop
}

// Scheduler drives countdown and draw timers and is, together with the
// arbiter, the only writer of room status. Each timer tick takes the
// room lock, verifies it still owns the room's current phase, and
// no-ops otherwise, so a stale or cancelled timer can never mutate a
// room that moved on.
type Scheduler struct {
	registry *Registry
	bus      Broadcaster
	store    RoundStore
	timings  Timings
	log      *zap.SugaredLogger
}

// NewScheduler wires the scheduler to its collaborators. There is no
// package-level instance; main constructs one and hands it to the
// ingress layer.
func NewScheduler(registry *Registry, bus Broadcaster, store RoundStore, timings Timings, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		registry: registry,
		bus:      bus,
		store:    store,
		timings:  timings,
		log:      log,
	}
}

// ScheduleCountdown arms the Selecting -> Countdown transition after the
// grace delay. Called on the room's first successful card selection so
// near-simultaneous first picks are batched into one countdown.
func (s *Scheduler) ScheduleCountdown(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.status != StatusSelecting || room.graceTimer != nil {
		return
	}
	room.graceTimer = time.AfterFunc(s.timings.GraceDelay, func() {
		s.StartCountdown(room)
	})
}

// StartCountdown moves the room into Countdown and starts the 1-second
// tick loop. Re-entrant while the room has not started playing: an
// explicit restart request resets the clock, stopping any countdown
// already running (the stop-existing-first rule that kills the
// double-speed timer bug class).
func (s *Scheduler) StartCountdown(room *Room) {
	room.mu.Lock()
	if room.status != StatusSelecting && room.status != StatusCountdown {
		room.mu.Unlock()
		return
	}
	if room.graceTimer != nil {
		room.graceTimer.Stop()
		room.graceTimer = nil
	}
	if room.countdownTimer != nil {
		room.countdownTimer.Stop()
	}
	room.status = StatusCountdown
	room.countdown = s.timings.CountdownSeconds
	handle := newTimerHandle()
	room.countdownTimer = handle
	remaining := room.countdown
	room.mu.Unlock()

	s.bus.Publish(room.ID, EvtCountdownTick, CountdownTickData{Countdown: remaining})
	go s.runCountdown(room, handle)
}

func (s *Scheduler) runCountdown(room *Room, handle *timerHandle) {
	defer s.recoverTick(room, "countdown")

	ticker := time.NewTicker(s.timings.CountdownTick)
	defer ticker.Stop()

	for {
		select {
		case <-handle.Done():
			return
		case <-ticker.C:
			room.mu.Lock()
			if room.status != StatusCountdown || room.countdownTimer != handle {
				room.mu.Unlock()
				return
			}
			room.countdown--
			remaining := room.countdown
			room.mu.Unlock()

			s.bus.Publish(room.ID, EvtCountdownTick, CountdownTickData{Countdown: remaining})
			if remaining <= 0 {
				handle.Stop()
				s.startGame(room)
				return
			}
		}
	}
}

// startGame performs Countdown -> Playing: cancel the countdown timer,
// snapshot each player's selected cards as their hand for the round, and
// start the draw loop.
func (s *Scheduler) startGame(room *Room) {
	room.mu.Lock()
	if room.status != StatusCountdown {
		room.mu.Unlock()
		return
	}
	if room.countdownTimer != nil {
		room.countdownTimer.Stop()
	}
	if room.drawTimer != nil {
		room.drawTimer.Stop()
	}
	room.status = StatusPlaying
	room.startedAt = time.Now()
	room.hands = make(map[string][]int)
	for cardID, playerID := range room.selectedCards {
		room.hands[playerID] = append(room.hands[playerID], cardID)
	}
	handle := newTimerHandle()
	room.drawTimer = handle
	room.mu.Unlock()

	s.log.Infow("game started", "room", room.ID, "mode", room.Mode)
	s.bus.Publish(room.ID, EvtGameStarted, GameStartedData{RoomID: room.ID})
	go s.runDraw(room, handle)
}

func (s *Scheduler) runDraw(room *Room, handle *timerHandle) {
	defer s.recoverTick(room, "draw")

	ticker := time.NewTicker(s.timings.DrawInterval)
	defer ticker.Stop()

	for {
		select {
		case <-handle.Done():
			return
		case <-ticker.C:
			if done := s.drawTick(room, handle); done {
				return
			}
		}
	}
}

// drawTick runs one Playing self-loop step. The status check under the
// lock is the real stop condition: an in-flight tick that lost a race
// with a claim sees Ended here and does nothing.
func (s *Scheduler) drawTick(room *Room, handle *timerHandle) (done bool) {
	room.mu.Lock()
	if room.status != StatusPlaying || room.drawTimer != handle {
		room.mu.Unlock()
		return true
	}

	if len(room.drawnNumbers) >= MaxNumber {
		room.endLocked()
		room.mu.Unlock()
		s.log.Infow("number pool exhausted", "room", room.ID)
		s.FinishRoom(room)
		return true
	}

	num, err := Draw(room.drawnNumbers)
	if err != nil {
		room.endLocked()
		room.mu.Unlock()
		s.log.Errorw("draw failed", "room", room.ID, "error", err)
		s.FinishRoom(room)
		return true
	}
	room.drawnNumbers = append(room.drawnNumbers, num)
	history := append([]int(nil), room.drawnNumbers...)
	room.mu.Unlock()

	s.bus.Publish(room.ID, EvtNumberCalled, NumberCalledData{Number: num, History: history})
	return false
}

// FinishRoom emits the terminal broadcast for a room that is already
// Ended, persists the round off the critical path and schedules the
// registry cleanup. Both end paths (claim and exhausted pool) converge
// here.
func (s *Scheduler) FinishRoom(room *Room) {
	room.mu.Lock()
	winners := append([]Winner(nil), room.winners...)
	room.mu.Unlock()

	s.bus.Publish(room.ID, EvtGameEnded, GameEndedData{Winners: winners})
	s.registry.ScheduleDestruction(room.ID)

	rec := room.record()
	go func() {
		if err := s.store.SaveRound(rec); err != nil {
			s.log.Errorw("round save failed", "room", rec.RoomID, "error", err)
		}
	}()
}

// recoverTick is the fail-safe for a panicking timer callback: force the
// room to Ended rather than leave a zombie timer running. Nothing is
// surfaced to clients beyond the normal end-of-game broadcast.
func (s *Scheduler) recoverTick(room *Room, which string) {
	r := recover()
	if r == nil {
		return
	}
	s.log.Errorw("timer callback panic, forcing room to end",
		"room", room.ID, "timer", which, "panic", r)

	room.mu.Lock()
	alreadyEnded := room.status == StatusEnded
	room.endLocked()
	room.mu.Unlock()
	if !alreadyEnded {
		s.FinishRoom(room)
	}
}
