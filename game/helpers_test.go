package game

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// recordedEvent is one frame captured by the fake broadcaster.
type recordedEvent struct {
	RoomID  string
	Type    string
	Payload any
}

// fakeBus records every published event for assertions.
type fakeBus struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *fakeBus) Publish(roomID, eventType string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{RoomID: roomID, Type: eventType, Payload: payload})
}

func (b *fakeBus) all() []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedEvent(nil), b.events...)
}

func (b *fakeBus) ofType(eventType string) []recordedEvent {
	var out []recordedEvent
	for _, e := range b.all() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeStore records write-behind calls.
type fakeStore struct {
	mu      sync.Mutex
	rounds  []RoundRecord
	credits map[string]float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{credits: make(map[string]float64)}
}

func (s *fakeStore) SaveRound(rec RoundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, rec)
	return nil
}

func (s *fakeStore) CreditWinner(playerID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits[playerID] += amount
	return nil
}

func (s *fakeStore) savedRounds() []RoundRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RoundRecord(nil), s.rounds...)
}

// testTimings run the whole state machine in a few milliseconds.
func testTimings() Timings {
	return Timings{
		CountdownSeconds: 2,
		CountdownTick:    2 * time.Millisecond,
		GraceDelay:       2 * time.Millisecond,
		DrawInterval:     2 * time.Millisecond,
		DestroyDelay:     20 * time.Millisecond,
	}
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// rowBoard builds a 25-cell board whose first row is the given numbers;
// the rest of the cells are filled with distinct numbers from other
// columns' ranges.
func rowBoard(t *testing.T, row0 [5]int) []int {
	t.Helper()
	board := make([]int, BoardSize)
	for col, n := range row0 {
		board[col] = n
	}
	for row := 1; row < 5; row++ {
		for col := 0; col < 5; col++ {
			board[row*5+col] = col*15 + row + 6 // distinct, in-column filler
		}
	}
	board[FreeIndex] = 0
	return board
}
