package services

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/addisbingo/cartela-backend/game"
	"go.uber.org/zap"
)

func testClient(roomID string, buffer int) *Client {
	return &Client{
		playerID: "p-" + roomID,
		roomID:   roomID,
		send:     make(chan []byte, buffer),
	}
}

func TestPublishReachesOnlyRoomSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	a := testClient("room-a", 4)
	b := testClient("room-b", 4)
	hub.register(a)
	hub.register(b)

	hub.Publish("room-a", game.EvtCountdownTick, game.CountdownTickData{Countdown: 30})

	select {
	case frame := <-a.send:
		var msg game.Message
		if err := json.Unmarshal(frame, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type != game.EvtCountdownTick {
			t.Fatalf("type = %q", msg.Type)
		}
	default:
		t.Fatal("subscriber did not receive the event")
	}
	select {
	case <-b.send:
		t.Fatal("event leaked into another room")
	default:
	}
}

func TestPublishDropsForSlowConsumer(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	slow := testClient("room-a", 1)
	hub.register(slow)

	hub.Publish("room-a", game.EvtCountdownTick, game.CountdownTickData{Countdown: 2})
	// The second frame must be dropped, not block the caller.
	hub.Publish("room-a", game.EvtCountdownTick, game.CountdownTickData{Countdown: 1})

	if got := len(slow.send); got != 1 {
		t.Fatalf("buffered frames = %d, want 1", got)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	c := testClient("room-a", 4)
	hub.register(c)
	hub.unregister(c)
	hub.unregister(c) // double unregister is harmless

	hub.Publish("room-a", game.EvtGameStarted, game.GameStartedData{RoomID: "room-a"})
	if len(c.send) != 0 {
		t.Fatal("unregistered client received an event")
	}
}

func TestPublishSurvivesDisconnectingSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	for i := 0; i < 32; i++ {
		hub.register(testClient("room-a", 1))
	}

	// Publishers fan out continuously while a client connects and
	// disconnects. Unregister closes the send channel; if a fan-out could
	// observe that close, a routine disconnect would panic the countdown
	// or draw goroutine and kill the room.
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					hub.Publish("room-a", game.EvtCountdownTick, game.CountdownTickData{Countdown: 5})
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		c := testClient("room-a", 1)
		hub.register(c)
		hub.unregister(c)
	}
	close(done)
	wg.Wait()
}

func TestErrorMessagesAreUserFacing(t *testing.T) {
	cases := map[error]string{
		game.ErrCardTaken:    "Card already selected",
		game.ErrNoPattern:    "No valid Bingo pattern found. Keep playing!",
		game.ErrRoomEnded:    "Game already ended",
		game.ErrRoomNotFound: "Game not found",
	}
	for err, want := range cases {
		if got := errorMessage(err); got != want {
			t.Errorf("errorMessage(%v) = %q, want %q", err, got, want)
		}
	}
}
