package game

import (
	"go.uber.org/zap"
)

// DefaultPrizePool is the fixed pool split among winners of a round.
const DefaultPrizePool = 500

// Arbiter decides win claims. A valid claim ends the round: the status
// flip and the draw-timer stop happen inside one room-lock critical
// section, so by the time any concurrent claim or draw tick gets the
// lock, the room is already Ended and they reject softly.
type Arbiter struct {
	registry  *Registry
	scheduler *Scheduler
	bus       Broadcaster
	store     RoundStore
	prizePool int
	log       *zap.SugaredLogger
}

// NewArbiter wires the arbiter. prizePool <= 0 falls back to the
// default pool.
func NewArbiter(registry *Registry, scheduler *Scheduler, bus Broadcaster, store RoundStore, prizePool int, log *zap.SugaredLogger) *Arbiter {
	if prizePool <= 0 {
		prizePool = DefaultPrizePool
	}
	return &Arbiter{
		registry:  registry,
		scheduler: scheduler,
		bus:       bus,
		store:     store,
		prizePool: prizePool,
		log:       log,
	}
}

// ClaimResult reports an honored claim.
type ClaimResult struct {
	Pattern        Pattern
	Winners        []Winner
	PrizePerWinner int
	TotalPrize     int
}

// Claim validates a win claim against the room's mode. An invalid
// pattern returns ErrNoPattern and leaves the room playing. A claim
// against an already-ended room returns ErrRoomEnded: duplicate or
// late claims are expected traffic, not faults.
func (a *Arbiter) Claim(roomID, playerID string, cardID int, board, markedNumbers []int) (*ClaimResult, error) {
	room, ok := a.registry.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	switch room.status {
	case StatusEnded:
		room.mu.Unlock()
		return nil, ErrRoomEnded
	case StatusPlaying:
	default:
		room.mu.Unlock()
		return nil, ErrRoomNotJoinable
	}

	pattern, valid := Validate(room.Mode, board, markedNumbers)
	if !valid {
		room.mu.Unlock()
		a.log.Infow("invalid claim", "room", roomID, "player", playerID, "card", cardID)
		return nil, ErrNoPattern
	}

	// Winning path: flip to Ended and kill the draw timer before the
	// lock is released. One winner per room follows from this -- any
	// other claim re-entering hits the Ended check above.
	room.winners = append(room.winners, Winner{
		PlayerID: playerID,
		CardID:   cardID,
		Board:    append([]int(nil), board...),
	})
	room.endLocked()
	winners := append([]Winner(nil), room.winners...)
	room.prize = a.prizePool / len(winners)
	prize := room.prize
	room.mu.Unlock()

	a.log.Infow("claim honored", "room", roomID, "player", playerID,
		"card", cardID, "pattern", pattern, "prize", prize)

	a.bus.Publish(roomID, EvtGameWon, GameWonData{
		Winners:        winners,
		Pattern:        pattern,
		PrizePerWinner: prize,
		TotalPrize:     a.prizePool,
	})
	a.scheduler.FinishRoom(room)

	for _, w := range winners {
		w := w
		go func() {
			if err := a.store.CreditWinner(w.PlayerID, float64(prize)); err != nil {
				a.log.Errorw("winner payout failed", "room", roomID,
					"player", w.PlayerID, "error", err)
			}
		}()
	}

	return &ClaimResult{
		Pattern:        pattern,
		Winners:        winners,
		PrizePerWinner: prize,
		TotalPrize:     a.prizePool,
	}, nil
}
