package game

import "time"

// RoundRecord is the write-behind snapshot of a finished round.
type RoundRecord struct {
	RoomID       string
	Mode         Mode
	EntryFee     int
	DrawnNumbers []int
	Winners      []Winner
	Prize        int
	StartedAt    time.Time
	EndedAt      time.Time
}

// RoundStore persists finished rounds and pays out winners. Calls are
// made from fire-and-forget goroutines; implementations must never be
// on a room's critical path.
type RoundStore interface {
	SaveRound(rec RoundRecord) error
	CreditWinner(playerID string, amount float64) error
}
