package game

import (
	"sync"
	"time"
)

// Mode determines the entry fee and the win threshold of a room.
type Mode string

const (
	ModeOneLine  Mode = "one-line"
	ModeTwoLine  Mode = "two-line"
	ModeBlackout Mode = "blackout"
)

// Valid reports whether m is a known game mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeOneLine, ModeTwoLine, ModeBlackout:
		return true
	}
	return false
}

// EntryFee returns the stake for the mode in currency units.
func (m Mode) EntryFee() int {
	switch m {
	case ModeTwoLine:
		return 100
	case ModeBlackout:
		return 150
	default:
		return 50
	}
}

// Status is the lifecycle stage of a room. It only ever moves forward:
// Selecting -> Countdown -> Playing -> Ended.
type Status string

const (
	StatusSelecting Status = "selecting"
	StatusCountdown Status = "countdown"
	StatusPlaying   Status = "playing"
	StatusEnded     Status = "ended"
)

// Winner records one honored claim.
type Winner struct {
	PlayerID string `json:"playerId"`
	CardID   int    `json:"cardId"`
	Board    []int  `json:"board"`
}

// Room is one bingo round from card selection to a declared outcome.
// Every mutation happens under mu; the scheduler and the arbiter are the
// only writers of status and timers. Rooms are never reused: a finished
// round stays readable until the registry destroys it, and the next
// round gets a fresh room with a fresh id.
type Room struct {
	ID       string
	Mode     Mode
	EntryFee int

	mu            sync.Mutex
	status        Status
	players       map[string]bool
	selectedCards map[int]string // cardID -> playerID
	hands         map[string][]int
	drawnNumbers  []int
	countdown     int
	winners       []Winner
	prize         int
	startedAt     time.Time
	endedAt       time.Time

	// Timer handles are owned by the scheduler and never leave this
	// struct. graceTimer covers the delay between the first selection
	// and the countdown actually starting.
	countdownTimer *timerHandle
	drawTimer      *timerHandle
	graceTimer     *time.Timer
}

func newRoom(id string, mode Mode, entryFee, countdown int) *Room {
	return &Room{
		ID:            id,
		Mode:          mode,
		EntryFee:      entryFee,
		status:        StatusSelecting,
		players:       make(map[string]bool),
		selectedCards: make(map[int]string),
		countdown:     countdown,
	}
}

// Status returns the room's current lifecycle stage.
func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Join adds a player to the room. Joining an in-progress room is allowed
// (the player becomes a spectator); the returned count is the number of
// joined players either way.
func (r *Room) Join(playerID string) (count int, spectator bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusPlaying || r.status == StatusEnded {
		return len(r.players), true
	}
	r.players[playerID] = true
	return len(r.players), false
}

// Leave removes a player. Selections survive a leave so a reconnecting
// player does not lose their cards mid-countdown.
func (r *Room) Leave(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, playerID)
}

// SelectCard maps a card to a player. It reports the updated count of
// distinct selecting players and whether this was the room's very first
// selection, which is what arms the countdown.
func (r *Room) SelectCard(cardID int, playerID string) (playerCount int, first bool, err error) {
	if cardID < 1 || cardID > CardCount {
		return 0, false, ErrCardNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusSelecting && r.status != StatusCountdown {
		return r.selectorCountLocked(), false, ErrRoomNotJoinable
	}
	if _, taken := r.selectedCards[cardID]; taken {
		return r.selectorCountLocked(), false, ErrCardTaken
	}
	held := 0
	for _, owner := range r.selectedCards {
		if owner == playerID {
			held++
		}
	}
	if held >= 2 {
		return r.selectorCountLocked(), false, ErrMaxCardsReached
	}

	r.selectedCards[cardID] = playerID
	first = len(r.selectedCards) == 1 && r.status == StatusSelecting
	return r.selectorCountLocked(), first, nil
}

// DeselectCard releases a card held by the player.
func (r *Room) DeselectCard(cardID int, playerID string) (playerCount int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusSelecting && r.status != StatusCountdown {
		return r.selectorCountLocked(), ErrRoomNotJoinable
	}
	owner, ok := r.selectedCards[cardID]
	if !ok || owner != playerID {
		return r.selectorCountLocked(), ErrNotOwner
	}
	delete(r.selectedCards, cardID)
	return r.selectorCountLocked(), nil
}

func (r *Room) selectorCountLocked() int {
	unique := make(map[string]bool, len(r.selectedCards))
	for _, owner := range r.selectedCards {
		unique[owner] = true
	}
	return len(unique)
}

// Snapshot is a consistent copy of the observable room state, used for
// the selection_state reply and the REST surface.
type Snapshot struct {
	RoomID        string         `json:"roomId"`
	Mode          Mode           `json:"mode"`
	EntryFee      int            `json:"entryFee"`
	Status        Status         `json:"status"`
	Countdown     int            `json:"countdown"`
	PlayerCount   int            `json:"playerCount"`
	SelectedCards map[int]string `json:"selectedCards"`
	DrawnNumbers  []int          `json:"drawnNumbers"`
	Winners       []Winner       `json:"winners"`
	// Hands is each player's active cards, present once the game has
	// started.
	Hands map[string][]int `json:"hands,omitempty"`
}

// Snapshot copies the room state under the lock.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	cards := make(map[int]string, len(r.selectedCards))
	for id, owner := range r.selectedCards {
		cards[id] = owner
	}
	var hands map[string][]int
	if r.hands != nil {
		hands = make(map[string][]int, len(r.hands))
		for player, held := range r.hands {
			hands[player] = append([]int(nil), held...)
		}
	}
	return Snapshot{
		RoomID:        r.ID,
		Mode:          r.Mode,
		EntryFee:      r.EntryFee,
		Status:        r.status,
		Countdown:     r.countdown,
		PlayerCount:   r.selectorCountLocked(),
		SelectedCards: cards,
		DrawnNumbers:  append([]int(nil), r.drawnNumbers...),
		Winners:       append([]Winner(nil), r.winners...),
		Hands:         hands,
	}
}

// endLocked flips the room to Ended and stops every timer in the same
// critical section. Caller must hold r.mu. Idempotent: a room that is
// already Ended stays exactly as it was.
func (r *Room) endLocked() {
	if r.status == StatusEnded {
		return
	}
	r.stopTimersLocked()
	r.status = StatusEnded
	r.endedAt = time.Now()
}

// stopTimersLocked cancels whatever timers exist. Stopping twice is a
// no-op; handles are close-once channels.
func (r *Room) stopTimersLocked() {
	if r.graceTimer != nil {
		r.graceTimer.Stop()
		r.graceTimer = nil
	}
	if r.countdownTimer != nil {
		r.countdownTimer.Stop()
	}
	if r.drawTimer != nil {
		r.drawTimer.Stop()
	}
}

// record assembles the persistence row for a finished round.
func (r *Room) record() RoundRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoundRecord{
		RoomID:       r.ID,
		Mode:         r.Mode,
		EntryFee:     r.EntryFee,
		DrawnNumbers: append([]int(nil), r.drawnNumbers...),
		Winners:      append([]Winner(nil), r.winners...),
		Prize:        r.prize,
		StartedAt:    r.startedAt,
		EndedAt:      r.endedAt,
	}
}
