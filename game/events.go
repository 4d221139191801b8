package game

import "encoding/json"

// Wire messages are a closed set. Every frame is a type tag plus a typed
// payload; clients never see loosely-shaped objects.

// Ingress actions (client -> core).
const (
	ActJoin           = "join"
	ActSelectCard     = "select_card"
	ActDeselectCard   = "deselect_card"
	ActRequestState   = "request_state"
	ActStartCountdown = "start_countdown"
	ActClaim          = "claim"
	ActLeave          = "leave"
)

// Egress events (core -> room subscribers).
const (
	EvtPlayerJoined   = "player_joined"
	EvtCardSelected   = "card_selected"
	EvtCardDeselected = "card_deselected"
	EvtSelectionState = "selection_state"
	EvtCountdownTick  = "countdown_tick"
	EvtGameStarted    = "game_started"
	EvtNumberCalled   = "number_called"
	EvtGameWon        = "game_won"
	EvtGameEnded      = "game_ended"
	EvtError          = "error"
)

// Message is the frame on the wire in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode builds a wire frame from a type tag and payload.
func Encode(typ string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: typ, Data: data})
}

// Ingress payloads. The room is bound by the connection, so frames only
// carry the fields that vary per action.
type (
	JoinData struct {
		PlayerID string `json:"playerId"`
	}
	SelectCardData struct {
		CardID   int    `json:"cardId"`
		PlayerID string `json:"playerId"`
	}
	ClaimData struct {
		PlayerID      string `json:"playerId"`
		CardID        int    `json:"cardId"`
		Board         []int  `json:"board"`
		MarkedNumbers []int  `json:"markedNumbers"`
	}
)

// Egress payloads.
type (
	PlayerJoinedData struct {
		PlayerID string `json:"playerId"`
		Count    int    `json:"count"`
	}
	CardSelectedData struct {
		CardID      int    `json:"cardId"`
		PlayerID    string `json:"playerId"`
		PlayerCount int    `json:"playerCount"`
	}
	CardDeselectedData struct {
		CardID      int `json:"cardId"`
		PlayerCount int `json:"playerCount"`
	}
	CountdownTickData struct {
		Countdown int `json:"countdown"`
	}
	GameStartedData struct {
		RoomID string `json:"roomId"`
	}
	NumberCalledData struct {
		Number int `json:"number"`
		// History carries the full draw sequence so a client that
		// missed a frame resynchronizes from the next one.
		History []int `json:"history"`
	}
	GameWonData struct {
		Winners        []Winner `json:"winners"`
		Pattern        Pattern  `json:"pattern"`
		PrizePerWinner int      `json:"prizePerWinner"`
		TotalPrize     int      `json:"totalPrize"`
	}
	GameEndedData struct {
		Winners []Winner `json:"winners"`
	}
	ErrorData struct {
		Message string `json:"message"`
	}
)

// Broadcaster fans an egress event out to every subscriber of a room.
// The core publishes through it and consumes nothing back; requester-
// scoped replies (selection_state, error) are the transport's business.
type Broadcaster interface {
	Publish(roomID, eventType string, payload any)
}
