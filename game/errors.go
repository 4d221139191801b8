package game

import "errors"

// Sentinel errors for everything a client request can run into. All of
// these are recoverable by the caller; ingress layers translate them
// into requester-scoped error events, controllers into HTTP status codes.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrDuplicateID     = errors.New("room id already in use")
	ErrCardNotFound    = errors.New("invalid card id")
	ErrCardTaken       = errors.New("card already selected")
	ErrMaxCardsReached = errors.New("maximum 2 cards per player")
	ErrRoomNotJoinable = errors.New("room is not accepting this action")
	ErrNotOwner        = errors.New("card is not selected by this player")
	ErrRoomEnded       = errors.New("room already ended")
	ErrNoPattern       = errors.New("no valid bingo pattern")
	ErrDrawExhausted   = errors.New("all numbers have been drawn")
)
