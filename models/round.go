package models

import (
	"time"

	"gorm.io/datatypes"
)

// Round is the persisted record of one finished room. The live room
// state never touches the database; this row is written behind the
// game's back once the round is over.
type Round struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RoomID      string         `gorm:"uniqueIndex" json:"room_id"`
	Mode        string         `json:"mode"`
	EntryFee    int            `json:"entry_fee"`
	Prize       int            `json:"prize"`
	NumbersJSON datatypes.JSON `json:"numbers"` // drawn numbers, in call order
	WinnersJSON datatypes.JSON `json:"winners"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     time.Time      `json:"ended_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
