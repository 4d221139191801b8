package store

import (
	"encoding/json"
	"strconv"

	"github.com/addisbingo/cartela-backend/game"
	"github.com/addisbingo/cartela-backend/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rounds is the gorm-backed game.RoundStore. It is only ever called
// from fire-and-forget goroutines, so a slow database can never stall
// a room.
type Rounds struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewRounds(db *gorm.DB, log *zap.SugaredLogger) *Rounds {
	return &Rounds{db: db, log: log}
}

// SaveRound writes the finished round, drawn numbers and winners as
// JSON columns.
func (r *Rounds) SaveRound(rec game.RoundRecord) error {
	numbers, err := json.Marshal(rec.DrawnNumbers)
	if err != nil {
		return err
	}
	winners, err := json.Marshal(rec.Winners)
	if err != nil {
		return err
	}

	round := models.Round{
		RoomID:      rec.RoomID,
		Mode:        string(rec.Mode),
		EntryFee:    rec.EntryFee,
		Prize:       rec.Prize,
		NumbersJSON: datatypes.JSON(numbers),
		WinnersJSON: datatypes.JSON(winners),
		StartedAt:   rec.StartedAt,
		EndedAt:     rec.EndedAt,
	}
	return r.db.Create(&round).Error
}

// CreditWinner adds the prize to the winner's balance and records a
// prize transaction. Player ids on the wire are telegram ids; anything
// that does not parse belongs to a guest session and is skipped.
func (r *Rounds) CreditWinner(playerID string, amount float64) error {
	telegramID, err := strconv.ParseInt(playerID, 10, 64)
	if err != nil {
		r.log.Infow("skipping payout for non-registered player", "player", playerID)
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				r.log.Infow("skipping payout for unknown player", "player", playerID)
				return nil
			}
			return err
		}

		user.Balance += amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Transaction{
			UserID:       user.ID,
			Type:         models.PrizeTransaction,
			Amount:       amount,
			BalanceAfter: user.Balance,
			Reference:    uuid.NewString(),
		}).Error
	})
}
