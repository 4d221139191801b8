package controllers

import (
	"net/http"

	"github.com/addisbingo/cartela-backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletController struct {
	db *gorm.DB
}

func NewWalletController(db *gorm.DB) *WalletController {
	return &WalletController{db: db}
}

type walletRequest struct {
	TelegramID int64   `json:"telegramId" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// Deposit adds funds to a user's wallet.
func (w *WalletController) Deposit(c *gin.Context) {
	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var created models.Transaction
	err := w.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("telegram_id = ?", req.TelegramID).First(&user).Error; err != nil {
			return err
		}
		user.Balance += req.Amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		created = models.Transaction{
			UserID:       user.ID,
			Type:         models.DepositTransaction,
			Amount:       req.Amount,
			BalanceAfter: user.Balance,
			Reference:    uuid.NewString(),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deposit"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Withdraw takes funds out, refusing overdrafts.
func (w *WalletController) Withdraw(c *gin.Context) {
	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var created models.Transaction
	insufficient := false
	err := w.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("telegram_id = ?", req.TelegramID).First(&user).Error; err != nil {
			return err
		}
		if user.Balance < req.Amount {
			insufficient = true
			return gorm.ErrInvalidData
		}
		user.Balance -= req.Amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		created = models.Transaction{
			UserID:       user.ID,
			Type:         models.WithdrawTransaction,
			Amount:       req.Amount,
			BalanceAfter: user.Balance,
			Reference:    uuid.NewString(),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		if insufficient {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
			return
		}
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// History lists a user's transactions, newest first.
func (w *WalletController) History(c *gin.Context) {
	tid := c.Param("telegram_id")

	var user models.User
	if err := w.db.Where("telegram_id = ?", tid).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var txs []models.Transaction
	if err := w.db.Where("user_id = ?", user.ID).Order("created_at DESC").Limit(50).Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, txs)
}
