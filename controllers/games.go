package controllers

import (
	"net/http"

	"github.com/addisbingo/cartela-backend/game"
	"github.com/addisbingo/cartela-backend/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GameController is the matchmaking and history surface. Live rooms
// come from the registry; finished rounds come from the database.
type GameController struct {
	registry *game.Registry
	db       *gorm.DB
	log      *zap.SugaredLogger
}

func NewGameController(registry *game.Registry, db *gorm.DB, log *zap.SugaredLogger) *GameController {
	return &GameController{registry: registry, db: db, log: log}
}

type createGameRequest struct {
	Mode game.Mode `json:"mode" binding:"required"`
}

// CreateOrJoin resolves a play request to a room: the open room for the
// mode if one exists, otherwise a brand new one. Ended rooms are never
// reused.
func (g *GameController) CreateOrJoin(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Mode.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game mode"})
		return
	}

	room, created := g.registry.FindOrCreate(req.Mode)
	g.log.Infow("matchmaking resolved", "room", room.ID, "mode", req.Mode, "created", created)
	c.JSON(http.StatusOK, gin.H{
		"gameId":   room.ID,
		"mode":     room.Mode,
		"entryFee": room.EntryFee,
		"created":  created,
	})
}

// ListRounds returns recent finished rounds.
func (g *GameController) ListRounds(c *gin.Context) {
	var rounds []models.Round
	if err := g.db.Order("ended_at DESC").Limit(50).Find(&rounds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, rounds)
}

// GetRoom returns the live room snapshot if the room still exists,
// falling back to the persisted round for late readers.
func (g *GameController) GetRoom(c *gin.Context) {
	id := c.Param("id")
	if room, ok := g.registry.Get(id); ok {
		c.JSON(http.StatusOK, room.Snapshot())
		return
	}

	var round models.Round
	if err := g.db.Where("room_id = ?", id).First(&round).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, round)
}

// GetCard returns the deterministic board for a card id, so clients can
// render the catalogue without shipping a card file.
func (g *GameController) GetCard(c *gin.Context) {
	var req struct {
		ID int `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card id"})
		return
	}

	board, err := game.Board(req.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid card id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cardId": req.ID, "board": board})
}
