package services

import (
	"net/http"

	"github.com/addisbingo/cartela-backend/game"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Gateway owns the websocket surface: it upgrades connections, binds
// them to rooms and routes ingress actions into the core. All
// collaborators are injected; there is no package-level instance.
type Gateway struct {
	registry  *game.Registry
	scheduler *game.Scheduler
	arbiter   *game.Arbiter
	hub       *Hub
	log       *zap.SugaredLogger
}

func NewGateway(registry *game.Registry, scheduler *game.Scheduler, arbiter *game.Arbiter, hub *Hub, log *zap.SugaredLogger) *Gateway {
	return &Gateway{
		registry:  registry,
		scheduler: scheduler,
		arbiter:   arbiter,
		hub:       hub,
		log:       log,
	}
}

// Handle is the gin handler for GET /ws/:room_id?player_id=...
func (g *Gateway) Handle(c *gin.Context) {
	roomID := c.Param("room_id")
	if _, ok := g.registry.Get(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	playerID := c.Query("player_id")
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing player_id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.log.Infow("upgrade failed", "room", roomID, "error", err)
		return
	}

	client := &Client{
		playerID: playerID,
		roomID:   roomID,
		conn:     conn,
		gw:       g,
		send:     make(chan []byte, 32),
	}
	g.hub.register(client)
	g.log.Infow("client connected", "room", roomID, "player", playerID)

	go client.writePump()
	go client.readPump()
}
