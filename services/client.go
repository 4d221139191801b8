package services

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/addisbingo/cartela-backend/game"
	"github.com/gorilla/websocket"
)

// Client is one websocket connection bound to one room. Frames it sends
// are ingress actions; everything it receives comes either from the hub
// fan-out or from its own requester-scoped replies.
type Client struct {
	playerID string
	roomID   string
	conn     *websocket.Conn
	gw       *Gateway
	send     chan []byte
	once     sync.Once
}

// Close shuts the connection down. The send channel belongs to the hub
// and is closed by unregister; closing the conn here unblocks the read
// pump, whose teardown does the unregistering.
func (c *Client) Close() {
	c.once.Do(func() {
		c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer func() {
		c.gw.hub.unregister(c)
		if room, ok := c.gw.registry.Get(c.roomID); ok {
			room.Leave(c.playerID)
		}
		c.Close()
	}()

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.gw.log.Infow("read error", "player", c.playerID, "error", err)
			}
			return
		}
		c.dispatch(frame)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			c.gw.log.Infow("write error", "player", c.playerID, "error", err)
			return
		}
	}
}

// dispatch handles one ingress frame. Any fault becomes an error event
// back to this requester only; room-wide traffic only ever comes from
// state-changing successes.
func (c *Client) dispatch(frame []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.gw.log.Errorw("recovered handling frame", "player", c.playerID, "panic", r)
		}
	}()

	var msg game.Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		c.sendEvent(game.EvtError, game.ErrorData{Message: "malformed message"})
		return
	}

	room, ok := c.gw.registry.Get(c.roomID)
	if !ok {
		c.sendEvent(game.EvtError, game.ErrorData{Message: "Game not found"})
		return
	}

	switch msg.Type {
	case game.ActJoin:
		count, spectator := room.Join(c.playerID)
		if spectator {
			// Late joiners watch: hand them the current state so they
			// can render the round in progress.
			c.sendEvent(game.EvtSelectionState, room.Snapshot())
			return
		}
		c.gw.hub.Publish(c.roomID, game.EvtPlayerJoined, game.PlayerJoinedData{
			PlayerID: c.playerID, Count: count,
		})

	case game.ActSelectCard:
		var data game.SelectCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendEvent(game.EvtError, game.ErrorData{Message: "malformed message"})
			return
		}
		count, first, err := room.SelectCard(data.CardID, c.playerID)
		if err != nil {
			c.sendEvent(game.EvtError, game.ErrorData{Message: errorMessage(err)})
			return
		}
		c.gw.hub.Publish(c.roomID, game.EvtCardSelected, game.CardSelectedData{
			CardID: data.CardID, PlayerID: c.playerID, PlayerCount: count,
		})
		if first {
			c.gw.scheduler.ScheduleCountdown(room)
		}

	case game.ActDeselectCard:
		var data game.SelectCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendEvent(game.EvtError, game.ErrorData{Message: "malformed message"})
			return
		}
		count, err := room.DeselectCard(data.CardID, c.playerID)
		if err != nil {
			c.sendEvent(game.EvtError, game.ErrorData{Message: errorMessage(err)})
			return
		}
		c.gw.hub.Publish(c.roomID, game.EvtCardDeselected, game.CardDeselectedData{
			CardID: data.CardID, PlayerCount: count,
		})

	case game.ActRequestState:
		// Reply to the requester only; this is the resync path, not a
		// broadcast.
		c.sendEvent(game.EvtSelectionState, room.Snapshot())

	case game.ActStartCountdown:
		c.gw.scheduler.StartCountdown(room)

	case game.ActClaim:
		var data game.ClaimData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendEvent(game.EvtError, game.ErrorData{Message: "malformed message"})
			return
		}
		if _, err := c.gw.arbiter.Claim(c.roomID, c.playerID, data.CardID, data.Board, data.MarkedNumbers); err != nil {
			// A losing-the-race claim is expected traffic; stay quiet
			// beyond telling the claimant.
			c.sendEvent(game.EvtError, game.ErrorData{Message: errorMessage(err)})
		}

	case game.ActLeave:
		room.Leave(c.playerID)
		c.gw.hub.unregister(c)
		c.Close()

	default:
		c.sendEvent(game.EvtError, game.ErrorData{Message: "unknown action"})
	}
}

func (c *Client) sendEvent(eventType string, payload any) {
	frame, err := game.Encode(eventType, payload)
	if err != nil {
		c.gw.log.Errorw("event encode failed", "player", c.playerID, "error", err)
		return
	}
	select {
	case c.send <- frame:
	default:
		c.gw.log.Infow("dropping reply for slow consumer", "player", c.playerID)
	}
}

// errorMessage maps sentinel errors to the user-facing strings clients
// already render.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrCardTaken):
		return "Card already selected"
	case errors.Is(err, game.ErrMaxCardsReached):
		return "Maximum 2 cards per player"
	case errors.Is(err, game.ErrNoPattern):
		return "No valid Bingo pattern found. Keep playing!"
	case errors.Is(err, game.ErrRoomEnded):
		return "Game already ended"
	case errors.Is(err, game.ErrRoomNotJoinable):
		return "Round already in progress"
	case errors.Is(err, game.ErrNotOwner):
		return "Not your card"
	case errors.Is(err, game.ErrCardNotFound):
		return "Invalid card"
	case errors.Is(err, game.ErrRoomNotFound):
		return "Game not found"
	default:
		return "Something went wrong"
	}
}
