package server

import (
	"net/http"
	"time"

	"warrior-server/internal/engine"
	"warrior-server/pkg/api"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - зритель: получает снимки, команды не принимает.
// Команды идут через /debug/commands.
type Client struct {
	Game *engine.ArenaService
	Conn *websocket.Conn
	ID   string

	updates chan api.ServerResponse
	log     *logrus.Entry
}

func NewClient(game *engine.ArenaService, conn *websocket.Conn) *Client {
	id := "spectator_" + utils.GenerateID()
	return &Client{
		Game:    game,
		Conn:    conn,
		ID:      id,
		updates: game.Hub.Register(id),
		log:     logger.For("ws").WithField("spectator", id),
	}
}

// readPump держит дедлайны и ловит закрытие. Входящие сообщения игнорируются.
func (c *Client) readPump() {
	defer func() {
		c.Game.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Spectator disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c.log.Info("Spectator connected")
	for {
		if _, _, err := c.Conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("WS error")
			}
			return
		}
	}
}

// writePump отправляет снимки клиенту + Ping. Первым уходит последний снимок.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	if snap := c.Game.Latest(); snap != nil {
		if err := c.write(*snap); err != nil {
			return
		}
	}

	for {
		select {
		case message, ok := <-c.updates:
			if !ok {
				c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.write(message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func (c *Client) write(msg api.ServerResponse) error {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.WithError(err).Warn("failed to set write deadline")
	}
	if err := c.Conn.WriteJSON(msg); err != nil {
		c.log.WithError(err).Debug("write json message failed")
		return err
	}
	return nil
}
