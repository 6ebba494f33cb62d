package handlers

import (
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// FeedUpgrade rejects plain HTTP requests to the feed endpoint.
func (h *Handler) FeedUpgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// ServeFeed streams DAO events to the client until it disconnects. Inbound
// messages are read and discarded to detect closes.
func (h *Handler) ServeFeed(c *websocketcontrib.Conn) {
	h.Hub.Register(c)
	defer h.Hub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Debug().Err(err).Msg("feed read error")
			}
			return
		}
	}
}
