package websocket

import (
	"context"

	sharedws "github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// RegisterRoutes mounts the viewer websocket endpoint. Each connection
// subscribes to one auction and receives every reconciled snapshot for it
func RegisterRoutes(app *fiber.App, hub *sharedws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/auctions/:id", websocket.New(func(conn *websocket.Conn) {
		client := &sharedws.Client{
			Hub:       hub,
			Conn:      conn,
			Send:      make(chan []byte, 16),
			AuctionID: conn.Params("id"),
			ID:        uuid.NewString(),
		}
		hub.RegisterClient(client)

		ctx := context.Background()
		go client.WritePump(ctx)
		// ReadPump blocks until the connection closes, keeping the handler
		// alive for the lifetime of the socket
		client.ReadPump(ctx)
	}))
}
