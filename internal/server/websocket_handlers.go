package server

import (
	"context"
	"log"

	"mushroomservice/internal/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedUpgradeRequired rejects plain HTTP requests to the feed endpoint.
func (s *Server) FeedUpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// FeedWebSocketHandler serves the live blog feed. Every connection gets a
// full snapshot on subscribe and again after each content change; the view
// class (admin sees drafts) is fixed at subscription time.
func (s *Server) FeedWebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		actor := identity.Anonymous
		if a, ok := conn.Locals("actor").(identity.Actor); ok {
			actor = a
		}
		admin := s.policy.IsAdmin(actor)

		hub := s.feedService.Hub()
		client, err := hub.RegisterConn(ctx, admin, conn)
		if err != nil {
			log.Printf("feed websocket: subscribe failed for user %d: %v", actor.UserID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"feed unavailable"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump(ctx)
	})
}
