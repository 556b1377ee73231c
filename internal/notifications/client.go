package notifications

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Clients only ever send the
	// unsubscribe control frame.
	maxMessageSize = 512
)

// feedEnvelope is the wire format pushed to websocket feed clients.
type feedEnvelope struct {
	Type    string   `json:"type"`
	Payload Snapshot `json:"payload"`
}

// clientCommand is the wire format read from websocket feed clients.
type clientCommand struct {
	Type string `json:"type"`
}

// FeedClient bridges one websocket connection to a feed subscription. The
// subscription's snapshots are marshalled and pushed over the socket; the
// socket's only inbound message is an explicit unsubscribe.
type FeedClient struct {
	Hub  *FeedHub
	Conn *websocket.Conn
	Sub  *Subscription

	// Buffered channel of outbound messages.
	Send chan []byte

	done chan struct{}
}

// RegisterConn subscribes the connection to the feed and starts forwarding
// snapshots. The caller must run ReadPump and WritePump.
func (h *FeedHub) RegisterConn(ctx context.Context, admin bool, conn *websocket.Conn) (*FeedClient, error) {
	sub, err := h.Subscribe(ctx, admin)
	if err != nil {
		return nil, err
	}

	c := &FeedClient{
		Hub:  h,
		Conn: conn,
		Sub:  sub,
		Send: make(chan []byte, subscriberBuffer),
		done: make(chan struct{}),
	}

	go c.forwardSnapshots()
	return c, nil
}

// forwardSnapshots marshals each snapshot into the outbound buffer. It ends
// when the subscription channel closes.
func (c *FeedClient) forwardSnapshots() {
	defer close(c.done)
	for snap := range c.Sub.C {
		data, err := json.Marshal(feedEnvelope{Type: "feed_snapshot", Payload: snap})
		if err != nil {
			log.Printf("feed client %d: marshal snapshot: %v", c.Sub.ID, err)
			continue
		}
		select {
		case c.Send <- data:
		default:
			// WritePump is stalled; the next snapshot supersedes this one.
		}
	}
}

// Close tears down the subscription and the connection. Safe to call more
// than once.
func (c *FeedClient) Close(ctx context.Context) {
	c.Hub.Unsubscribe(ctx, c.Sub)
	_ = c.Conn.Close()
}

// ReadPump consumes inbound frames until the peer disconnects or sends an
// explicit unsubscribe command.
func (c *FeedClient) ReadPump(ctx context.Context) {
	defer c.Close(ctx)

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { _ = c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("feed client %d: read: %v", c.Sub.ID, err)
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}
		if cmd.Type == "unsubscribe" {
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "unsubscribed"),
				time.Now().Add(writeWait))
			return
		}
	}
}

// WritePump pushes buffered snapshots to the websocket connection and keeps
// the connection alive with pings.
func (c *FeedClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.done:
			// Drain anything buffered before closing out.
			for {
				select {
				case message := <-c.Send:
					_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
						return
					}
				default:
					_ = c.Conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
					return
				}
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
