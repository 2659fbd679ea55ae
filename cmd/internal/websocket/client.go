package websocket

import (
	"encoding/json"
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/events"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/gommon/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size; generous headroom over the content cap
	// for JSON escaping and the envelope itself.
	maxMessageSize = 4 * contract.MaxMessageContentLength

	sendBufferSize = 64
)

// Client is one live socket connection. A connection starts anonymous;
// userID and expiresAt are set once an authenticate event succeeds.
type Client struct {
	server *Server
	conn   *websocket.Conn
	send   chan *contract.OutgoingSocketMessage
	done   chan struct{}
	id     string

	mu        sync.Mutex
	userID    string
	expiresAt int64 // epoch millis, 0 until authenticated

	dropOnce sync.Once
}

// ID implements registry.Conn.
func (c *Client) ID() string {
	return c.id
}

// Send implements registry.Conn. It never blocks: a client whose buffer
// is full is assumed dead and dropped.
func (c *Client) Send(msg *contract.OutgoingSocketMessage) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		log.Warnf("conn %s send buffer full, dropping connection", c.id)
		go c.drop()
	}
}

func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Expired reports whether the session's token lapsed before now (millis).
// Anonymous connections never expire here; the read deadline reaps them.
func (c *Client) Expired(now int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt > 0 && now > c.expiresAt
}

// Kill notifies the peer its session ended and tears the socket down.
// Closing the socket drives the normal disconnect path in readPump.
func (c *Client) Kill() {
	c.Send(&contract.OutgoingSocketMessage{Type: contract.EventSessionExpired, Data: &events.SessionExpired{}})

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = c.conn.Close()
	}()
}

func (c *Client) setIdentity(userID string, expSeconds int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	if expSeconds > 0 {
		c.expiresAt = expSeconds * 1000 // "exp" claims are in seconds, our app uses millis
	}
}

// readPump reads envelopes off the wire and dispatches them to the
// services, one at a time. Per-connection ordering falls out of this
// loop: an event is fully processed before the next one is read.
func (c *Client) readPump() {
	defer c.drop()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("conn %s read error: %v", c.id, err)
			}
			return
		}

		var in contract.IncomingSocketMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			c.sendError("malformed event envelope")
			continue
		}

		c.dispatch(&in)
	}
}

func (c *Client) dispatch(in *contract.IncomingSocketMessage) {
	switch in.Type {
	case contract.EventAuthenticate:
		var payload contract.AuthenticatePayload
		if !c.decode(in.Data, &payload) {
			return
		}
		if token, ok := c.server.presence.Authenticate(c, &payload); ok {
			c.setIdentity(token.Sub, token.Exp)
		}

	case contract.EventSendMessage:
		var payload contract.SendMessagePayload
		if !c.decode(in.Data, &payload) {
			return
		}
		c.server.messages.Send(c, &payload)

	case contract.EventTypingStart:
		var payload contract.TypingPayload
		if !c.decode(in.Data, &payload) {
			return
		}
		c.server.typing.Start(&payload)

	case contract.EventTypingStop:
		var payload contract.TypingPayload
		if !c.decode(in.Data, &payload) {
			return
		}
		c.server.typing.Stop(&payload)

	case contract.EventMarkRead:
		var payload contract.MarkReadPayload
		if !c.decode(in.Data, &payload) {
			return
		}
		c.server.receipts.MarkRead(&payload)

	default:
		log.Warnf("conn %s sent unknown event type %q", c.id, in.Type)
	}
}

func (c *Client) decode(raw json.RawMessage, out interface{}) bool {
	if err := json.Unmarshal(raw, out); err != nil {
		c.sendError("malformed event payload")
		return false
	}
	return true
}

func (c *Client) sendError(msg string) {
	c.Send(&contract.OutgoingSocketMessage{
		Type: contract.EventMessageError,
		Data: &events.MessageError{Error: msg},
	})
}

// writePump flushes outgoing envelopes and keeps the peer alive with
// periodic pings. One writer goroutine per connection; gorilla allows at
// most one concurrent writer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// drop tears the connection down exactly once: hub bookkeeping, presence
// offline handling, limiter cleanup, then the socket itself.
func (c *Client) drop() {
	c.dropOnce.Do(func() {
		c.server.hub.remove(c.id)
		c.server.presence.Disconnect(c.id)
		c.server.messages.Release(c.id)
		close(c.done)
		_ = c.conn.Close()
	})
}
