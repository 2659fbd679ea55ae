package websocket

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"net/http"
)

// upgrader converts an HTTP request into a WebSocket connection.
// Origins are not restricted here; CORS policy lives at the edge.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server owns the realtime endpoint: it upgrades connections and wires
// each one to the presence, relay, typing and receipt services.
type Server struct {
	hub      *Hub
	presence *service.PresenceService
	messages *service.ThrottledMessageService
	typing   *service.TypingService
	receipts *service.ReceiptService
}

func NewServer(hub *Hub, presence *service.PresenceService, messages *service.ThrottledMessageService,
	typing *service.TypingService, receipts *service.ReceiptService) *Server {
	return &Server{
		hub:      hub,
		presence: presence,
		messages: messages,
		typing:   typing,
		receipts: receipts,
	}
}

func (s *Server) Hub() *Hub {
	return s.hub
}

// HandleWS upgrades the request and starts the connection's pumps.
// The connection stays anonymous until it sends an authenticate event.
func (s *Server) HandleWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warnf("websocket upgrade failed: %v", err)
		return nil
	}

	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan *contract.OutgoingSocketMessage, sendBufferSize),
		done:   make(chan struct{}),
		id:     uuid.NewString(),
	}
	s.hub.add(client)

	go client.writePump()
	go client.readPump()
	return nil
}
