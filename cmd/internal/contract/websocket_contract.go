package contract

import "encoding/json"

type EventType string

// Events we receive from clients.
const (
	EventAuthenticate EventType = "authenticate"
	EventSendMessage  EventType = "send_message"
	EventTypingStart  EventType = "typing_start"
	EventTypingStop   EventType = "typing_stop"
	EventMarkRead     EventType = "mark_read"
)

// Events we send to clients.
const (
	EventUserOnline        EventType = "user_online"
	EventUserOffline       EventType = "user_offline"
	EventNewMessage        EventType = "new_message"
	EventMessageSent       EventType = "message_sent"
	EventMessageError      EventType = "message_error"
	EventUserTyping        EventType = "user_typing"
	EventUserStoppedTyping EventType = "user_stopped_typing"
	EventMessageRead       EventType = "message_read"
	EventSessionExpired    EventType = "session_expired"
)

// IncomingSocketMessage is used for messages we receive from the users.
// Data stays raw until the event type is known.
type IncomingSocketMessage struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// OutgoingSocketMessage is what we send to the Client
type OutgoingSocketMessage struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type AuthenticatePayload struct {
	Token  string `json:"token" validate:"required"`
	UserID string `json:"userId" validate:"required,notblank"`
}

type SendMessagePayload struct {
	SenderID    string `json:"senderId" validate:"required,notblank"`
	RecipientID string `json:"recipientId" validate:"required,notblank"`
	Content     string `json:"content" validate:"required,notblank,max=4000"`

	// MessageID is an optional client-side temp id, echoed back in
	// message_sent so the client can reconcile optimistic UI entries.
	MessageID string `json:"messageId"`
}

type TypingPayload struct {
	SenderID    string `json:"senderId" validate:"required,notblank"`
	RecipientID string `json:"recipientId" validate:"required,notblank"`
}

type MarkReadPayload struct {
	MessageID int64  `json:"messageId,string" validate:"required"`
	ReaderID  string `json:"readerId" validate:"required,notblank"`
}
