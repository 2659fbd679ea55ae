package events

import "livechat/cmd/internal/contract"

type SocketEvent interface {
	GetType() contract.EventType
}

type UserOnline struct {
	UserID string `json:"userId"`
}

func (*UserOnline) GetType() contract.EventType {
	return contract.EventUserOnline
}

type UserOffline struct {
	UserID string `json:"userId"`
}

func (*UserOffline) GetType() contract.EventType {
	return contract.EventUserOffline
}

// NewMessage carries a whole persisted message to the recipient.
type NewMessage struct {
	*contract.MessageResponse
}

func (*NewMessage) GetType() contract.EventType {
	return contract.EventNewMessage
}

type MessageSent struct {
	MessageID int64  `json:"messageId,string"`
	TempID    string `json:"tempId,omitempty"`
	Success   bool   `json:"success"`
}

func (*MessageSent) GetType() contract.EventType {
	return contract.EventMessageSent
}

type MessageError struct {
	Error string `json:"error"`
}

func (*MessageError) GetType() contract.EventType {
	return contract.EventMessageError
}

type UserTyping struct {
	SenderID string `json:"senderId"`
}

func (*UserTyping) GetType() contract.EventType {
	return contract.EventUserTyping
}

type UserStoppedTyping struct {
	SenderID string `json:"senderId"`
}

func (*UserStoppedTyping) GetType() contract.EventType {
	return contract.EventUserStoppedTyping
}

type MessageRead struct {
	MessageID int64 `json:"messageId,string"`
}

func (*MessageRead) GetType() contract.EventType {
	return contract.EventMessageRead
}

// SessionExpired tells the client its token lapsed and the server is
// about to drop the connection; the client should not auto-reconnect
// with the same token.
type SessionExpired struct{}

func (*SessionExpired) GetType() contract.EventType {
	return contract.EventSessionExpired
}
