package service

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/events"
	"livechat/cmd/internal/registry"

	"github.com/go-playground/validator/v10"
)

// TypingService forwards typing indicators straight to the recipient's
// connection. Nothing is persisted, acknowledged or queued: an indicator
// for an offline recipient is dropped, which is the right thing for a
// signal that must never be replayed after the fact.
type TypingService struct {
	Registry *registry.Registry
	Validate *validator.Validate
}

func NewTypingService(reg *registry.Registry, validate *validator.Validate) *TypingService {
	return &TypingService{Registry: reg, Validate: validate}
}

func (s *TypingService) Start(payload *contract.TypingPayload) {
	s.forward(payload, &events.UserTyping{SenderID: payload.SenderID})
}

func (s *TypingService) Stop(payload *contract.TypingPayload) {
	s.forward(payload, &events.UserStoppedTyping{SenderID: payload.SenderID})
}

func (s *TypingService) forward(payload *contract.TypingPayload, evt events.SocketEvent) {
	if err := s.Validate.Struct(payload); err != nil {
		return
	}

	conn, ok := s.Registry.Lookup(payload.RecipientID)
	if !ok {
		return
	}
	conn.Send(Envelope(evt))
}
