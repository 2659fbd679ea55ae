package service

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/events"
	"livechat/cmd/internal/registry"
	"livechat/cmd/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// ReceiptService marks persisted messages read and tells the original
// sender, if they are still connected.
type ReceiptService struct {
	Registry    *registry.Registry
	MessageRepo MessageRepository
	Validate    *validator.Validate
}

func NewReceiptService(reg *registry.Registry, messageRepo MessageRepository, validate *validator.Validate) *ReceiptService {
	return &ReceiptService{
		Registry:    reg,
		MessageRepo: messageRepo,
		Validate:    validate,
	}
}

// MarkRead is fire-and-forget: unknown message ids are logged and
// ignored (the client may be reporting a stale id), and re-reading an
// already-read message changes nothing; the first read_at wins and no
// second message_read is emitted.
func (s *ReceiptService) MarkRead(payload *contract.MarkReadPayload) {
	if err := s.Validate.Struct(payload); err != nil {
		log.Warnf("ignoring malformed mark_read payload: %v", err)
		return
	}

	msg, err := s.MessageRepo.FindByID(payload.MessageID)
	if err != nil {
		log.Errorf("failed to load message %d for read receipt: %v", payload.MessageID, err)
		return
	}
	if msg == nil {
		log.Warnf("mark_read for unknown message %d from %s", payload.MessageID, payload.ReaderID)
		return
	}

	if msg.IsRead {
		return
	}

	if err := s.MessageRepo.MarkRead(msg.ID, utils.NowUTC()); err != nil {
		log.Errorf("failed to mark message %d read: %v", msg.ID, err)
		return
	}

	// A sender re-reading their own message must not notify themselves.
	if msg.Sender == payload.ReaderID {
		return
	}

	if conn, ok := s.Registry.Lookup(msg.Sender); ok {
		conn.Send(Envelope(&events.MessageRead{MessageID: msg.ID}))
	}
}
