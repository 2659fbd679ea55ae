package service

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/entity"
	"livechat/cmd/internal/domain/events"
	"livechat/cmd/internal/registry"
	"livechat/cmd/internal/utils"
	"livechat/cmd/internal/utils/apierror"
	"livechat/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type MessageRepository interface {
	Save(msg *entity.Message) error
	FindByID(id int64) (*entity.Message, error)
	MarkRead(id int64, readAt int64) error
	FindConversation(userA, userB string, limit int) ([]*entity.Message, error)
	CountUnread(userID string) (int64, error)
}

// MessageService relays chat messages: validate, persist, then forward.
// A message is never delivered before it is durably stored, so the
// recipient's socket view and any later REST history read always agree.
type MessageService struct {
	Registry    *registry.Registry
	MessageRepo MessageRepository
	Validate    *validator.Validate
}

func NewMessageService(reg *registry.Registry, messageRepo MessageRepository, validate *validator.Validate) *MessageService {
	return &MessageService{
		Registry:    reg,
		MessageRepo: messageRepo,
		Validate:    validate,
	}
}

// Send processes one send_message event from the given connection.
// The sender always gets exactly one reply: message_sent on success,
// message_error otherwise. Delivery to the recipient is best-effort and
// happens only if they are currently registered; an offline recipient
// picks the message up later through the REST history endpoints.
func (s *MessageService) Send(sender registry.Conn, payload *contract.SendMessagePayload) {
	if err := s.Validate.Struct(payload); err != nil {
		sendError(sender, "senderId, recipientId and content are required")
		return
	}

	msg := &entity.Message{
		ID:        uid.Generate(),
		Sender:    payload.SenderID,
		Recipient: payload.RecipientID,
		Content:   payload.Content,
		IsRead:    false,
		CreatedAt: utils.NowUTC(),
	}

	if err := s.MessageRepo.Save(msg); err != nil {
		log.Errorf("failed to persist message from %s to %s: %v", payload.SenderID, payload.RecipientID, err)
		sendError(sender, "failed to save message")
		return
	}

	if conn, ok := s.Registry.Lookup(payload.RecipientID); ok {
		conn.Send(Envelope(&events.NewMessage{MessageResponse: toMessageResponse(msg)}))
	}

	sender.Send(Envelope(&events.MessageSent{
		MessageID: msg.ID,
		TempID:    payload.MessageID,
		Success:   true,
	}))
}

// GetConversation returns the history between the actor and another user,
// oldest first, for the REST read endpoint.
func (s *MessageService) GetConversation(actor *entity.User, otherID string, limit int) ([]*contract.MessageResponse, apierror.ErrorResponse) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	msgs, err := s.MessageRepo.FindConversation(actor.ID, otherID, limit)
	if err != nil {
		log.Errorf("failed to fetch conversation %s/%s: %v", actor.ID, otherID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.MessageResponse, len(msgs))
	for i, msg := range msgs {
		resp[i] = toMessageResponse(msg)
	}
	return resp, nil
}

func (s *MessageService) CountUnread(actor *entity.User) (*contract.UnreadCountResponse, apierror.ErrorResponse) {
	count, err := s.MessageRepo.CountUnread(actor.ID)
	if err != nil {
		log.Errorf("failed to count unread messages for %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}
	return &contract.UnreadCountResponse{Count: count}, nil
}
