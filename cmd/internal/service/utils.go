package service

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/entity"
	"livechat/cmd/internal/domain/events"
	"livechat/cmd/internal/registry"
	"livechat/cmd/internal/utils"
)

// Envelope wraps a socket event into the outgoing wire format.
func Envelope(evt events.SocketEvent) *contract.OutgoingSocketMessage {
	return &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}
}

func sendError(conn registry.Conn, msg string) {
	conn.Send(Envelope(&events.MessageError{Error: msg}))
}

func toMessageResponse(msg *entity.Message) *contract.MessageResponse {
	var readAt *string
	if msg.ReadAt != nil {
		formatted := utils.FormatEpoch(*msg.ReadAt)
		readAt = &formatted
	}

	return &contract.MessageResponse{
		ID:        msg.ID,
		Sender:    msg.Sender,
		Recipient: msg.Recipient,
		Content:   msg.Content,
		IsRead:    msg.IsRead,
		ReadAt:    readAt,
		CreatedAt: utils.FormatEpoch(msg.CreatedAt),
	}
}
