package handler

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/entity"
	"livechat/cmd/internal/utils"
	"livechat/cmd/internal/utils/apierror"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// MessageReadService is the REST-facing slice of the message service:
// history and unread counts only, no sends (those go over the socket).
type MessageReadService interface {
	GetConversation(actor *entity.User, otherID string, limit int) ([]*contract.MessageResponse, apierror.ErrorResponse)
	CountUnread(actor *entity.User) (*contract.UnreadCountResponse, apierror.ErrorResponse)
}

type DefaultMessageRoute struct {
	MessageService MessageReadService
}

func NewMessageDefault(messageService MessageReadService) *DefaultMessageRoute {
	return &DefaultMessageRoute{MessageService: messageService}
}

func (m *DefaultMessageRoute) GetConversation(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	otherID := strings.TrimSpace(c.Param("userId"))
	if otherID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("userId"))
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("limit", "int"))
		}
		limit = parsed
	}

	msgs, apierr := m.MessageService.GetConversation(user, otherID, limit)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"messages": msgs}
	return c.JSON(http.StatusOK, &resp)
}

func (m *DefaultMessageRoute) GetUnreadCount(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	count, apierr := m.MessageService.CountUnread(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, count)
}
