package handler

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
)

type PresenceReadService interface {
	GetOnlineUsers() ([]*contract.OnlineUserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	PresenceService PresenceReadService
}

func NewUserDefault(presenceService PresenceReadService) *DefaultUserRoute {
	return &DefaultUserRoute{PresenceService: presenceService}
}

func (u *DefaultUserRoute) GetOnlineUsers(c echo.Context) error {
	users, apierr := u.PresenceService.GetOnlineUsers()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users}
	return c.JSON(http.StatusOK, &resp)
}
