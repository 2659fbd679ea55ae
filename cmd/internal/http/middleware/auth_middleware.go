package middleware

import (
	"livechat/cmd/internal/domain/entity"
	"livechat/cmd/internal/utils"
	"livechat/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
)

type UserRepository interface {
	FindByID(id string) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := utils.ParseTokenDataCtx(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindByID(tokenData.Sub)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// Valid token but no row yet; the user simply never
				// opened a socket. Work with what the token asserts.
				user = &entity.User{ID: tokenData.Sub, Username: tokenData.Username}
			}

			c.Set("user", user)
			c.Set("sub", tokenData.Sub)
			return next(c)
		}
	}
}
