package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/pkg/errors"
	"greia/pkg/response"
)

// AdminChecker fails unless the user id belongs to an admin.
type AdminChecker interface {
	RequireAdmin(ctx context.Context, userID string) (*entity.User, error)
}

type AdminMiddleware struct {
	users AdminChecker
}

func NewAdminMiddleware(users AdminChecker) *AdminMiddleware {
	return &AdminMiddleware{
		users: users,
	}
}

func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		if _, err := m.users.RequireAdmin(c.Request().Context(), uid); err != nil {
			return response.Error(c, err)
		}

		return next(c)
	}
}
