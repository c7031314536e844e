package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
)

// DevTokenHandler hands out session tokens without credentials. It is only
// routed outside production.
type DevTokenHandler struct {
	authUseCase *usecase.AuthUseCase
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(authUseCase *usecase.AuthUseCase) *DevTokenHandler {
	return &DevTokenHandler{
		authUseCase: authUseCase,
	}
}

func SetupDevTokenHandler(authUseCase *usecase.AuthUseCase) {
	devTokenHandler = NewDevTokenHandler(authUseCase)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

func (h *DevTokenHandler) GenerateUserToken(c echo.Context) error {
	role := entity.RoleUser
	if r := c.QueryParam("role"); r != "" {
		role = entity.Role(strings.ToUpper(r))
		if !role.Valid() {
			return response.Error(c, errors.BadRequest("Invalid role", nil))
		}
	}
	return h.generate(c, role)
}

func (h *DevTokenHandler) GenerateAdminToken(c echo.Context) error {
	return h.generate(c, entity.RoleAdmin)
}

func (h *DevTokenHandler) generate(c echo.Context, role entity.Role) error {
	result, err := h.authUseCase.DevToken(c.Request().Context(), role)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
