package handler

import (
	"github.com/labstack/echo/v4"

	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
	authUseCase *usecase.AuthUseCase
	feedUseCase *usecase.FeedUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase, authUseCase *usecase.AuthUseCase, feedUseCase *usecase.FeedUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		authUseCase: authUseCase,
		feedUseCase: feedUseCase,
	}
}

type updateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
	Bio   *string `json:"bio" validate:"omitempty,max=1000"`
	Image *string `json:"image" validate:"omitempty,url"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.authUseCase.Me(c.Request().Context(), callerID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), callerID(c), usecase.UpdateProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
		Bio:   req.Bio,
		Image: req.Image,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userUseCase.GetPublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *UserHandler) Follow(c echo.Context) error {
	if err := h.feedUseCase.Follow(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{"following": true})
}

func (h *UserHandler) Unfollow(c echo.Context) error {
	if err := h.feedUseCase.Unfollow(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{"following": false})
}
