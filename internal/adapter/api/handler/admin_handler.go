package handler

import (
	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
)

type AdminHandler struct {
	verificationUseCase *usecase.VerificationUseCase
}

func NewAdminHandler(verificationUseCase *usecase.VerificationUseCase) *AdminHandler {
	return &AdminHandler{
		verificationUseCase: verificationUseCase,
	}
}

type decideVerificationRequest struct {
	Status          string `json:"status" validate:"required,oneof=VERIFIED REJECTED"`
	RejectionReason string `json:"rejection_reason" validate:"max=1000"`
}

func (h *AdminHandler) ListVerifications(c echo.Context) error {
	status := entity.ProfessionalStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return response.Error(c, errors.BadRequest("Invalid status filter", nil))
	}

	views, err := h.verificationUseCase.List(c.Request().Context(), status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, views)
}

func (h *AdminHandler) DecideVerification(c echo.Context) error {
	var req decideVerificationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	info, err := h.verificationUseCase.Decide(c.Request().Context(), callerID(c), c.Param("id"), usecase.DecideVerificationInput{
		Status:          entity.ProfessionalStatus(req.Status),
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, info)
}
