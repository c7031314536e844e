package handler

import (
	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
)

type InquiryHandler struct {
	inquiryUseCase *usecase.InquiryUseCase
}

func NewInquiryHandler(inquiryUseCase *usecase.InquiryUseCase) *InquiryHandler {
	return &InquiryHandler{
		inquiryUseCase: inquiryUseCase,
	}
}

type createInquiryRequest struct {
	Type       string `json:"type"`
	Message    string `json:"message" validate:"max=2000"`
	ListingID  string `json:"listing_id"`
	ReceiverID string `json:"receiver_id"`
}

type respondInquiryRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}

// CreateInquiry honours the Idempotency-Key header: a retry returns the
// first result with 200 instead of 201.
func (h *InquiryHandler) CreateInquiry(c echo.Context) error {
	var req createInquiryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.inquiryUseCase.CreateInquiry(c.Request().Context(), callerID(c), usecase.CreateInquiryInput{
		Type:           entity.InquiryType(req.Type),
		Message:        req.Message,
		ListingID:      req.ListingID,
		ReceiverID:     req.ReceiverID,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	if result.Replayed {
		return response.Success(c, result)
	}
	return response.Created(c, result)
}

func (h *InquiryHandler) ListInquiries(c echo.Context) error {
	filter := entity.InquiryFilter{
		ListingID: c.QueryParam("listing_id"),
		Status:    entity.InquiryStatus(c.QueryParam("status")),
		Type:      entity.InquiryType(c.QueryParam("type")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return response.Error(c, errors.BadRequest("Invalid status filter", nil))
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return response.Error(c, errors.BadRequest("Invalid type filter", nil))
	}

	inquiries, err := h.inquiryUseCase.ListInquiries(c.Request().Context(), callerID(c), filter)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, inquiries)
}

func (h *InquiryHandler) RespondToInquiry(c echo.Context) error {
	var req respondInquiryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	inquiry, err := h.inquiryUseCase.RespondToInquiry(c.Request().Context(), callerID(c), c.Param("id"), entity.InquiryStatus(req.Status))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, inquiry)
}
