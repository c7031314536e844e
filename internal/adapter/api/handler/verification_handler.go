package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
)

type VerificationHandler struct {
	verificationUseCase *usecase.VerificationUseCase
}

func NewVerificationHandler(verificationUseCase *usecase.VerificationUseCase) *VerificationHandler {
	return &VerificationHandler{
		verificationUseCase: verificationUseCase,
	}
}

// Required fields are checked by the use case so the error lists all of them at once.
type submitVerificationRequest struct {
	LicenseType           string     `json:"license_type"`
	LicenseNumber         string     `json:"license_number" validate:"max=100"`
	LicenseExpiry         *time.Time `json:"license_expiry"`
	Jurisdiction          string     `json:"jurisdiction" validate:"max=100"`
	CompanyName           string     `json:"company_name" validate:"max=200"`
	CompanyAddress        string     `json:"company_address" validate:"max=500"`
	TaxID                 string     `json:"tax_id" validate:"max=50"`
	InsuranceInfo         string     `json:"insurance_info" validate:"max=500"`
	VerificationDocuments []string   `json:"verification_documents" validate:"dive,url"`
}

func (h *VerificationHandler) Submit(c echo.Context) error {
	var req submitVerificationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.SubmitVerificationInput{
		LicenseType:           entity.LicenseType(req.LicenseType),
		LicenseNumber:         req.LicenseNumber,
		Jurisdiction:          req.Jurisdiction,
		CompanyName:           req.CompanyName,
		CompanyAddress:        req.CompanyAddress,
		TaxID:                 req.TaxID,
		InsuranceInfo:         req.InsuranceInfo,
		VerificationDocuments: req.VerificationDocuments,
	}
	if req.LicenseExpiry != nil {
		input.LicenseExpiry = *req.LicenseExpiry
	}

	info, err := h.verificationUseCase.Submit(c.Request().Context(), callerID(c), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, info)
}

func (h *VerificationHandler) GetMine(c echo.Context) error {
	info, err := h.verificationUseCase.GetMine(c.Request().Context(), callerID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, info)
}
