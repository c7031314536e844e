package handler

import (
	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
	"greia/pkg/utils"
)

type TransactionHandler struct {
	transactionUseCase *usecase.TransactionUseCase
}

func NewTransactionHandler(transactionUseCase *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{
		transactionUseCase: transactionUseCase,
	}
}

type updateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED COMPLETED CANCELLED"`
}

func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	page := utils.GetCursorParams(c, 50)

	txns, err := h.transactionUseCase.ListTransactions(c.Request().Context(), callerID(c), page.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, txns)
}

func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	txn, err := h.transactionUseCase.GetTransaction(c.Request().Context(), callerID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, txn)
}

func (h *TransactionHandler) UpdateTransactionStatus(c echo.Context) error {
	var req updateTransactionStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	txn, err := h.transactionUseCase.UpdateTransactionStatus(c.Request().Context(), callerID(c), c.Param("id"), entity.TransactionStatus(req.Status))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, txn)
}
