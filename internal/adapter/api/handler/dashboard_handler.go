package handler

import (
	"github.com/labstack/echo/v4"

	"greia/internal/usecase"
	"greia/pkg/response"
)

type DashboardHandler struct {
	dashboardUseCase *usecase.DashboardUseCase
}

func NewDashboardHandler(dashboardUseCase *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
	}
}

func (h *DashboardHandler) GetStats(c echo.Context) error {
	stats, err := h.dashboardUseCase.Stats(c.Request().Context(), callerID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}
