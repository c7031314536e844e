package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
)

type PortfolioHandler struct {
	portfolioUseCase *usecase.PortfolioUseCase
}

func NewPortfolioHandler(portfolioUseCase *usecase.PortfolioUseCase) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioUseCase: portfolioUseCase,
	}
}

type updatePortfolioRequest struct {
	Title          *string  `json:"title" validate:"omitempty,max=200"`
	Description    *string  `json:"description" validate:"omitempty,max=5000"`
	Specialties    []string `json:"specialties" validate:"omitempty,max=20,dive,max=100"`
	Certifications []string `json:"certifications" validate:"omitempty,max=20,dive,max=200"`
	Experience     *int     `json:"experience" validate:"omitempty,min=0,max=80"`
	Website        *string  `json:"website" validate:"omitempty,url"`
}

type projectRequest struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" validate:"max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Category    string     `json:"category" validate:"max=100"`
	Images      []string   `json:"images" validate:"dive,url"`
	Location    string     `json:"location" validate:"max=300"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (r projectRequest) input() usecase.ProjectInput {
	return usecase.ProjectInput{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Images:      r.Images,
		Location:    r.Location,
		CompletedAt: r.CompletedAt,
	}
}

type reviewRequest struct {
	PortfolioID string `json:"portfolio_id" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"max=2000"`
}

func (h *PortfolioHandler) GetMine(c echo.Context) error {
	view, err := h.portfolioUseCase.GetOrCreate(c.Request().Context(), callerID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *PortfolioHandler) GetByID(c echo.Context) error {
	view, err := h.portfolioUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *PortfolioHandler) Update(c echo.Context) error {
	var req updatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	view, err := h.portfolioUseCase.Upsert(c.Request().Context(), callerID(c), usecase.PortfolioInput{
		Title:          req.Title,
		Description:    req.Description,
		Specialties:    req.Specialties,
		Certifications: req.Certifications,
		Experience:     req.Experience,
		Website:        req.Website,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *PortfolioHandler) AddProject(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	project, err := h.portfolioUseCase.AddProject(c.Request().Context(), callerID(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, project)
}

func (h *PortfolioHandler) UpdateProject(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if req.ID == "" {
		return response.Error(c, errors.Validation("id is required"))
	}

	project, err := h.portfolioUseCase.UpdateProject(c.Request().Context(), callerID(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, project)
}

func (h *PortfolioHandler) DeleteProject(c echo.Context) error {
	if err := h.portfolioUseCase.DeleteProject(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Project deleted successfully"})
}

func (h *PortfolioHandler) CreateReview(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.portfolioUseCase.CreateReview(c.Request().Context(), callerID(c), usecase.ReviewInput{
		PortfolioID: req.PortfolioID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *PortfolioHandler) UpdateReview(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.portfolioUseCase.UpdateReview(c.Request().Context(), callerID(c), usecase.ReviewInput{
		PortfolioID: req.PortfolioID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, review)
}

// DeleteReview takes the reviewed portfolio's id; a reviewer holds one review per portfolio.
func (h *PortfolioHandler) DeleteReview(c echo.Context) error {
	if err := h.portfolioUseCase.DeleteReview(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Review deleted successfully"})
}
