package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
	"greia/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type mediaRequest struct {
	Type      string `json:"type" validate:"omitempty,oneof=IMAGE VIDEO"`
	URL       string `json:"url" validate:"required,url"`
	Thumbnail string `json:"thumbnail" validate:"omitempty,url"`
	Order     int    `json:"order" validate:"min=0"`
}

func toMedia(in []mediaRequest) []entity.Media {
	if in == nil {
		return nil
	}
	out := make([]entity.Media, 0, len(in))
	for _, m := range in {
		out = append(out, entity.Media{
			Type:      entity.MediaType(m.Type),
			URL:       m.URL,
			Thumbnail: m.Thumbnail,
			Order:     m.Order,
		})
	}
	return out
}

// Required fields are checked by the use case so one error lists all of them.
type createListingRequest struct {
	Type        string         `json:"type"`
	Category    string         `json:"category" validate:"max=100"`
	Title       string         `json:"title" validate:"max=200"`
	Description string         `json:"description" validate:"max=5000"`
	Price       *float64       `json:"price"`
	Currency    string         `json:"currency" validate:"omitempty,len=3"`
	Location    string         `json:"location" validate:"max=300"`
	Features    []string       `json:"features"`
	Images      []string       `json:"images" validate:"dive,url"`
	Media       []mediaRequest `json:"media" validate:"dive"`

	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms" validate:"min=0"`
	Bathrooms    int     `json:"bathrooms" validate:"min=0"`
	Area         float64 `json:"area" validate:"min=0"`
	Furnished    bool    `json:"furnished"`

	ServiceType     string `json:"service_type"`
	Availability    string `json:"availability"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`

	EventDate *time.Time `json:"event_date"`
	Venue     string     `json:"venue"`
	Capacity  int        `json:"capacity" validate:"min=0"`
}

func (r createListingRequest) input() usecase.ListingInput {
	return usecase.ListingInput{
		Type:            entity.ListingType(r.Type),
		Category:        r.Category,
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		Currency:        r.Currency,
		Location:        r.Location,
		Features:        r.Features,
		Images:          r.Images,
		Media:           toMedia(r.Media),
		PropertyType:    r.PropertyType,
		Bedrooms:        r.Bedrooms,
		Bathrooms:       r.Bathrooms,
		Area:            r.Area,
		Furnished:       r.Furnished,
		ServiceType:     r.ServiceType,
		Availability:    r.Availability,
		DurationMinutes: r.DurationMinutes,
		EventDate:       r.EventDate,
		Venue:           r.Venue,
		Capacity:        r.Capacity,
	}
}

type updateListingRequest struct {
	Category    *string        `json:"category" validate:"omitempty,max=100"`
	Title       *string        `json:"title" validate:"omitempty,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=5000"`
	Price       *float64       `json:"price" validate:"omitempty,min=0"`
	Currency    *string        `json:"currency" validate:"omitempty,len=3"`
	Location    *string        `json:"location" validate:"omitempty,max=300"`
	Features    []string       `json:"features"`
	Media       []mediaRequest `json:"media" validate:"omitempty,dive"`
}

type updateListingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PENDING SOLD RENTED EXPIRED DRAFT"`
}

func (h *ListingHandler) create(c echo.Context, prepare func(*createListingRequest) error) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if prepare != nil {
		if err := prepare(&req); err != nil {
			return response.Error(c, err)
		}
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), callerID(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	return h.create(c, nil)
}

// CreateProperty accepts rentals and sales only and defaults to RENTAL.
func (h *ListingHandler) CreateProperty(c echo.Context) error {
	return h.create(c, func(req *createListingRequest) error {
		switch entity.ListingType(req.Type) {
		case "":
			req.Type = string(entity.ListingRental)
		case entity.ListingRental, entity.ListingSale:
		default:
			return errors.Validation("Property listings must be RENTAL or SALE")
		}
		return nil
	})
}

// CreateService always creates a SERVICE listing; the role gate decides
// whether the caller may.
func (h *ListingHandler) CreateService(c echo.Context) error {
	return h.create(c, func(req *createListingRequest) error {
		req.Type = string(entity.ListingService)
		return nil
	})
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	filter := entity.ListingFilter{
		Type:     entity.ListingType(c.QueryParam("type")),
		Category: c.QueryParam("category"),
		Status:   entity.ListingStatus(c.QueryParam("status")),
		OwnerID:  c.QueryParam("owner_id"),
		Location: c.QueryParam("location"),
	}

	var err error
	if filter.MinPrice, err = utils.ParseFloatParam(c.QueryParam("min_price")); err != nil {
		return response.Error(c, errors.BadRequest("Invalid min_price", err))
	}
	if filter.MaxPrice, err = utils.ParseFloatParam(c.QueryParam("max_price")); err != nil {
		return response.Error(c, errors.BadRequest("Invalid max_price", err))
	}
	bedrooms, err := utils.ParseIntParam(c.QueryParam("bedrooms"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid bedrooms", err))
	}
	if bedrooms != nil {
		filter.MinBedrooms = *bedrooms
	}
	bathrooms, err := utils.ParseIntParam(c.QueryParam("bathrooms"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid bathrooms", err))
	}
	if bathrooms != nil {
		filter.MinBathrooms = *bathrooms
	}
	if filter.Furnished, err = utils.ParseBoolParam(c.QueryParam("furnished")); err != nil {
		return response.Error(c, errors.BadRequest("Invalid furnished", err))
	}

	page := utils.GetCursorParams(c, 20)
	listings, next, err := h.listingUseCase.List(c.Request().Context(), filter, page.Cursor, page.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, listings, next)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Update(c.Request().Context(), callerID(c), c.Param("id"), usecase.ListingPatch{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Location:    req.Location,
		Features:    req.Features,
		Media:       toMedia(req.Media),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) UpdateListingStatus(c echo.Context) error {
	var req updateListingStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.UpdateStatus(c.Request().Context(), callerID(c), c.Param("id"), entity.ListingStatus(req.Status))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	if err := h.listingUseCase.Delete(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Listing deleted successfully"})
}
