package utils

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// PaginationParams represents page/limit pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams extracts page/limit from the query string
func GetPaginationParams(c echo.Context) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))

	if page <= 0 {
		page = 1
	}

	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// CursorParams is the cursor/limit pair used by feed-style endpoints
type CursorParams struct {
	Cursor string
	Limit  int
}

// GetCursorParams reads ?cursor=&limit= with the given default limit, capped at 100
func GetCursorParams(c echo.Context, defaultLimit int) CursorParams {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	return CursorParams{
		Cursor: c.QueryParam("cursor"),
		Limit:  limit,
	}
}

// ParseTimeParam parses an RFC3339 query value. Empty input yields nil.
func ParseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseFloatParam parses an optional float query value.
func ParseFloatParam(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseIntParam parses an optional int query value.
func ParseIntParam(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ParseBoolParam parses an optional bool query value.
func ParseBoolParam(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
