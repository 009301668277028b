package params

import (
	"strconv"
	"strings"

	"calendar-api/core/constants"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

func NewQueryParams(ctx echo.Context) *QueryParams {
	page := toPositiveInt(ctx.QueryParam("page"), 1)
	size := toPositiveInt(ctx.QueryParam("limit"), constants.DefaultPageSize)
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}
	return &QueryParams{
		PageNumber: page,
		PageSize:   size,
		Search:     strings.TrimSpace(ctx.QueryParam("search")),
	}
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

func toPositiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
