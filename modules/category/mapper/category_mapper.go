package mapper

import (
	"calendar-api/modules/category/dto"
	"calendar-api/modules/category/entity"
)

func ToCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:         c.ID,
		CalendarID: c.CalendarID,
		Name:       c.Name,
		Color:      c.Color,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func ToCategoryResponses(categories []entity.Category) []*dto.CategoryResponse {
	out := make([]*dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out
}
