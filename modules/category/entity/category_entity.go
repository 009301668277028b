package entity

import (
	"calendar-api/core/entity"

	"github.com/google/uuid"
)

// DefaultCategoryName is created together with every calendar so events always have a category.
const DefaultCategoryName = "General"

type Category struct {
	entity.BaseEntity
	CalendarID uuid.UUID `db:"calendar_id" json:"calendar_id"`
	Name       string    `db:"name" json:"name"`
	Color      string    `db:"color" json:"color"`
}
