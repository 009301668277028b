package entity

import (
	"calendar-api/core/entity"
)

type User struct {
	entity.BaseEntity
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
	FullName string `db:"full_name" json:"full_name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
