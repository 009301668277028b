package entity

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
	RoleReader  Role = "reader"
)

// DefaultRole is assigned when an invite carries no role.
const DefaultRole = RoleReader

var roleRank = map[Role]int{
	RoleReader:  1,
	RoleCreator: 2,
	RoleAdmin:   3,
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleRank[r]
	return r, ok
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

func (r Role) Rank() int {
	return roleRank[r]
}

// AtMost reports whether r grants no more than other.
func (r Role) AtMost(other Role) bool {
	return r.Valid() && r.Rank() <= other.Rank()
}

func (r Role) String() string {
	return string(r)
}

// CalendarRef is the part of a calendar the evaluator needs.
type CalendarRef struct {
	ID        uuid.UUID `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	IsMain    bool      `db:"is_main"`
	IsHoliday bool      `db:"is_holiday"`
}

// Grant is the outcome of a successful authorization.
type Grant struct {
	CalendarID uuid.UUID
	UserID     uuid.UUID
	OwnerID    uuid.UUID
	IsOwner    bool
	Role       Role

	// EventOnly is set when access comes from an event participant row, not the calendar.
	EventOnly bool
	IsMain    bool
	IsHoliday bool
}
