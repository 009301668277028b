package dto

import (
	"time"

	"github.com/google/uuid"
)

// ========== Invite links ==========

type CreateInviteLinkRequest struct {
	ExpireInDays *int    `json:"expire_in_days"`
	Role         *string `json:"role"`
}

type InviteLinkResponse struct {
	ID         string     `json:"id"`
	CalendarID uuid.UUID  `json:"calendar_id"`
	Role       string     `json:"role"`
	URL        string     `json:"url"`
	ExpiresAt  *time.Time `json:"expires_at"`
	IsExpired  bool       `json:"is_expired"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

type InviteLinkInfoResponse struct {
	ID            string     `json:"id"`
	CalendarID    uuid.UUID  `json:"calendar_id"`
	CalendarName  string     `json:"calendar_name"`
	CalendarColor string     `json:"calendar_color"`
	InvitedBy     string     `json:"invited_by"`
	Role          string     `json:"role"`
	ExpiresAt     *time.Time `json:"expires_at"`
	IsMember      bool       `json:"is_member"`
}

type AcceptInviteLinkRequest struct {
	Role *string `json:"role"`
}

type AcceptCalendarInviteResponse struct {
	CalendarID    uuid.UUID `json:"calendar_id"`
	Role          string    `json:"role"`
	AlreadyMember bool      `json:"already_member"`
}

// ========== Calendar email invites ==========

type CreateCalendarEmailInvitesRequest struct {
	Emails       []string `json:"emails"`
	Role         *string  `json:"role"`
	ExpireInDays *int     `json:"expire_in_days"`
}

type CalendarEmailInviteResponse struct {
	ID         uuid.UUID  `json:"id"`
	CalendarID uuid.UUID  `json:"calendar_id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CalendarEmailInviteInfoResponse struct {
	CalendarName  string     `json:"calendar_name"`
	CalendarColor string     `json:"calendar_color"`
	InvitedBy     string     `json:"invited_by"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// ========== Event email invites ==========

type CreateEventEmailInvitesRequest struct {
	Emails       []string `json:"emails"`
	ExpireInDays *int     `json:"expire_in_days"`
}

type EventEmailInviteResponse struct {
	ID           uuid.UUID  `json:"id"`
	EventID      uuid.UUID  `json:"event_id"`
	Email        string     `json:"email"`
	IsRegistered bool       `json:"is_registered"`
	Status       string     `json:"status"`
	ExpiresAt    *time.Time `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type EventEmailInviteInfoResponse struct {
	EventTitle string     `json:"event_title"`
	StartAt    time.Time  `json:"start_at"`
	EndAt      time.Time  `json:"end_at"`
	InvitedBy  string     `json:"invited_by"`
	Email      string     `json:"email"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type AcceptEventInviteResponse struct {
	EventID    uuid.UUID `json:"event_id"`
	CalendarID uuid.UUID `json:"calendar_id"`
}
