package entity

import (
	"time"

	accessEntity "calendar-api/modules/access/entity"

	"github.com/google/uuid"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
)

// InviteLink is a shareable link onto a calendar. Its id is the secret carried in the URL.
type InviteLink struct {
	ID         string            `db:"id" json:"id"`
	CalendarID uuid.UUID         `db:"calendar_id" json:"calendar_id"`
	Role       accessEntity.Role `db:"role" json:"role"`
	CreatedBy  uuid.UUID         `db:"created_by" json:"created_by"`
	ExpiresAt  *time.Time        `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
}

func (l *InviteLink) IsExpired(now time.Time) bool {
	return isExpired(l.ExpiresAt, now)
}

type CalendarEmailInvite struct {
	ID         uuid.UUID         `db:"id" json:"id"`
	CalendarID uuid.UUID         `db:"calendar_id" json:"calendar_id"`
	Email      string            `db:"email" json:"email"`
	Role       accessEntity.Role `db:"role" json:"role"`
	Token      string            `db:"token" json:"-"`
	InvitedBy  uuid.UUID         `db:"invited_by" json:"invited_by"`
	Status     InviteStatus      `db:"status" json:"status"`
	ExpiresAt  *time.Time        `db:"expires_at" json:"expires_at"`
	AcceptedAt *time.Time        `db:"accepted_at" json:"accepted_at"`
	AcceptedBy *uuid.UUID        `db:"accepted_by" json:"accepted_by"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

func (i *CalendarEmailInvite) IsExpired(now time.Time) bool {
	return isExpired(i.ExpiresAt, now)
}

type EventEmailInvite struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	EventID    uuid.UUID    `db:"event_id" json:"event_id"`
	Email      string       `db:"email" json:"email"`
	UserID     *uuid.UUID   `db:"user_id" json:"user_id"`
	Token      string       `db:"token" json:"-"`
	InvitedBy  uuid.UUID    `db:"invited_by" json:"invited_by"`
	Status     InviteStatus `db:"status" json:"status"`
	ExpiresAt  *time.Time   `db:"expires_at" json:"expires_at"`
	AcceptedAt *time.Time   `db:"accepted_at" json:"accepted_at"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

func (i *EventEmailInvite) IsExpired(now time.Time) bool {
	return isExpired(i.ExpiresAt, now)
}

// InviteLinkInfo joins a link with what an invitee is shown before accepting.
type InviteLinkInfo struct {
	InviteLink
	CalendarName    string    `db:"calendar_name"`
	CalendarColor   string    `db:"calendar_color"`
	CalendarOwnerID uuid.UUID `db:"calendar_owner_id"`
	InviterUsername string    `db:"inviter_username"`
}

type CalendarEmailInviteInfo struct {
	CalendarEmailInvite
	CalendarName    string    `db:"calendar_name"`
	CalendarColor   string    `db:"calendar_color"`
	CalendarOwnerID uuid.UUID `db:"calendar_owner_id"`
	InviterUsername string    `db:"inviter_username"`
}

type EventEmailInviteInfo struct {
	EventEmailInvite
	EventTitle      string    `db:"event_title"`
	EventStartAt    time.Time `db:"event_start_at"`
	EventEndAt      time.Time `db:"event_end_at"`
	CalendarID      uuid.UUID `db:"calendar_id"`
	InviterUsername string    `db:"inviter_username"`
}

// CleanupResult counts rows purged by one expired-invite sweep.
type CleanupResult struct {
	Links          int64
	CalendarEmails int64
	EventEmails    int64
}

// An invite without an expiry never expires.
func isExpired(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && now.After(*expiresAt)
}
