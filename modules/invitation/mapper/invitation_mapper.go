package mapper

import (
	"time"

	"calendar-api/modules/invitation/dto"
	"calendar-api/modules/invitation/entity"
)

func ToInviteLinkResponse(link *entity.InviteLink, url string, now time.Time) *dto.InviteLinkResponse {
	return &dto.InviteLinkResponse{
		ID:         link.ID,
		CalendarID: link.CalendarID,
		Role:       string(link.Role),
		URL:        url,
		ExpiresAt:  link.ExpiresAt,
		IsExpired:  link.IsExpired(now),
		CreatedBy:  link.CreatedBy,
		CreatedAt:  link.CreatedAt,
	}
}

func ToCalendarEmailInviteResponse(invite *entity.CalendarEmailInvite) *dto.CalendarEmailInviteResponse {
	return &dto.CalendarEmailInviteResponse{
		ID:         invite.ID,
		CalendarID: invite.CalendarID,
		Email:      invite.Email,
		Role:       string(invite.Role),
		Status:     string(invite.Status),
		ExpiresAt:  invite.ExpiresAt,
		CreatedAt:  invite.CreatedAt,
	}
}

func ToCalendarEmailInviteResponses(invites []entity.CalendarEmailInvite) []*dto.CalendarEmailInviteResponse {
	out := make([]*dto.CalendarEmailInviteResponse, 0, len(invites))
	for i := range invites {
		out = append(out, ToCalendarEmailInviteResponse(&invites[i]))
	}
	return out
}

func ToEventEmailInviteResponse(invite *entity.EventEmailInvite) *dto.EventEmailInviteResponse {
	return &dto.EventEmailInviteResponse{
		ID:           invite.ID,
		EventID:      invite.EventID,
		Email:        invite.Email,
		IsRegistered: invite.UserID != nil,
		Status:       string(invite.Status),
		ExpiresAt:    invite.ExpiresAt,
		CreatedAt:    invite.CreatedAt,
	}
}
