package mapper

import (
	"calendar-api/modules/calendar/dto"
	"calendar-api/modules/calendar/entity"
)

const RoleOwner = "owner"

func ToCalendarResponse(c *entity.Calendar, role string) *dto.CalendarResponse {
	return &dto.CalendarResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		IsMain:      c.IsMain,
		IsHoliday:   c.IsHoliday,
		IsVisible:   c.IsVisible,
		IsOwner:     role == RoleOwner,
		Role:        role,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToCalendarResponses(calendars []entity.CalendarWithAccess) []*dto.CalendarResponse {
	out := make([]*dto.CalendarResponse, 0, len(calendars))
	for i := range calendars {
		role := RoleOwner
		if calendars[i].Role != nil {
			role = *calendars[i].Role
		}
		resp := ToCalendarResponse(&calendars[i].Calendar, role)
		resp.OwnerUsername = calendars[i].OwnerUsername
		out = append(out, resp)
	}
	return out
}

func ToUserResponse(u *entity.UserSummary) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

func ToParticipantResponses(participants []entity.ParticipantDetail) []*dto.ParticipantResponse {
	out := make([]*dto.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, &dto.ParticipantResponse{
			UserID:   p.UserID,
			Username: p.Username,
			Email:    p.Email,
			FullName: p.FullName,
			Role:     string(p.Role),
			JoinedAt: p.CreatedAt,
		})
	}
	return out
}
