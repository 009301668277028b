package mapper

import (
	"calendar-api/modules/event/dto"
	"calendar-api/modules/event/entity"
)

func ToEventResponse(e *entity.Event) *dto.EventResponse {
	return &dto.EventResponse{
		ID:          e.ID,
		CalendarID:  e.CalendarID,
		CategoryID:  e.CategoryID,
		CreatorID:   e.CreatorID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartAt:     e.StartAt,
		EndAt:       e.EndAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToEventResponses(events []entity.Event) []*dto.EventResponse {
	out := make([]*dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, ToEventResponse(&events[i]))
	}
	return out
}

func ToEventParticipantResponses(participants []entity.EventParticipantDetail) []*dto.EventParticipantResponse {
	out := make([]*dto.EventParticipantResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, &dto.EventParticipantResponse{
			UserID:       p.UserID,
			Username:     p.Username,
			Email:        p.Email,
			HasConfirmed: p.HasConfirmed,
			JoinedAt:     p.CreatedAt,
		})
	}
	return out
}
