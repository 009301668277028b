package mapper

import (
	"calendar-api/modules/notification/dto"
	"calendar-api/modules/notification/entity"
)

func ToNotificationResponse(n entity.Notification) dto.NotificationResponse {
	data := map[string]any(n.Data)
	if data == nil {
		data = map[string]any{}
	}
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Data:      data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToPaginatedNotificationResponse(page *entity.PaginatedNotificationEntity) *dto.PaginatedNotificationResponse {
	items := make([]dto.NotificationResponse, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, ToNotificationResponse(n))
	}
	return &dto.PaginatedNotificationResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages(),
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
