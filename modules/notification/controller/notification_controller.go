package controller

import (
	"strconv"
	"strings"

	"calendar-api/core/controller"
	"calendar-api/core/errors"
	"calendar-api/core/params"
	"calendar-api/modules/notification/dto"
	"calendar-api/modules/notification/entity"
	"calendar-api/modules/notification/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	service *service.NotificationService
	controller.BaseController
}

func NewNotificationController(service *service.NotificationService) *NotificationController {
	return &NotificationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GetMyNotifications lists the caller's sharing notifications.
// @Summary List notifications
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param unread query bool false "Only unread"
// @Param type query string false "Notification type, e.g. calendar.role_changed"
// @Param calendar_id query string false "Only notifications about this calendar"
// @Router /notifications [get]
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	filter, err := parseListFilter(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.GetMyNotifications(ctx.Request().Context(), userID, filter, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Notifications retrieved successfully")
}

// MarkAsRead
// @Summary Mark notifications as read
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkAsReadRequest true "Notification ids"
// @Router /notifications/read [put]
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.MarkAsReadRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.MarkAsRead(ctx.Request().Context(), userID, req.IDs)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Marked as read successfully")
}

// MarkAllAsRead
// @Summary Mark all notifications as read
// @Tags Notification
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	result, appErr := c.service.MarkAllAsRead(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Marked all as read successfully")
}

// @Summary Count unread notifications
// @Tags Notification
// @Security BearerAuth
// @Router /notifications/unread-count [get]
func (c *NotificationController) CountUnread(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	count, appErr := c.service.CountUnread(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.UnreadCountResponse{Count: count}, "Unread count retrieved")
}

// @Summary Delete a notification
// @Tags Notification
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Router /notifications/{id} [delete]
func (c *NotificationController) Delete(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	id, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), userID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Notification deleted")
}

func parseListFilter(ctx echo.Context) (entity.ListFilter, error) {
	var filter entity.ListFilter

	if raw := strings.TrimSpace(ctx.QueryParam("unread")); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.NewAppError(errors.ErrInvalidRequestData, "invalid unread", err)
		}
		filter.UnreadOnly = unread
	}

	filter.Type = strings.TrimSpace(ctx.QueryParam("type"))

	if raw := strings.TrimSpace(ctx.QueryParam("calendar_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.NewAppError(errors.ErrInvalidRequestData, "invalid calendar_id", err)
		}
		filter.CalendarID = &id
	}
	return filter, nil
}
