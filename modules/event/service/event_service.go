package service

import (
	"context"
	"strings"

	"calendar-api/core/constants"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	accessEntity "calendar-api/modules/access/entity"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/event/dto"
	"calendar-api/modules/event/entity"
	"calendar-api/modules/event/mapper"
	"calendar-api/modules/event/repository"

	"github.com/google/uuid"
)

type EventService struct {
	repo   repository.EventRepository
	access accessService.AccessServiceInterface
}

func NewEventService(repo repository.EventRepository, access accessService.AccessServiceInterface) *EventService {
	return &EventService{repo: repo, access: access}
}

func (s *EventService) Create(ctx context.Context, userID, calendarID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionWriteEvents); appErr != nil {
		return nil, appErr
	}
	if !req.StartAt.Before(req.EndAt) {
		return nil, errors.InvalidInput("start_at must be before end_at")
	}
	categoryID, appErr := s.resolveCategory(ctx, req.CategoryID, calendarID)
	if appErr != nil {
		return nil, appErr
	}

	event := &entity.Event{
		CalendarID:  calendarID,
		CategoryID:  categoryID,
		CreatorID:   userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    req.Location,
		StartAt:     req.StartAt.UTC(),
		EndAt:       req.EndAt.UTC(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create event failed", err)
	}

	logger.Info("EventService:Create:Success", "event_id", event.ID, "calendar_id", calendarID, "user_id", userID)
	return mapper.ToEventResponse(event), nil
}

func (s *EventService) List(ctx context.Context, userID, calendarID uuid.UUID, query *dto.ListEventsQuery) ([]*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionReadEvents); appErr != nil {
		return nil, appErr
	}

	window := entity.TimeRange{}
	if query != nil {
		window.From = query.From
		window.To = query.To
	}
	events, err := s.repo.ListByCalendar(ctx, calendarID, window)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get events failed", err)
	}
	return mapper.ToEventResponses(events), nil
}

func (s *EventService) Get(ctx context.Context, userID, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.AuthorizeEvent(ctx, userID, eventID, accessEntity.ActionReadEvents); appErr != nil {
		return nil, appErr
	}
	event, appErr := s.load(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToEventResponse(event), nil
}

func (s *EventService) Update(ctx context.Context, userID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.AuthorizeEvent(ctx, userID, eventID, accessEntity.ActionWriteEvents); appErr != nil {
		return nil, appErr
	}
	event, appErr := s.load(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	if req.CategoryID != nil && *req.CategoryID != event.CategoryID {
		if appErr := s.ensureCategoryInCalendar(ctx, *req.CategoryID, event.CalendarID); appErr != nil {
			return nil, appErr
		}
		event.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartAt != nil {
		event.StartAt = req.StartAt.UTC()
	}
	if req.EndAt != nil {
		event.EndAt = req.EndAt.UTC()
	}
	if !event.StartAt.Before(event.EndAt) {
		return nil, errors.InvalidInput("start_at must be before end_at")
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update event failed", err)
	}
	return mapper.ToEventResponse(event), nil
}

func (s *EventService) Delete(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.AuthorizeEvent(ctx, userID, eventID, accessEntity.ActionWriteEvents); appErr != nil {
		return appErr
	}
	deleted, err := s.repo.Delete(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete event failed", err)
	}
	if !deleted {
		return errors.NotFound("event not found")
	}

	logger.Info("EventService:Delete:Success", "event_id", eventID, "user_id", userID)
	return nil
}

func (s *EventService) ListParticipants(ctx context.Context, userID, eventID uuid.UUID) ([]*dto.EventParticipantResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.AuthorizeEvent(ctx, userID, eventID, accessEntity.ActionReadEvents); appErr != nil {
		return nil, appErr
	}
	participants, err := s.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event participants failed", err)
	}
	return mapper.ToEventParticipantResponses(participants), nil
}

// SetConfirmation records the caller's attendance answer for an event they participate in.
func (s *EventService) SetConfirmation(ctx context.Context, userID, eventID uuid.UUID, confirmed bool) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.load(ctx, eventID); appErr != nil {
		return appErr
	}
	updated, err := s.repo.SetConfirmed(ctx, eventID, userID, confirmed)
	if err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "update confirmation failed", err)
	}
	if !updated {
		return errors.NotFound("you are not a participant of this event")
	}
	return nil
}

func (s *EventService) Leave(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.load(ctx, eventID); appErr != nil {
		return appErr
	}
	removed, err := s.repo.RemoveParticipant(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "leave event failed", err)
	}
	if !removed {
		return errors.NotFound("you are not a participant of this event")
	}
	logger.Info("EventService:Leave:Success", "event_id", eventID, "user_id", userID)
	return nil
}

func (s *EventService) load(ctx context.Context, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", err)
	}
	if event == nil {
		return nil, errors.NotFound("event not found")
	}
	return event, nil
}

// resolveCategory checks an explicit category, or picks the calendar's default one when none is given.
func (s *EventService) resolveCategory(ctx context.Context, categoryID, calendarID uuid.UUID) (uuid.UUID, *errors.AppError) {
	if categoryID != uuid.Nil {
		if appErr := s.ensureCategoryInCalendar(ctx, categoryID, calendarID); appErr != nil {
			return uuid.Nil, appErr
		}
		return categoryID, nil
	}

	defaultID, err := s.repo.GetDefaultCategoryID(ctx, calendarID)
	if err != nil {
		return uuid.Nil, errors.NewAppError(errors.ErrGetFailed, "get default category failed", err)
	}
	if defaultID == uuid.Nil {
		return uuid.Nil, errors.InvalidInput("calendar has no categories, category_id is required")
	}
	return defaultID, nil
}

func (s *EventService) ensureCategoryInCalendar(ctx context.Context, categoryID, calendarID uuid.UUID) *errors.AppError {
	owner, err := s.repo.GetCategoryCalendarID(ctx, categoryID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "get category failed", err)
	}
	if owner != calendarID {
		return errors.InvalidInput("category does not belong to this calendar")
	}
	return nil
}
