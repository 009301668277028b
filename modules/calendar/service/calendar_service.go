package service

import (
	"context"
	"strings"

	"calendar-api/core/constants"
	"calendar-api/core/database"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	"calendar-api/core/storage"
	"calendar-api/core/utils"
	accessEntity "calendar-api/modules/access/entity"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/calendar/dto"
	"calendar-api/modules/calendar/entity"
	"calendar-api/modules/calendar/mapper"
	"calendar-api/modules/calendar/repository"
	categoryEntity "calendar-api/modules/category/entity"
	eventEntity "calendar-api/modules/event/entity"
	notifService "calendar-api/modules/notification/service"

	"github.com/google/uuid"
)

// EventLister supplies the events written into calendar exports.
type EventLister interface {
	ListByCalendar(ctx context.Context, calendarID uuid.UUID, window eventEntity.TimeRange) ([]eventEntity.Event, error)
}

type CalendarService struct {
	calendars    repository.CalendarRepository
	participants repository.ParticipantRepository
	access       accessService.AccessServiceInterface
	events       EventLister
	notifier     notifService.Notifier
	store        storage.ObjectStore
	clock        utils.Clock
}

type Dependencies struct {
	Calendars    repository.CalendarRepository
	Participants repository.ParticipantRepository
	Access       accessService.AccessServiceInterface
	Events       EventLister
	Notifier     notifService.Notifier
	// Store is optional; without it publishing exports is unavailable.
	Store storage.ObjectStore
	Clock utils.Clock
}

func NewCalendarService(deps Dependencies) *CalendarService {
	clock := deps.Clock
	if clock == nil {
		clock = utils.SystemClock()
	}
	return &CalendarService{
		calendars:    deps.Calendars,
		participants: deps.Participants,
		access:       deps.Access,
		events:       deps.Events,
		notifier:     deps.Notifier,
		store:        deps.Store,
		clock:        clock,
	}
}

// Create adds a calendar owned by the caller. A user has at most one holiday calendar.
func (s *CalendarService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateCalendarRequest) (*dto.CalendarResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req.IsHoliday {
		exists, err := s.calendars.HasHolidayCalendar(ctx, userID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrGetFailed, "check holiday calendar failed", err)
		}
		if exists {
			return nil, errors.Conflict("you already have a holiday calendar")
		}
	}

	calendar := &entity.Calendar{
		OwnerID:     userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Color:       constants.DefaultCalendarColor,
		IsHoliday:   req.IsHoliday,
		IsVisible:   true,
	}
	if req.Color != nil {
		calendar.Color = *req.Color
	}
	defaultCategory := &categoryEntity.Category{
		Name:  categoryEntity.DefaultCategoryName,
		Color: calendar.Color,
	}

	if err := s.calendars.Create(ctx, calendar, defaultCategory); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.Conflict("you already have a holiday calendar")
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create calendar failed", err)
	}

	logger.Info("CalendarService:Create:Success", "calendar_id", calendar.ID, "user_id", userID)
	return mapper.ToCalendarResponse(calendar, mapper.RoleOwner), nil
}

// List returns calendars the caller owns and the ones shared with them.
func (s *CalendarService) List(ctx context.Context, userID uuid.UUID) ([]*dto.CalendarResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	calendars, err := s.calendars.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get calendars failed", err)
	}
	return mapper.ToCalendarResponses(calendars), nil
}

func (s *CalendarService) Get(ctx context.Context, userID, calendarID uuid.UUID) (*dto.CalendarResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	grant, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionReadCalendar)
	if appErr != nil {
		return nil, appErr
	}
	calendar, appErr := s.load(ctx, calendarID)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToCalendarResponse(calendar, roleOf(grant)), nil
}

func (s *CalendarService) Update(ctx context.Context, userID, calendarID uuid.UUID, req *dto.UpdateCalendarRequest) (*dto.CalendarResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	grant, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageCalendar)
	if appErr != nil {
		return nil, appErr
	}
	calendar, appErr := s.load(ctx, calendarID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		calendar.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		calendar.Description = *req.Description
	}
	if req.Color != nil {
		calendar.Color = *req.Color
	}

	if err := s.calendars.Update(ctx, calendar); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update calendar failed", err)
	}
	return mapper.ToCalendarResponse(calendar, roleOf(grant)), nil
}

// SetVisibility toggles whether the calendar is shown. The main calendar is always visible.
func (s *CalendarService) SetVisibility(ctx context.Context, userID, calendarID uuid.UUID, visible bool) (*dto.CalendarResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	grant, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageCalendar)
	if appErr != nil {
		return nil, appErr
	}
	if grant.IsMain {
		return nil, errors.NewAppError(errors.ErrProtectedCalendar, "the main calendar visibility cannot be changed", nil)
	}

	if err := s.calendars.SetVisibility(ctx, calendarID, visible); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update calendar visibility failed", err)
	}
	calendar, appErr := s.load(ctx, calendarID)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToCalendarResponse(calendar, roleOf(grant)), nil
}

// Delete removes a calendar with everything in it. Main and holiday calendars are protected.
func (s *CalendarService) Delete(ctx context.Context, userID, calendarID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	grant, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionDeleteCalendar)
	if appErr != nil {
		return appErr
	}
	if grant.IsMain {
		return errors.NewAppError(errors.ErrProtectedCalendar, "the main calendar cannot be deleted", nil)
	}
	if grant.IsHoliday {
		return errors.NewAppError(errors.ErrProtectedCalendar, "the holiday calendar cannot be deleted", nil)
	}

	deleted, err := s.calendars.Delete(ctx, calendarID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete calendar failed", err)
	}
	if !deleted {
		return errors.NotFound("calendar not found")
	}

	logger.Info("CalendarService:Delete:Success", "calendar_id", calendarID, "user_id", userID)
	return nil
}

func (s *CalendarService) load(ctx context.Context, calendarID uuid.UUID) (*entity.Calendar, *errors.AppError) {
	calendar, err := s.calendars.GetByID(ctx, calendarID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get calendar failed", err)
	}
	if calendar == nil {
		return nil, errors.NotFound("calendar not found")
	}
	return calendar, nil
}

func roleOf(grant *accessEntity.Grant) string {
	if grant.IsOwner {
		return mapper.RoleOwner
	}
	return string(grant.Role)
}
