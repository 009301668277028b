package service

import (
	"bytes"
	"context"
	"fmt"

	"calendar-api/core/constants"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	accessEntity "calendar-api/modules/access/entity"
	"calendar-api/modules/calendar/dto"
	"calendar-api/modules/calendar/entity"
	eventEntity "calendar-api/modules/event/entity"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const icsProductID = "-//calendar-api//calendar export//EN"

// Export renders the calendar and all its events as an iCalendar document.
// It returns the document and a file name derived from the calendar name.
func (s *CalendarService) Export(ctx context.Context, userID, calendarID uuid.UUID) ([]byte, string, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionExportCalendar); appErr != nil {
		return nil, "", appErr
	}
	calendar, appErr := s.load(ctx, calendarID)
	if appErr != nil {
		return nil, "", appErr
	}

	events, err := s.events.ListByCalendar(ctx, calendarID, eventEntity.TimeRange{})
	if err != nil {
		return nil, "", errors.NewAppError(errors.ErrGetFailed, "get events failed", err)
	}

	body, err := encodeICS(calendar, events)
	if err != nil {
		logger.Error("CalendarService:Export:Encode:Error", "calendar_id", calendarID, "error", err)
		return nil, "", errors.Internal("encode calendar failed", err)
	}
	return body, exportFileName(calendar), nil
}

// PublishExport uploads the export to object storage and returns a presigned download URL.
func (s *CalendarService) PublishExport(ctx context.Context, userID, calendarID uuid.UUID) (*dto.PublishExportResponse, *errors.AppError) {
	if s.store == nil {
		return nil, errors.NewAppError(errors.ErrServiceUnavailable, "calendar publishing is not configured", nil)
	}

	body, fileName, appErr := s.Export(ctx, userID, calendarID)
	if appErr != nil {
		return nil, appErr
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	now := s.clock.Now()
	key := fmt.Sprintf("exports/%s/%d-%s", calendarID, now.Unix(), fileName)
	if err := s.store.Put(ctx, key, body, constants.CalendarExportContentType); err != nil {
		return nil, errors.Internal("upload calendar export failed", err)
	}
	url, err := s.store.PresignGet(ctx, key, constants.DefaultExportPresignTTL)
	if err != nil {
		return nil, errors.Internal("presign calendar export failed", err)
	}

	logger.Info("CalendarService:PublishExport:Success", "calendar_id", calendarID, "key", key)
	return &dto.PublishExportResponse{
		URL:       url,
		Key:       key,
		ExpiresAt: now.Add(constants.DefaultExportPresignTTL),
	}, nil
}

func encodeICS(calendar *entity.Calendar, events []eventEntity.Event) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)
	cal.Props.Set(extensionProp("X-WR-CALNAME", calendar.Name))
	if calendar.Description != "" {
		cal.Props.Set(extensionProp("X-WR-CALDESC", calendar.Description))
	}
	cal.Props.Set(extensionProp("X-WR-TIMEZONE", "UTC"))

	// Event times are written in UTC. The VTIMEZONE also keeps an empty calendar encodable.
	cal.Children = append(cal.Children, utcTimezone())

	for _, e := range events {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, e.ID.String())
		ev.Props.SetDateTime(ical.PropDateTimeStamp, e.UpdatedAt.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeStart, e.StartAt.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeEnd, e.EndAt.UTC())
		ev.Props.SetText(ical.PropSummary, e.Title)
		if e.Description != "" {
			ev.Props.SetText(ical.PropDescription, e.Description)
		}
		if e.Location != "" {
			ev.Props.SetText(ical.PropLocation, e.Location)
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// extensionProp builds an X- text property without a VALUE parameter, the form calendar clients read.
func extensionProp(name, text string) *ical.Prop {
	prop := ical.NewProp(name)
	prop.SetText(text)
	prop.Params.Del(ical.ParamValue)
	return prop
}

func utcTimezone() *ical.Component {
	standard := ical.NewComponent(ical.CompTimezoneStandard)
	standard.Props.Set(rawProp(ical.PropDateTimeStart, "19700101T000000"))
	standard.Props.Set(rawProp(ical.PropTimezoneOffsetFrom, "+0000"))
	standard.Props.Set(rawProp(ical.PropTimezoneOffsetTo, "+0000"))
	standard.Props.Set(rawProp(ical.PropTimezoneName, "UTC"))

	tz := ical.NewComponent(ical.CompTimezone)
	tz.Props.Set(rawProp(ical.PropTimezoneID, "UTC"))
	tz.Children = append(tz.Children, standard)
	return tz
}

func rawProp(name, value string) *ical.Prop {
	prop := ical.NewProp(name)
	prop.Value = value
	return prop
}

func exportFileName(calendar *entity.Calendar) string {
	name := slug.Make(calendar.Name)
	if name == "" {
		name = "calendar"
	}
	return name + ".ics"
}
