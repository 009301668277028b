package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"calendar-api/core/logger"
	"calendar-api/core/mailer"
	"calendar-api/core/queue"
	"calendar-api/modules/invitation/entity"

	"github.com/hibiken/asynq"
)

const emailTimeLayout = "Mon, 02 Jan 2006 15:04 MST"

type Cleaner interface {
	CleanupExpired(ctx context.Context) (*entity.CleanupResult, error)
}

// Handler processes the invitation background tasks.
type Handler struct {
	mailer      mailer.Mailer
	cleaner     Cleaner
	linkBaseURL string
}

func NewHandler(m mailer.Mailer, cleaner Cleaner, linkBaseURL string) *Handler {
	return &Handler{
		mailer:      m,
		cleaner:     cleaner,
		linkBaseURL: strings.TrimRight(linkBaseURL, "/"),
	}
}

func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeCalendarInviteEmail, h.HandleCalendarInviteEmail)
	mux.HandleFunc(queue.TypeEventInviteEmail, h.HandleEventInviteEmail)
	mux.HandleFunc(queue.TypeCleanupExpiredInvites, h.HandleCleanupExpiredInvites)
}

func (h *Handler) HandleCalendarInviteEmail(ctx context.Context, t *asynq.Task) error {
	payload, err := queue.ParseInviteEmailPayload(t)
	if err != nil {
		return err
	}
	return h.send(ctx, mailer.TemplateCalendarInvite,
		fmt.Sprintf("%s shared the calendar %q with you", payload.InvitedBy, payload.TargetName),
		h.linkBaseURL+"/calendars/email-invite/"+payload.Token,
		payload)
}

func (h *Handler) HandleEventInviteEmail(ctx context.Context, t *asynq.Task) error {
	payload, err := queue.ParseInviteEmailPayload(t)
	if err != nil {
		return err
	}
	return h.send(ctx, mailer.TemplateEventInvite,
		fmt.Sprintf("%s invited you to %q", payload.InvitedBy, payload.TargetName),
		h.linkBaseURL+"/events/email-invite/"+payload.Token,
		payload)
}

func (h *Handler) HandleCleanupExpiredInvites(ctx context.Context, _ *asynq.Task) error {
	_, err := h.cleaner.CleanupExpired(ctx)
	return err
}

func (h *Handler) send(ctx context.Context, template, subject, acceptURL string, payload queue.InviteEmailPayload) error {
	html, err := mailer.Render(template, mailer.InviteTemplateData{
		InvitedBy:  payload.InvitedBy,
		TargetName: payload.TargetName,
		Role:       payload.Role,
		AcceptURL:  acceptURL,
		StartsAt:   formatTime(payload.StartsAt),
		ExpiresAt:  formatTime(payload.ExpiresAt),
	})
	if err != nil {
		return fmt.Errorf("render %s: %w: %w", template, err, asynq.SkipRetry)
	}

	if err := h.mailer.Send(ctx, mailer.Message{
		To:      []string{payload.Email},
		Subject: subject,
		HTML:    html,
	}); err != nil {
		logger.Error("InvitationTask:SendEmail:Error", "invite_id", payload.InviteID, "error", err)
		return err
	}
	logger.Info("InvitationTask:SendEmail:Success", "invite_id", payload.InviteID)
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(emailTimeLayout)
}
