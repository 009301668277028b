package task_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"calendar-api/core/queue"
	"calendar-api/internal/testutil"
	"calendar-api/modules/invitation/entity"
	"calendar-api/modules/invitation/task"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cleaner struct {
	calls int
	err   error
}

func (c *cleaner) CleanupExpired(ctx context.Context) (*entity.CleanupResult, error) {
	c.calls++
	return &entity.CleanupResult{}, c.err
}

func newTask(t *testing.T, taskType string, payload queue.InviteEmailPayload) *asynq.Task {
	t.Helper()
	task, err := queue.NewInviteEmailTask(taskType, payload)
	require.NoError(t, err)
	return task
}

func TestHandleCalendarInviteEmail(t *testing.T) {
	mailer := &testutil.Mailer{}
	h := task.NewHandler(mailer, &cleaner{}, "https://app.example.com/")
	expires := time.Date(2024, 5, 17, 8, 0, 0, 0, time.UTC)

	err := h.HandleCalendarInviteEmail(context.Background(), newTask(t, queue.TypeCalendarInviteEmail, queue.InviteEmailPayload{
		InviteID:   uuid.New(),
		Email:      "bob@example.com",
		Token:      "tok123",
		TargetName: "Team",
		InvitedBy:  "alice",
		Role:       "creator",
		ExpiresAt:  &expires,
	}))
	require.NoError(t, err)

	require.Len(t, mailer.Sent, 1)
	msg := mailer.Sent[0]
	assert.Equal(t, []string{"bob@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "alice")
	assert.Contains(t, msg.Subject, "Team")
	assert.Contains(t, msg.HTML, "https://app.example.com/calendars/email-invite/tok123")
}

func TestHandleEventInviteEmail(t *testing.T) {
	mailer := &testutil.Mailer{}
	h := task.NewHandler(mailer, &cleaner{}, "https://app.example.com")
	starts := time.Date(2024, 5, 12, 15, 0, 0, 0, time.UTC)

	err := h.HandleEventInviteEmail(context.Background(), newTask(t, queue.TypeEventInviteEmail, queue.InviteEmailPayload{
		InviteID:   uuid.New(),
		Email:      "carol@example.com",
		Token:      "evt456",
		TargetName: "Launch",
		InvitedBy:  "alice",
		StartsAt:   &starts,
	}))
	require.NoError(t, err)

	require.Len(t, mailer.Sent, 1)
	assert.Contains(t, mailer.Sent[0].HTML, "https://app.example.com/events/email-invite/evt456")
}

func TestHandleInviteEmail_SendFailureIsRetried(t *testing.T) {
	mailer := &testutil.Mailer{Err: assert.AnError}
	h := task.NewHandler(mailer, &cleaner{}, "https://app.example.com")

	err := h.HandleCalendarInviteEmail(context.Background(), newTask(t, queue.TypeCalendarInviteEmail, queue.InviteEmailPayload{
		Email: "bob@example.com",
		Token: "tok",
	}))
	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleInviteEmail_BadPayloadSkipsRetry(t *testing.T) {
	h := task.NewHandler(&testutil.Mailer{}, &cleaner{}, "https://app.example.com")

	err := h.HandleCalendarInviteEmail(context.Background(), asynq.NewTask(queue.TypeCalendarInviteEmail, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleCleanupExpiredInvites(t *testing.T) {
	c := &cleaner{}
	h := task.NewHandler(&testutil.Mailer{}, c, "")

	require.NoError(t, h.HandleCleanupExpiredInvites(context.Background(), asynq.NewTask(queue.TypeCleanupExpiredInvites, nil)))
	assert.Equal(t, 1, c.calls)

	c.err = assert.AnError
	assert.ErrorIs(t, h.HandleCleanupExpiredInvites(context.Background(), asynq.NewTask(queue.TypeCleanupExpiredInvites, nil)), assert.AnError)
}

func TestNewInviteEmailTask_RejectsUnknownType(t *testing.T) {
	_, err := queue.NewInviteEmailTask("email:unknown", queue.InviteEmailPayload{})
	assert.Error(t, err)

	payload := queue.InviteEmailPayload{InviteID: uuid.New(), Email: "a@example.com"}
	tk := newTask(t, queue.TypeEventInviteEmail, payload)
	var decoded queue.InviteEmailPayload
	require.NoError(t, json.Unmarshal(tk.Payload(), &decoded))
	assert.Equal(t, payload.InviteID, decoded.InviteID)
}
