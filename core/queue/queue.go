package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"calendar-api/core/config"
	"calendar-api/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeCalendarInviteEmail   = "email:calendar_invite"
	TypeEventInviteEmail      = "email:event_invite"
	TypeCleanupExpiredInvites = "invites:cleanup"
)

// Queue names and priorities
const (
	QueueMail        = "mail"
	QueueMaintenance = "maintenance"

	mailMaxRetry = 5
)

type InviteEmailPayload struct {
	InviteID   uuid.UUID  `json:"invite_id"`
	Email      string     `json:"email"`
	Token      string     `json:"token"`
	TargetName string     `json:"target_name"`
	InvitedBy  string     `json:"invited_by"`
	Role       string     `json:"role,omitempty"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Enqueuer hands invite emails to the background worker.
type Enqueuer interface {
	EnqueueInviteEmail(ctx context.Context, taskType string, payload InviteEmailPayload) error
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

func NewInviteEmailTask(taskType string, payload InviteEmailPayload) (*asynq.Task, error) {
	switch taskType {
	case TypeCalendarInviteEmail, TypeEventInviteEmail:
	default:
		return nil, fmt.Errorf("unknown invite email task type %q", taskType)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body, asynq.MaxRetry(mailMaxRetry), asynq.Queue(QueueMail)), nil
}

func ParseInviteEmailPayload(t *asynq.Task) (InviteEmailPayload, error) {
	var p InviteEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w: %w", t.Type(), err, asynq.SkipRetry)
	}
	return p, nil
}

func (c *Client) EnqueueInviteEmail(ctx context.Context, taskType string, payload InviteEmailPayload) error {
	task, err := NewInviteEmailTask(taskType, payload)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error("Queue:EnqueueInviteEmail:Error", "type", taskType, "invite_id", payload.InviteID, "error", err)
		return err
	}
	logger.Debug("Queue:EnqueueInviteEmail", "type", taskType, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func NewServer(redisCfg config.RedisConfig, cfg config.QueueConfig) *asynq.Server {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.NewServer(RedisOpt(redisCfg), asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueMail:        6,
			QueueMaintenance: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Task:Error", "type", task.Type(), "error", err)
		}),
	})
}

// cleanupTaskID is shared by every worker's scheduler so a run enqueued by one
// worker blocks the others until the dedup window has passed.
const cleanupTaskID = "invites:cleanup:periodic"

const defaultCleanupDedupWindow = 55 * time.Minute

// NewCleanupTask builds the periodic cleanup task. The completed task is kept
// for window so schedulers on other workers hit ErrTaskIDConflict instead of
// enqueueing a second run.
func NewCleanupTask(window time.Duration) *asynq.Task {
	if window <= 0 {
		window = defaultCleanupDedupWindow
	}
	return asynq.NewTask(TypeCleanupExpiredInvites, nil, cleanupTaskOptions(window)...)
}

func cleanupTaskOptions(window time.Duration) []asynq.Option {
	return []asynq.Option{
		asynq.Queue(QueueMaintenance),
		asynq.TaskID(cleanupTaskID),
		asynq.Retention(window),
		asynq.MaxRetry(1),
	}
}

func logScheduledEnqueue(info *asynq.TaskInfo, err error) {
	switch {
	case err == nil:
		logger.Debug("Queue:Scheduler:Enqueued", "task_id", info.ID, "queue", info.Queue)
	case errors.Is(err, asynq.ErrTaskIDConflict), errors.Is(err, asynq.ErrDuplicateTask):
		logger.Debug("Queue:Scheduler:Skipped", "reason", "already enqueued by another worker")
	default:
		logger.Error("Queue:Scheduler:Error", "error", err)
	}
}

// NewScheduler registers the periodic expired-invite cleanup.
func NewScheduler(redisCfg config.RedisConfig, cfg config.QueueConfig) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(redisCfg), &asynq.SchedulerOpts{
		Location:        time.UTC,
		PostEnqueueFunc: logScheduledEnqueue,
	})

	cron := cfg.CleanupCron
	if cron == "" {
		cron = "@every 1h"
	}
	entryID, err := scheduler.Register(cron, NewCleanupTask(cfg.CleanupDedupWindow))
	if err != nil {
		return nil, fmt.Errorf("register cleanup task: %w", err)
	}
	logger.Info("Queue:Scheduler:Registered", "task", TypeCleanupExpiredInvites, "cron", cron, "entry_id", entryID)
	return scheduler, nil
}
