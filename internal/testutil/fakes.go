package testutil

import (
	"context"
	"sync"
	"time"

	"calendar-api/core/mailer"
	"calendar-api/core/queue"
	notifDto "calendar-api/modules/notification/dto"
)

// Clock is a settable clock shared by the store and the services under test.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Notifier records notifications instead of persisting them.
type Notifier struct {
	mu   sync.Mutex
	Sent []notifDto.CreateNotificationRequest
	Err  error
}

func (n *Notifier) Create(ctx context.Context, req *notifDto.CreateNotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, *req)
	return nil
}

func (n *Notifier) OfType(notificationType string) []notifDto.CreateNotificationRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifDto.CreateNotificationRequest
	for _, req := range n.Sent {
		if req.Type == notificationType {
			out = append(out, req)
		}
	}
	return out
}

type EnqueuedTask struct {
	Type    string
	Payload queue.InviteEmailPayload
}

// Enqueuer records invite email tasks.
type Enqueuer struct {
	mu    sync.Mutex
	Tasks []EnqueuedTask
	Err   error
}

func (e *Enqueuer) EnqueueInviteEmail(ctx context.Context, taskType string, payload queue.InviteEmailPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Tasks = append(e.Tasks, EnqueuedTask{Type: taskType, Payload: payload})
	return nil
}

// Mailer records sent messages.
type Mailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
	Err  error
}

func (m *Mailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// ObjectStore keeps uploads in memory and presigns to a fake host.
type ObjectStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func (o *ObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Objects == nil {
		o.Objects = map[string][]byte{}
	}
	o.Objects[key] = append([]byte(nil), body...)
	return nil
}

func (o *ObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://objects.test/" + key + "?ttl=" + ttl.String(), nil
}

// Cache is an in-memory token revocation list and login limiter.
type Cache struct {
	mu       sync.Mutex
	revoked  map[string]time.Duration
	attempts map[string]int64
	MaxFails int64
}

func NewCache() *Cache {
	return &Cache{revoked: map[string]time.Duration{}, attempts: map[string]int64{}, MaxFails: 5}
}

func (c *Cache) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[tokenID] = ttl
	return nil
}

func (c *Cache) ConsumeToken(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.revoked[tokenID]; ok {
		return false, nil
	}
	c.revoked[tokenID] = ttl
	return true, nil
}

func (c *Cache) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.revoked[tokenID]
	return ok, nil
}

func (c *Cache) IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts[identifier]++
	return c.attempts[identifier], nil
}

func (c *Cache) IsLoginBlocked(ctx context.Context, identifier string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts[identifier] >= c.MaxFails, nil
}

func (c *Cache) ResetLoginAttempts(ctx context.Context, identifier string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.attempts, identifier)
	return nil
}

func (c *Cache) Ping(ctx context.Context) error { return nil }

func (c *Cache) Close() error { return nil }
