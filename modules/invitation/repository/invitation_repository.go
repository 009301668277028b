package repository

import (
	"context"
	"time"

	"calendar-api/core/database"
	"calendar-api/core/logger"
	calendarEntity "calendar-api/modules/calendar/entity"
	calendarRepo "calendar-api/modules/calendar/repository"
	eventRepo "calendar-api/modules/event/repository"
	"calendar-api/modules/invitation/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type InvitationRepository interface {
	// Invite links
	CreateLink(ctx context.Context, link *entity.InviteLink) error
	GetLinkInfo(ctx context.Context, id string) (*entity.InviteLinkInfo, error)
	ListLinks(ctx context.Context, calendarID uuid.UUID) ([]entity.InviteLink, error)
	DeleteLink(ctx context.Context, calendarID uuid.UUID, id string) (bool, error)

	// Calendar email invites
	CreateCalendarEmailInvites(ctx context.Context, invites []*entity.CalendarEmailInvite) error
	ListPendingCalendarEmailInvites(ctx context.Context, calendarID uuid.UUID) ([]entity.CalendarEmailInvite, error)
	DeleteCalendarEmailInvite(ctx context.Context, calendarID, id uuid.UUID) (bool, error)
	GetCalendarEmailInviteInfo(ctx context.Context, token string) (*entity.CalendarEmailInviteInfo, error)
	AcceptCalendarEmailInvite(ctx context.Context, inviteID uuid.UUID, participant *calendarEntity.Participant, now time.Time) (bool, error)

	// Event email invites
	CreateEventEmailInvites(ctx context.Context, invites []*entity.EventEmailInvite) error
	GetEventEmailInviteInfo(ctx context.Context, token string) (*entity.EventEmailInviteInfo, error)
	AcceptEventEmailInvite(ctx context.Context, inviteID, eventID, userID uuid.UUID, now time.Time) (bool, error)

	FindUserIDsByEmails(ctx context.Context, emails []string) (map[string]uuid.UUID, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (*entity.CleanupResult, error)
}

type invitationRepository struct {
	db database.IDatabase
}

func NewInvitationRepository(db database.IDatabase) InvitationRepository {
	return &invitationRepository{db: db}
}

// ===================== Invite links =====================

func (r *invitationRepository) CreateLink(ctx context.Context, link *entity.InviteLink) error {
	link.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO calendar_invite_links (id, calendar_id, role, created_by, expires_at, created_at)
		VALUES (:id, :calendar_id, :role, :created_by, :expires_at, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		logger.Error("InvitationRepository:CreateLink:Error", "calendar_id", link.CalendarID, "error", err)
		return err
	}
	return nil
}

func (r *invitationRepository) GetLinkInfo(ctx context.Context, id string) (*entity.InviteLinkInfo, error) {
	query := `
		SELECT l.id, l.calendar_id, l.role, l.created_by, l.expires_at, l.created_at,
		       c.name AS calendar_name, c.color AS calendar_color, c.owner_id AS calendar_owner_id,
		       u.username AS inviter_username
		FROM calendar_invite_links l
		JOIN calendars c ON c.id = l.calendar_id
		JOIN users u ON u.id = l.created_by
		WHERE l.id = $1
	`
	var info entity.InviteLinkInfo
	if err := r.db.GetContext(ctx, &info, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("InvitationRepository:GetLinkInfo:Error", "error", err)
		return nil, err
	}
	return &info, nil
}

func (r *invitationRepository) ListLinks(ctx context.Context, calendarID uuid.UUID) ([]entity.InviteLink, error) {
	query := `
		SELECT id, calendar_id, role, created_by, expires_at, created_at
		FROM calendar_invite_links
		WHERE calendar_id = $1
		ORDER BY created_at DESC
	`
	links := []entity.InviteLink{}
	if err := r.db.SelectContext(ctx, &links, query, calendarID); err != nil {
		logger.Error("InvitationRepository:ListLinks:Error", "calendar_id", calendarID, "error", err)
		return nil, err
	}
	return links, nil
}

func (r *invitationRepository) DeleteLink(ctx context.Context, calendarID uuid.UUID, id string) (bool, error) {
	result, err := r.db.ExecResultContext(ctx, `DELETE FROM calendar_invite_links WHERE id = $1 AND calendar_id = $2`, id, calendarID)
	if err != nil {
		logger.Error("InvitationRepository:DeleteLink:Error", "calendar_id", calendarID, "error", err)
		return false, err
	}
	return affected(result)
}

// ===================== Calendar email invites =====================

// CreateCalendarEmailInvites inserts the batch atomically.
func (r *invitationRepository) CreateCalendarEmailInvites(ctx context.Context, invites []*entity.CalendarEmailInvite) error {
	query := `
		INSERT INTO calendar_email_invites (id, calendar_id, email, role, token, invited_by, status, expires_at, created_at, updated_at)
		VALUES (:id, :calendar_id, :email, :role, :token, :invited_by, :status, :expires_at, :created_at, :updated_at)
	`
	now := time.Now().UTC()
	return r.db.WithTx(ctx, func(tx database.Querier) error {
		for _, invite := range invites {
			if invite.ID == uuid.Nil {
				invite.ID = uuid.New()
			}
			invite.Status = entity.InviteStatusPending
			invite.CreatedAt = now
			invite.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, query, invite); err != nil {
				logger.Error("InvitationRepository:CreateCalendarEmailInvites:Error", "calendar_id", invite.CalendarID, "error", err)
				return err
			}
		}
		return nil
	})
}

func (r *invitationRepository) ListPendingCalendarEmailInvites(ctx context.Context, calendarID uuid.UUID) ([]entity.CalendarEmailInvite, error) {
	query := `
		SELECT id, calendar_id, email, role, token, invited_by, status, expires_at, accepted_at, accepted_by, created_at, updated_at
		FROM calendar_email_invites
		WHERE calendar_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	invites := []entity.CalendarEmailInvite{}
	if err := r.db.SelectContext(ctx, &invites, query, calendarID); err != nil {
		logger.Error("InvitationRepository:ListPendingCalendarEmailInvites:Error", "calendar_id", calendarID, "error", err)
		return nil, err
	}
	return invites, nil
}

// DeleteCalendarEmailInvite revokes a pending invite. Accepted invites are kept as history.
func (r *invitationRepository) DeleteCalendarEmailInvite(ctx context.Context, calendarID, id uuid.UUID) (bool, error) {
	query := `DELETE FROM calendar_email_invites WHERE id = $1 AND calendar_id = $2 AND status = 'pending'`
	result, err := r.db.ExecResultContext(ctx, query, id, calendarID)
	if err != nil {
		logger.Error("InvitationRepository:DeleteCalendarEmailInvite:Error", "id", id, "error", err)
		return false, err
	}
	return affected(result)
}

func (r *invitationRepository) GetCalendarEmailInviteInfo(ctx context.Context, token string) (*entity.CalendarEmailInviteInfo, error) {
	query := `
		SELECT i.id, i.calendar_id, i.email, i.role, i.token, i.invited_by, i.status, i.expires_at,
		       i.accepted_at, i.accepted_by, i.created_at, i.updated_at,
		       c.name AS calendar_name, c.color AS calendar_color, c.owner_id AS calendar_owner_id,
		       u.username AS inviter_username
		FROM calendar_email_invites i
		JOIN calendars c ON c.id = i.calendar_id
		JOIN users u ON u.id = i.invited_by
		WHERE i.token = $1
	`
	var info entity.CalendarEmailInviteInfo
	if err := r.db.GetContext(ctx, &info, query, token); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("InvitationRepository:GetCalendarEmailInviteInfo:Error", "error", err)
		return nil, err
	}
	return &info, nil
}

// AcceptCalendarEmailInvite consumes the invite and adds the participant in one transaction.
// It returns false when the invite was no longer pending.
func (r *invitationRepository) AcceptCalendarEmailInvite(ctx context.Context, inviteID uuid.UUID, participant *calendarEntity.Participant, now time.Time) (bool, error) {
	accepted := false
	err := r.db.WithTx(ctx, func(tx database.Querier) error {
		query := `
			UPDATE calendar_email_invites
			SET status = 'accepted', accepted_at = $1, accepted_by = $2, updated_at = $1
			WHERE id = $3 AND status = 'pending'
		`
		result, err := tx.ExecContext(ctx, query, now, participant.UserID, inviteID)
		if err != nil {
			return err
		}
		if accepted, err = affected(result); err != nil || !accepted {
			return err
		}
		_, err = calendarRepo.InsertParticipant(ctx, tx, participant)
		return err
	})
	if err != nil {
		logger.Error("InvitationRepository:AcceptCalendarEmailInvite:Error", "invite_id", inviteID, "error", err)
		return false, err
	}
	return accepted, nil
}

// ===================== Event email invites =====================

func (r *invitationRepository) CreateEventEmailInvites(ctx context.Context, invites []*entity.EventEmailInvite) error {
	query := `
		INSERT INTO event_email_invites (id, event_id, email, user_id, token, invited_by, status, expires_at, created_at, updated_at)
		VALUES (:id, :event_id, :email, :user_id, :token, :invited_by, :status, :expires_at, :created_at, :updated_at)
	`
	now := time.Now().UTC()
	return r.db.WithTx(ctx, func(tx database.Querier) error {
		for _, invite := range invites {
			if invite.ID == uuid.Nil {
				invite.ID = uuid.New()
			}
			invite.Status = entity.InviteStatusPending
			invite.CreatedAt = now
			invite.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, query, invite); err != nil {
				logger.Error("InvitationRepository:CreateEventEmailInvites:Error", "event_id", invite.EventID, "error", err)
				return err
			}
		}
		return nil
	})
}

func (r *invitationRepository) GetEventEmailInviteInfo(ctx context.Context, token string) (*entity.EventEmailInviteInfo, error) {
	query := `
		SELECT i.id, i.event_id, i.email, i.user_id, i.token, i.invited_by, i.status, i.expires_at,
		       i.accepted_at, i.created_at, i.updated_at,
		       e.title AS event_title, e.start_at AS event_start_at, e.end_at AS event_end_at,
		       e.calendar_id AS calendar_id, u.username AS inviter_username
		FROM event_email_invites i
		JOIN events e ON e.id = i.event_id
		JOIN users u ON u.id = i.invited_by
		WHERE i.token = $1
	`
	var info entity.EventEmailInviteInfo
	if err := r.db.GetContext(ctx, &info, query, token); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("InvitationRepository:GetEventEmailInviteInfo:Error", "error", err)
		return nil, err
	}
	return &info, nil
}

// AcceptEventEmailInvite consumes the invite and marks the user a confirmed event participant.
func (r *invitationRepository) AcceptEventEmailInvite(ctx context.Context, inviteID, eventID, userID uuid.UUID, now time.Time) (bool, error) {
	accepted := false
	err := r.db.WithTx(ctx, func(tx database.Querier) error {
		query := `
			UPDATE event_email_invites
			SET status = 'accepted', accepted_at = $1, user_id = $2, updated_at = $1
			WHERE id = $3 AND status = 'pending'
		`
		result, err := tx.ExecContext(ctx, query, now, userID, inviteID)
		if err != nil {
			return err
		}
		if accepted, err = affected(result); err != nil || !accepted {
			return err
		}
		return eventRepo.UpsertConfirmedParticipant(ctx, tx, eventID, userID)
	})
	if err != nil {
		logger.Error("InvitationRepository:AcceptEventEmailInvite:Error", "invite_id", inviteID, "error", err)
		return false, err
	}
	return accepted, nil
}

// ===================== Lookups & maintenance =====================

// FindUserIDsByEmails maps already-registered emails to their user ids.
func (r *invitationRepository) FindUserIDsByEmails(ctx context.Context, emails []string) (map[string]uuid.UUID, error) {
	found := make(map[string]uuid.UUID, len(emails))
	if len(emails) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(`SELECT id, email FROM users WHERE email IN (?)`, emails)
	if err != nil {
		return nil, err
	}
	query = r.db.SQLx().Rebind(query)

	var rows []struct {
		ID    uuid.UUID `db:"id"`
		Email string    `db:"email"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.Error("InvitationRepository:FindUserIDsByEmails:Error", "error", err)
		return nil, err
	}
	for _, row := range rows {
		found[row.Email] = row.ID
	}
	return found, nil
}

// DeleteExpired purges invite links and pending email invites that expired before cutoff.
func (r *invitationRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (*entity.CleanupResult, error) {
	res := &entity.CleanupResult{}
	err := r.db.WithTx(ctx, func(tx database.Querier) error {
		var err error
		if res.Links, err = execCount(ctx, tx, `DELETE FROM calendar_invite_links WHERE expires_at IS NOT NULL AND expires_at < $1`, cutoff); err != nil {
			return err
		}
		if res.CalendarEmails, err = execCount(ctx, tx, `DELETE FROM calendar_email_invites WHERE status = 'pending' AND expires_at IS NOT NULL AND expires_at < $1`, cutoff); err != nil {
			return err
		}
		res.EventEmails, err = execCount(ctx, tx, `DELETE FROM event_email_invites WHERE status = 'pending' AND expires_at IS NOT NULL AND expires_at < $1`, cutoff)
		return err
	})
	if err != nil {
		logger.Error("InvitationRepository:DeleteExpired:Error", "error", err)
		return nil, err
	}
	return res, nil
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func affected(result rowsAffected) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func execCount(ctx context.Context, q database.Querier, query string, args ...any) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
