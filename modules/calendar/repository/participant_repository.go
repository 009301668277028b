package repository

import (
	"context"
	"time"

	"calendar-api/core/database"
	"calendar-api/core/logger"
	accessEntity "calendar-api/modules/access/entity"
	"calendar-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type ParticipantRepository interface {
	AddParticipant(ctx context.Context, participant *entity.Participant) (bool, error)
	GetParticipant(ctx context.Context, calendarID, userID uuid.UUID) (*entity.Participant, error)
	ListParticipants(ctx context.Context, calendarID uuid.UUID) ([]entity.ParticipantDetail, error)
	UpdateRole(ctx context.Context, calendarID, userID uuid.UUID, role accessEntity.Role) (bool, error)
	RemoveParticipant(ctx context.Context, calendarID, userID uuid.UUID) (bool, error)
}

type participantRepository struct {
	db database.IDatabase
}

func NewParticipantRepository(db database.IDatabase) ParticipantRepository {
	return &participantRepository{db: db}
}

// InsertParticipant adds (calendar, user) unless the pair already exists. It reports whether a
// row was created; concurrent redemptions of the same invite resolve to a single row.
func InsertParticipant(ctx context.Context, q database.Querier, participant *entity.Participant) (bool, error) {
	now := time.Now().UTC()
	if participant.ID == uuid.Nil {
		participant.ID = uuid.New()
	}
	participant.CreatedAt = now
	participant.UpdatedAt = now

	query := `
		INSERT INTO calendar_participants (id, calendar_id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (calendar_id, user_id) DO NOTHING
	`
	result, err := q.ExecContext(ctx, query,
		participant.ID,
		participant.CalendarID,
		participant.UserID,
		participant.Role,
		participant.CreatedAt,
		participant.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *participantRepository) AddParticipant(ctx context.Context, participant *entity.Participant) (bool, error) {
	created, err := InsertParticipant(ctx, r.db.SQLx(), participant)
	if err != nil {
		logger.Error("ParticipantRepository:AddParticipant:Error", "calendar_id", participant.CalendarID, "error", err)
		return false, err
	}
	return created, nil
}

func (r *participantRepository) GetParticipant(ctx context.Context, calendarID, userID uuid.UUID) (*entity.Participant, error) {
	query := `
		SELECT id, calendar_id, user_id, role, created_at, updated_at
		FROM calendar_participants
		WHERE calendar_id = $1 AND user_id = $2
	`
	var participant entity.Participant
	if err := r.db.GetContext(ctx, &participant, query, calendarID, userID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("ParticipantRepository:GetParticipant:Error", "calendar_id", calendarID, "error", err)
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) ListParticipants(ctx context.Context, calendarID uuid.UUID) ([]entity.ParticipantDetail, error) {
	query := `
		SELECT p.id, p.calendar_id, p.user_id, p.role, p.created_at, p.updated_at,
		       u.username, u.email, u.full_name
		FROM calendar_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.calendar_id = $1
		ORDER BY p.created_at ASC
	`
	participants := []entity.ParticipantDetail{}
	if err := r.db.SelectContext(ctx, &participants, query, calendarID); err != nil {
		logger.Error("ParticipantRepository:ListParticipants:Error", "calendar_id", calendarID, "error", err)
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) UpdateRole(ctx context.Context, calendarID, userID uuid.UUID, role accessEntity.Role) (bool, error) {
	query := `
		UPDATE calendar_participants
		SET role = $1, updated_at = NOW()
		WHERE calendar_id = $2 AND user_id = $3
	`
	result, err := r.db.ExecResultContext(ctx, query, role, calendarID, userID)
	if err != nil {
		logger.Error("ParticipantRepository:UpdateRole:Error", "calendar_id", calendarID, "error", err)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *participantRepository) RemoveParticipant(ctx context.Context, calendarID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM calendar_participants WHERE calendar_id = $1 AND user_id = $2`
	result, err := r.db.ExecResultContext(ctx, query, calendarID, userID)
	if err != nil {
		logger.Error("ParticipantRepository:RemoveParticipant:Error", "calendar_id", calendarID, "error", err)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
