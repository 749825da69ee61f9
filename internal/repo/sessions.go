package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/teamshift/internal/models"
)

var (
	// ErrSessionRevoked is returned by Rotate when another rotation already consumed the session.
	ErrSessionRevoked = errors.New("session already revoked")
	ErrSessionMissing = errors.New("session missing")
)

// Sessions stores refresh sessions in the refresh_sessions table.
type Sessions struct {
	DB *gorm.DB
}

func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{DB: db}
}

func (s *Sessions) Save(ctx context.Context, jti string, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.RefreshSession, error) {
	sess := models.RefreshSession{
		ID:        jti,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetByID returns nil, nil when no session has that id.
func (s *Sessions) GetByID(ctx context.Context, jti string) (*models.RefreshSession, error) {
	var sess models.RefreshSession
	if err := s.DB.WithContext(ctx).Where("id = ?", jti).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

func (s *Sessions) Revoke(ctx context.Context, sess *models.RefreshSession, replacedBy *string) error {
	updates := map[string]any{"revoked": true}
	if replacedBy != nil {
		updates["replaced_by"] = *replacedBy
	}
	if err := s.DB.WithContext(ctx).Model(&models.RefreshSession{}).
		Where("id = ?", sess.ID).
		Updates(updates).Error; err != nil {
		return err
	}
	sess.Revoked = true
	if replacedBy != nil {
		sess.ReplacedBy = replacedBy
	}
	return nil
}

func (s *Sessions) Delete(ctx context.Context, sess *models.RefreshSession) error {
	return s.DB.WithContext(ctx).Where("id = ?", sess.ID).Delete(&models.RefreshSession{}).Error
}

func (s *Sessions) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return revokeAll(s.DB.WithContext(ctx), userID)
}

func revokeAll(db *gorm.DB, userID uuid.UUID) error {
	return db.Model(&models.RefreshSession{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}

// Rotate consumes the session oldID and stores next in one transaction. The old row is
// locked and re-read first, so of two concurrent rotations only one can win; the other
// gets ErrSessionRevoked. Every active session of the user is revoked before next is inserted.
func (s *Sessions) Rotate(ctx context.Context, oldID string, next *models.RefreshSession) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.RefreshSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", oldID).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionMissing
			}
			return err
		}
		if old.Revoked {
			return ErrSessionRevoked
		}

		if err := revokeAll(tx, old.UserID); err != nil {
			return err
		}
		if err := tx.Model(&models.RefreshSession{}).
			Where("id = ?", old.ID).
			Update("replaced_by", next.ID).Error; err != nil {
			return err
		}

		next.UserID = old.UserID
		next.ExpiresAt = next.ExpiresAt.UTC()
		return tx.Create(next).Error
	})
}

func (s *Sessions) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RefreshSession, error) {
	var out []models.RefreshSession
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteStale removes sessions that expired or were revoked before cutoff.
func (s *Sessions) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("expires_at < ? OR (revoked = ? AND created_at < ?)", cutoff.UTC(), true, cutoff.UTC()).
		Delete(&models.RefreshSession{})
	return res.RowsAffected, res.Error
}
