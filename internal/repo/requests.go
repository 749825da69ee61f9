package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/models"
)

var ErrRequestProcessed = fmt.Errorf("request already processed: %w", domain.ErrValidation)

func (r *GormRepo) CreateRequest(ctx context.Context, req *models.UserCompanyRequest) error {
	req.Status = models.RequestPending
	req.Accepted = false
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *GormRepo) GetRequest(ctx context.Context, id uint) (*models.UserCompanyRequest, error) {
	var req models.UserCompanyRequest
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, notFound(err, "request")
	}
	return &req, nil
}

func (r *GormRepo) HasPendingRequest(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.UserCompanyRequest{}).
		Where("user_id = ? AND company_id = ? AND status = ?", userID, companyID, models.RequestPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRequestsByCompany filters by status when it is not empty.
func (r *GormRepo) ListRequestsByCompany(ctx context.Context, companyID uuid.UUID, status string) ([]models.UserCompanyRequest, error) {
	q := r.DB.WithContext(ctx).Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.UserCompanyRequest
	if err := q.Order("created_at, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.UserCompanyRequest, error) {
	var out []models.UserCompanyRequest
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveRequest marks a pending request approved and links the requester to the
// company as a non-owner member in the same transaction.
func (r *GormRepo) ApproveRequest(ctx context.Context, id uint, roleID *uint) (*models.UserCompanyRequest, error) {
	var req models.UserCompanyRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPending(tx, id, &req); err != nil {
			return err
		}
		req.Status = models.RequestApproved
		req.Accepted = true
		if err := tx.Model(&req).Select("status", "accepted").Updates(&req).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserCompanyRole{
			UserID:    req.UserID,
			CompanyID: req.CompanyID,
			RoleID:    roleID,
			IsOwner:   false,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *GormRepo) RejectRequest(ctx context.Context, id uint) (*models.UserCompanyRequest, error) {
	var req models.UserCompanyRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPending(tx, id, &req); err != nil {
			return err
		}
		req.Status = models.RequestRejected
		req.Accepted = false
		return tx.Model(&req).Select("status", "accepted").Updates(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func lockPending(tx *gorm.DB, id uint, req *models.UserCompanyRequest) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(req).Error; err != nil {
		return notFound(err, "request")
	}
	if req.Status != models.RequestPending {
		return ErrRequestProcessed
	}
	return nil
}
