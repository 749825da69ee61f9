package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/models"
)

func (r *GormRepo) ListMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]models.UserCompanyRole, error) {
	var out []models.UserCompanyRole
	if err := r.DB.WithContext(ctx).
		Preload("Company").
		Preload("Role").
		Where("user_id = ?", userID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListMembershipsByCompany(ctx context.Context, companyID uuid.UUID) ([]models.UserCompanyRole, error) {
	var out []models.UserCompanyRole
	if err := r.DB.WithContext(ctx).
		Preload("Role").
		Where("company_id = ?", companyID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetMembership(ctx context.Context, id uint) (*models.UserCompanyRole, error) {
	var m models.UserCompanyRole
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "membership")
	}
	return &m, nil
}

func (r *GormRepo) IsLinked(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.UserCompanyRole{}).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) SetMembershipRole(ctx context.Context, id uint, roleID *uint) (*models.UserCompanyRole, error) {
	res := r.DB.WithContext(ctx).Model(&models.UserCompanyRole{}).Where("id = ?", id).Update("role_id", roleID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("membership not found: %w", domain.ErrNotFound)
	}
	return r.GetMembership(ctx, id)
}

func (r *GormRepo) DeleteMembership(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.UserCompanyRole{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("membership not found: %w", domain.ErrNotFound)
	}
	return nil
}
