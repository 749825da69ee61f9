package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/teamshift/internal/models"
)

func (r *GormRepo) CreateRole(ctx context.Context, role *models.Role) error {
	return r.DB.WithContext(ctx).Create(role).Error
}

func (r *GormRepo) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		return nil, notFound(err, "role")
	}
	return &role, nil
}

func (r *GormRepo) ListRolesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Role, error) {
	var out []models.Role
	if err := r.DB.WithContext(ctx).Where("company_id = ?", companyID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) UpdateRole(ctx context.Context, role *models.Role) error {
	return r.DB.WithContext(ctx).Model(role).
		Select("name", "number_of_cooldown_days").
		Updates(role).Error
}

// DeleteRole clears the role from memberships and drops its workdays.
func (r *GormRepo) DeleteRole(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("id = ?", id).First(&role).Error; err != nil {
			return notFound(err, "role")
		}
		if err := tx.Model(&models.UserCompanyRole{}).Where("role_id = ?", id).Update("role_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.WorkDay{}).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
}
