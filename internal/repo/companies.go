package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/models"
)

// CreateCompany stores the company and the owner membership of ownerID together.
func (r *GormRepo) CreateCompany(ctx context.Context, c *models.Company, ownerID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserCompanyRole{
			UserID:    ownerID,
			CompanyID: c.ID,
			IsOwner:   true,
		}).Error
	})
}

func (r *GormRepo) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var c models.Company
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err, "company")
	}
	return &c, nil
}

func (r *GormRepo) ListCompanies(ctx context.Context, offset, limit int) ([]models.Company, error) {
	var out []models.Company
	if err := r.DB.WithContext(ctx).
		Order("name, id").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) SearchCompaniesByName(ctx context.Context, query string, offset, limit int) (int64, []models.Company, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	q := r.DB.WithContext(ctx).Model(&models.Company{}).Where("LOWER(name) LIKE ?", pattern)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var out []models.Company
	if err := q.Order("name, id").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return 0, nil, err
	}
	return total, out, nil
}

func (r *GormRepo) UpdateCompanyName(ctx context.Context, id uuid.UUID, name string) (*models.Company, error) {
	res := r.DB.WithContext(ctx).Model(&models.Company{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("company not found: %w", domain.ErrNotFound)
	}
	return r.GetCompany(ctx, id)
}

// DeleteCompany cascades to roles, their workdays, memberships and join requests.
func (r *GormRepo) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Company
		if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
			return notFound(err, "company")
		}

		roleIDs := tx.Model(&models.Role{}).Select("id").Where("company_id = ?", id)
		if err := tx.Where("role_id IN (?)", roleIDs).Delete(&models.WorkDay{}).Error; err != nil {
			return err
		}
		for _, m := range []any{&models.UserCompanyRole{}, &models.UserCompanyRequest{}, &models.Role{}} {
			if err := tx.Where("company_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&c).Error
	})
}

// GetCompaniesByIDs keeps the order of ids and skips unknown or malformed ones.
func (r *GormRepo) GetCompaniesByIDs(ctx context.Context, ids []string) ([]models.Company, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			parsed = append(parsed, u)
		}
	}
	if len(parsed) == 0 {
		return []models.Company{}, nil
	}

	var found []models.Company
	if err := r.DB.WithContext(ctx).Where("id IN ?", parsed).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Company, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]models.Company, 0, len(found))
	for _, id := range parsed {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
