package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/models"
)

func (r *GormRepo) CreateWorkDay(ctx context.Context, wd *models.WorkDay) error {
	return duplicate(r.DB.WithContext(ctx).Create(wd).Error, "workday "+wd.Date.UTC().Format("2006-01-02"))
}

// ExistingWorkDates returns which of dates already have a workday for roleID.
func (r *GormRepo) ExistingWorkDates(ctx context.Context, roleID uint, dates []time.Time) ([]time.Time, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var found []models.WorkDay
	if err := r.DB.WithContext(ctx).
		Where("role_id = ? AND date IN ?", roleID, dates).
		Order("date").
		Find(&found).Error; err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(found))
	for _, wd := range found {
		out = append(out, wd.Date.UTC())
	}
	return out, nil
}

func (r *GormRepo) BatchCreateWorkDays(ctx context.Context, days []models.WorkDay) error {
	if len(days) == 0 {
		return nil
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&days, 100).Error
	})
	return duplicate(err, "workdays")
}

func (r *GormRepo) GetWorkDay(ctx context.Context, id uint) (*models.WorkDay, error) {
	var wd models.WorkDay
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&wd).Error; err != nil {
		return nil, notFound(err, "workday")
	}
	return &wd, nil
}

// ListWorkDays returns the role's workdays ordered by date; zero from/to leave that side open.
func (r *GormRepo) ListWorkDays(ctx context.Context, roleID uint, from, to time.Time) ([]models.WorkDay, error) {
	q := r.DB.WithContext(ctx).Where("role_id = ?", roleID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to.UTC())
	}
	var out []models.WorkDay
	if err := q.Order("date").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) SetWorkDayHoliday(ctx context.Context, id uint, holiday bool) (*models.WorkDay, error) {
	res := r.DB.WithContext(ctx).Model(&models.WorkDay{}).Where("id = ?", id).Update("is_holiday", holiday)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("workday not found: %w", domain.ErrNotFound)
	}
	return r.GetWorkDay(ctx, id)
}

func (r *GormRepo) DeleteWorkDay(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.WorkDay{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("workday not found: %w", domain.ErrNotFound)
	}
	return nil
}

// BatchDeleteWorkDays only deletes ids belonging to roleID and reports how many went.
func (r *GormRepo) BatchDeleteWorkDays(ctx context.Context, roleID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Where("role_id = ? AND id IN ?", roleID, ids).Delete(&models.WorkDay{})
	return res.RowsAffected, res.Error
}
