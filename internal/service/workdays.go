package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
)

const (
	DateLayout       = "2006-01-02"
	maxBatchWorkDays = 366
)

type WorkDayService struct {
	Repo   *repo.GormRepo
	Policy *Policy
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Weekday numbers days from Monday=0 to Sunday=6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func (s *WorkDayService) Create(ctx context.Context, actorID uuid.UUID, roleID uint, date time.Time, holiday bool) (*models.WorkDay, error) {
	if _, err := s.ownedRole(ctx, actorID, roleID); err != nil {
		return nil, err
	}

	day := Day(date)
	existing, err := s.Repo.ExistingWorkDates(ctx, roleID, []time.Time{day})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("workday %s: %w", day.Format(DateLayout), domain.ErrAlreadyExists)
	}

	wd := &models.WorkDay{RoleID: roleID, Date: day, IsHoliday: holiday, Weekday: Weekday(day)}
	if err := s.Repo.CreateWorkDay(ctx, wd); err != nil {
		return nil, err
	}
	return wd, nil
}

// BatchCreate adds one workday per calendar day of [start, end]. Either every day is
// created or none is.
func (s *WorkDayService) BatchCreate(ctx context.Context, actorID uuid.UUID, roleID uint, start, end time.Time) ([]models.WorkDay, error) {
	if _, err := s.ownedRole(ctx, actorID, roleID); err != nil {
		return nil, err
	}

	start, end = Day(start), Day(end)
	if end.Before(start) {
		start, end = end, start
	}
	n := int(end.Sub(start)/(24*time.Hour)) + 1
	if n > maxBatchWorkDays {
		return nil, fmt.Errorf("interval of %d days exceeds %d: %w", n, maxBatchWorkDays, domain.ErrValidation)
	}

	dates := make([]time.Time, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	existing, err := s.Repo.ExistingWorkDates(ctx, roleID, dates)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		taken := make([]string, 0, len(existing))
		for _, d := range existing {
			taken = append(taken, d.Format(DateLayout))
		}
		return nil, fmt.Errorf("workdays exist for %s: %w", strings.Join(taken, ", "), domain.ErrAlreadyExists)
	}

	days := make([]models.WorkDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, models.WorkDay{RoleID: roleID, Date: d, Weekday: Weekday(d)})
	}
	if err := s.Repo.BatchCreateWorkDays(ctx, days); err != nil {
		return nil, err
	}
	return s.Repo.ListWorkDays(ctx, roleID, start, end)
}

func (s *WorkDayService) List(ctx context.Context, actorID uuid.UUID, roleID uint, from, to time.Time) ([]models.WorkDay, error) {
	role, err := s.Repo.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.Policy.RequireMember(ctx, actorID, role.CompanyID); err != nil {
		return nil, err
	}
	if !from.IsZero() {
		from = Day(from)
	}
	if !to.IsZero() {
		to = Day(to)
	}
	return s.Repo.ListWorkDays(ctx, roleID, from, to)
}

func (s *WorkDayService) SetHoliday(ctx context.Context, actorID uuid.UUID, id uint, holiday bool) (*models.WorkDay, error) {
	wd, err := s.Repo.GetWorkDay(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedRole(ctx, actorID, wd.RoleID); err != nil {
		return nil, err
	}
	return s.Repo.SetWorkDayHoliday(ctx, id, holiday)
}

func (s *WorkDayService) Delete(ctx context.Context, actorID uuid.UUID, id uint) error {
	wd, err := s.Repo.GetWorkDay(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.ownedRole(ctx, actorID, wd.RoleID); err != nil {
		return err
	}
	return s.Repo.DeleteWorkDay(ctx, id)
}

// BatchDelete ignores ids that belong to other roles.
func (s *WorkDayService) BatchDelete(ctx context.Context, actorID uuid.UUID, roleID uint, ids []uint) (int64, error) {
	if _, err := s.ownedRole(ctx, actorID, roleID); err != nil {
		return 0, err
	}
	return s.Repo.BatchDeleteWorkDays(ctx, roleID, ids)
}

func (s *WorkDayService) ownedRole(ctx context.Context, actorID uuid.UUID, roleID uint) (*models.Role, error) {
	role, err := s.Repo.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.Policy.RequireOwner(ctx, actorID, role.CompanyID); err != nil {
		return nil, err
	}
	return role, nil
}
