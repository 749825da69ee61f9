package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/events"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
)

// CompanyIndex is the optional full-text directory. Nil means search falls back to SQL.
type CompanyIndex interface {
	IndexCompany(ctx context.Context, c *models.Company) error
	DeleteCompany(ctx context.Context, id string) error
	SearchCompanies(ctx context.Context, query string, from, size int) (int64, []string, error)
}

type CompanyService struct {
	Repo   *repo.GormRepo
	Policy *Policy
	Index  CompanyIndex
	Events events.Publisher
}

func (s *CompanyService) Create(ctx context.Context, actorID uuid.UUID, name string) (*models.Company, error) {
	l := logging.FromContext(ctx).With("svc", "companies.create")

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("company name is required: %w", domain.ErrValidation)
	}
	if _, err := s.Repo.GetUserByID(ctx, actorID); err != nil {
		return nil, err
	}

	c := &models.Company{Name: name}
	if err := s.Repo.CreateCompany(ctx, c, actorID); err != nil {
		return nil, err
	}
	s.index(ctx, c)

	events.Emit(ctx, s.Events, events.Event{
		Type:      events.TypeCompanyCreated,
		UserID:    actorID.String(),
		CompanyID: c.ID.String(),
		Data:      map[string]any{"name": c.Name},
	})
	l.Info("company_created", "company_id", c.ID, "owner_id", actorID)
	return c, nil
}

func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return s.Repo.GetCompany(ctx, id)
}

func (s *CompanyService) List(ctx context.Context, offset, limit int) ([]models.Company, error) {
	return s.Repo.ListCompanies(ctx, offset, limit)
}

func (s *CompanyService) Rename(ctx context.Context, actorID, id uuid.UUID, name string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("company name is required: %w", domain.ErrValidation)
	}
	if _, err := s.Repo.GetCompany(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Policy.RequireOwner(ctx, actorID, id); err != nil {
		return nil, err
	}

	c, err := s.Repo.UpdateCompanyName(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.index(ctx, c)
	return c, nil
}

func (s *CompanyService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "companies.delete")

	if _, err := s.Repo.GetCompany(ctx, id); err != nil {
		return err
	}
	if err := s.Policy.RequireOwner(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.Repo.DeleteCompany(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteCompany(ctx, id.String()); err != nil {
			l.Warn("company_unindex_failed", "company_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.Event{Type: events.TypeCompanyDeleted, UserID: actorID.String(), CompanyID: id.String()})
	l.Info("company_deleted", "company_id", id)
	return nil
}

// Search uses the directory index when configured and falls back to a LIKE query
// when there is no index or it fails.
func (s *CompanyService) Search(ctx context.Context, query string, offset, limit int) (int64, []models.Company, error) {
	l := logging.FromContext(ctx).With("svc", "companies.search")

	if s.Index != nil {
		total, ids, err := s.Index.SearchCompanies(ctx, query, offset, limit)
		if err == nil {
			companies, err := s.Repo.GetCompaniesByIDs(ctx, ids)
			if err == nil {
				return total, companies, nil
			}
			l.Warn("company_search_hydrate_failed", "error", err)
		} else {
			l.Warn("company_search_index_failed", "error", err)
		}
	}
	return s.Repo.SearchCompaniesByName(ctx, query, offset, limit)
}

func (s *CompanyService) index(ctx context.Context, c *models.Company) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexCompany(ctx, c); err != nil {
		logging.FromContext(ctx).Warn("company_index_failed", "company_id", c.ID, "error", err)
	}
}
