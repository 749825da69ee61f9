package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
)

type RoleService struct {
	Repo   *repo.GormRepo
	Policy *Policy
}

type RoleUpdate struct {
	Name                 *string
	NumberOfCooldownDays *int
}

// CreateRole is restricted to owners of companyID.
func (s *RoleService) CreateRole(ctx context.Context, actorID, companyID uuid.UUID, name string, cooldownDays int) (*models.Role, error) {
	l := logging.FromContext(ctx).With("svc", "roles.create")

	if _, err := s.Repo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if err := s.Policy.RequireOwner(ctx, actorID, companyID); err != nil {
		l.Warn("create_role_denied", "actor_id", actorID, "company_id", companyID)
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validateRole(name, cooldownDays); err != nil {
		return nil, err
	}

	role := &models.Role{Name: name, CompanyID: companyID, NumberOfCooldownDays: cooldownDays}
	if err := s.Repo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	l.Info("role_created", "role_id", role.ID, "company_id", companyID)
	return role, nil
}

func (s *RoleService) ListRoles(ctx context.Context, actorID, companyID uuid.UUID) ([]models.Role, error) {
	if _, err := s.Repo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if err := s.Policy.RequireMember(ctx, actorID, companyID); err != nil {
		return nil, err
	}
	return s.Repo.ListRolesByCompany(ctx, companyID)
}

func (s *RoleService) UpdateRole(ctx context.Context, actorID uuid.UUID, roleID uint, upd RoleUpdate) (*models.Role, error) {
	role, err := s.Repo.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.Policy.RequireOwner(ctx, actorID, role.CompanyID); err != nil {
		return nil, err
	}

	if upd.Name != nil {
		role.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.NumberOfCooldownDays != nil {
		role.NumberOfCooldownDays = *upd.NumberOfCooldownDays
	}
	if err := validateRole(role.Name, role.NumberOfCooldownDays); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, actorID uuid.UUID, roleID uint) error {
	role, err := s.Repo.GetRole(ctx, roleID)
	if err != nil {
		return err
	}
	if err := s.Policy.RequireOwner(ctx, actorID, role.CompanyID); err != nil {
		return err
	}
	return s.Repo.DeleteRole(ctx, roleID)
}

func validateRole(name string, cooldownDays int) error {
	if name == "" {
		return fmt.Errorf("role name is required: %w", domain.ErrValidation)
	}
	if cooldownDays < 0 {
		return fmt.Errorf("number_of_cooldown_days must not be negative: %w", domain.ErrValidation)
	}
	return nil
}
