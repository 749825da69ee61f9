package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
)

type MembershipService struct {
	Repo   *repo.GormRepo
	Policy *Policy
}

func (s *MembershipService) ListByCompany(ctx context.Context, actorID, companyID uuid.UUID) ([]models.UserCompanyRole, error) {
	if _, err := s.Repo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if err := s.Policy.RequireMember(ctx, actorID, companyID); err != nil {
		return nil, err
	}
	return s.Repo.ListMembershipsByCompany(ctx, companyID)
}

func (s *MembershipService) ListByUser(ctx context.Context, actorID, userID uuid.UUID) ([]models.UserCompanyRole, error) {
	if actorID != userID {
		return nil, fmt.Errorf("cannot list memberships of another user: %w", domain.ErrPermissionDenied)
	}
	return s.Repo.ListMembershipsByUser(ctx, userID)
}

// AssignRole sets or clears (roleID nil) the role of a membership.
func (s *MembershipService) AssignRole(ctx context.Context, actorID uuid.UUID, membershipID uint, roleID *uint) (*models.UserCompanyRole, error) {
	m, err := s.Repo.GetMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if err := s.Policy.RequireOwner(ctx, actorID, m.CompanyID); err != nil {
		return nil, err
	}
	if roleID != nil {
		role, err := s.Repo.GetRole(ctx, *roleID)
		if err != nil {
			return nil, err
		}
		if role.CompanyID != m.CompanyID {
			return nil, fmt.Errorf("role %d belongs to another company: %w", role.ID, domain.ErrValidation)
		}
	}
	return s.Repo.SetMembershipRole(ctx, membershipID, roleID)
}

// Remove unlinks a member. Owners may remove anyone but themselves; members may leave.
func (s *MembershipService) Remove(ctx context.Context, actorID uuid.UUID, membershipID uint) error {
	l := logging.FromContext(ctx).With("svc", "memberships.remove")

	m, err := s.Repo.GetMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if m.IsOwner {
		return fmt.Errorf("owner membership cannot be removed: %w", domain.ErrValidation)
	}
	if m.UserID != actorID {
		if err := s.Policy.RequireOwner(ctx, actorID, m.CompanyID); err != nil {
			return err
		}
	}

	if err := s.Repo.DeleteMembership(ctx, membershipID); err != nil {
		return err
	}
	l.Info("membership_removed", "membership_id", membershipID, "company_id", m.CompanyID, "user_id", m.UserID)
	return nil
}
