package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/models"
)

type MembershipLookup interface {
	ListMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]models.UserCompanyRole, error)
}

// Policy answers ownership questions from the actor's company memberships.
type Policy struct {
	Memberships MembershipLookup
}

func NewPolicy(m MembershipLookup) *Policy {
	return &Policy{Memberships: m}
}

func IsOwner(actor domain.Actor, companyID uuid.UUID) bool {
	return actor.IsOwner(companyID)
}

func (p *Policy) Actor(ctx context.Context, userID uuid.UUID) (domain.Actor, error) {
	ms, err := p.Memberships.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return domain.Actor{}, err
	}
	return domain.NewActor(&models.User{ID: userID, Memberships: ms}), nil
}

func (p *Policy) RequireOwner(ctx context.Context, userID, companyID uuid.UUID) error {
	actor, err := p.Actor(ctx, userID)
	if err != nil {
		return err
	}
	if !IsOwner(actor, companyID) {
		return fmt.Errorf("user is not an owner of company %s: %w", companyID, domain.ErrPermissionDenied)
	}
	return nil
}

// RequireMember accepts owners and plain members.
func (p *Policy) RequireMember(ctx context.Context, userID, companyID uuid.UUID) error {
	actor, err := p.Actor(ctx, userID)
	if err != nil {
		return err
	}
	if !actor.IsMember(companyID) {
		return fmt.Errorf("user is not a member of company %s: %w", companyID, domain.ErrPermissionDenied)
	}
	return nil
}
