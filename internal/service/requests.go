package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/events"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
)

type RequestService struct {
	Repo   *repo.GormRepo
	Policy *Policy
	Events events.Publisher
}

// Create files a pending join request from actorID to companyID.
func (s *RequestService) Create(ctx context.Context, actorID, companyID uuid.UUID) (*models.UserCompanyRequest, error) {
	l := logging.FromContext(ctx).With("svc", "requests.create")

	if _, err := s.Repo.GetUserByID(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	linked, err := s.Repo.IsLinked(ctx, actorID, companyID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, fmt.Errorf("user already linked to company: %w", domain.ErrValidation)
	}

	pending, err := s.Repo.HasPendingRequest(ctx, actorID, companyID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("pending request already exists: %w", domain.ErrAlreadyExists)
	}

	req := &models.UserCompanyRequest{UserID: actorID, CompanyID: companyID}
	if err := s.Repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.Event{
		Type:      events.TypeJoinRequestCreated,
		UserID:    actorID.String(),
		CompanyID: companyID.String(),
		Data:      map[string]any{"request_id": req.ID},
	})
	l.Info("join_request_created", "request_id", req.ID, "company_id", companyID)
	return req, nil
}

func ValidRequestStatus(status string) bool {
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestRejected:
		return true
	}
	return false
}

func (s *RequestService) ListByCompany(ctx context.Context, actorID, companyID uuid.UUID, status string) ([]models.UserCompanyRequest, error) {
	if !ValidRequestStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
	}
	if _, err := s.Repo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if err := s.Policy.RequireOwner(ctx, actorID, companyID); err != nil {
		return nil, err
	}
	return s.Repo.ListRequestsByCompany(ctx, companyID, status)
}

func (s *RequestService) ListMine(ctx context.Context, actorID uuid.UUID) ([]models.UserCompanyRequest, error) {
	return s.Repo.ListRequestsByUser(ctx, actorID)
}

// Approve moves a pending request to approved and links the requester to the company.
// roleID, when set, must belong to that company.
func (s *RequestService) Approve(ctx context.Context, actorID uuid.UUID, requestID uint, roleID *uint) (*models.UserCompanyRequest, error) {
	l := logging.FromContext(ctx).With("svc", "requests.approve")

	req, err := s.pendingOwned(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}

	linked, err := s.Repo.IsLinked(ctx, req.UserID, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, fmt.Errorf("user already linked to company: %w", domain.ErrValidation)
	}

	if roleID != nil {
		role, err := s.Repo.GetRole(ctx, *roleID)
		if err != nil {
			return nil, err
		}
		if role.CompanyID != req.CompanyID {
			return nil, fmt.Errorf("role %d belongs to another company: %w", role.ID, domain.ErrValidation)
		}
	}

	updated, err := s.Repo.ApproveRequest(ctx, requestID, roleID)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.Event{
		Type:      events.TypeJoinRequestApproved,
		UserID:    updated.UserID.String(),
		CompanyID: updated.CompanyID.String(),
		Data:      map[string]any{"request_id": updated.ID, "approved_by": actorID.String()},
	})
	l.Info("join_request_approved", "request_id", updated.ID)
	return updated, nil
}

func (s *RequestService) Reject(ctx context.Context, actorID uuid.UUID, requestID uint) (*models.UserCompanyRequest, error) {
	l := logging.FromContext(ctx).With("svc", "requests.reject")

	if _, err := s.pendingOwned(ctx, actorID, requestID); err != nil {
		return nil, err
	}

	updated, err := s.Repo.RejectRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.Event{
		Type:      events.TypeJoinRequestRejected,
		UserID:    updated.UserID.String(),
		CompanyID: updated.CompanyID.String(),
		Data:      map[string]any{"request_id": updated.ID, "rejected_by": actorID.String()},
	})
	l.Info("join_request_rejected", "request_id", updated.ID)
	return updated, nil
}

// pendingOwned checks existence, then the pending state, then ownership, in that order.
func (s *RequestService) pendingOwned(ctx context.Context, actorID uuid.UUID, requestID uint) (*models.UserCompanyRequest, error) {
	req, err := s.Repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	// Status is checked before ownership, so a processed request reports
	// ErrRequestProcessed to any caller, owner or not.
	if req.Status != models.RequestPending {
		return nil, repo.ErrRequestProcessed
	}
	if err := s.Policy.RequireOwner(ctx, actorID, req.CompanyID); err != nil {
		return nil, err
	}
	return req, nil
}
