package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/events"
	"github.com/Skotchmaster/teamshift/internal/hash"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
)

const minPasswordLen = 8

type UserService struct {
	Repo     *repo.GormRepo
	Sessions SessionStore
	Events   events.Publisher
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type UserUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.Actor, error) {
	l := logging.FromContext(ctx).With("svc", "users.register")

	email := repo.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Actor{}, fmt.Errorf("valid email is required: %w", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return domain.Actor{}, fmt.Errorf("password must have at least %d characters: %w", minPasswordLen, domain.ErrValidation)
	}

	pw, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return domain.Actor{}, err
	}

	u := &models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: pw,
		Active:       true,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return domain.Actor{}, err
	}

	events.Emit(ctx, s.Events, events.Event{Type: events.TypeUserRegistered, UserID: u.ID.String()})
	l.Info("user_registered", "user_id", u.ID)
	return domain.NewActor(u), nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (domain.Actor, error) {
	u, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return domain.Actor{}, err
	}
	return domain.NewActor(u), nil
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.Actor, error) {
	users, err := s.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Actor, 0, len(users))
	for i := range users {
		out = append(out, domain.NewActor(&users[i]))
	}
	return out, nil
}

// Update lets users edit only themselves. A password change revokes every session.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, upd UserUpdate) (domain.Actor, error) {
	if actorID != id {
		return domain.Actor{}, fmt.Errorf("cannot edit another user: %w", domain.ErrPermissionDenied)
	}

	changes := map[string]any{}
	if upd.FirstName != nil {
		changes["first_name"] = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		changes["last_name"] = strings.TrimSpace(*upd.LastName)
	}
	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLen {
			return domain.Actor{}, fmt.Errorf("password must have at least %d characters: %w", minPasswordLen, domain.ErrValidation)
		}
		pw, err := hash.HashPassword(*upd.Password)
		if err != nil {
			return domain.Actor{}, err
		}
		changes["password_hash"] = pw
	}
	if len(changes) == 0 {
		return s.Get(ctx, id)
	}

	u, err := s.Repo.UpdateUser(ctx, id, changes)
	if err != nil {
		return domain.Actor{}, err
	}
	if upd.Password != nil {
		if err := s.Sessions.RevokeAllForUser(ctx, id); err != nil {
			return domain.Actor{}, fmt.Errorf("revoke sessions: %w", err)
		}
	}
	return domain.NewActor(u), nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID != id {
		return fmt.Errorf("cannot delete another user: %w", domain.ErrPermissionDenied)
	}
	return s.Repo.DeleteUser(ctx, id)
}
