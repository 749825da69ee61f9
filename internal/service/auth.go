package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/events"
	"github.com/Skotchmaster/teamshift/internal/hash"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
	"github.com/Skotchmaster/teamshift/pkg/tokens"
)

type SessionStore interface {
	Save(ctx context.Context, jti string, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.RefreshSession, error)
	GetByID(ctx context.Context, jti string) (*models.RefreshSession, error)
	Revoke(ctx context.Context, sess *models.RefreshSession, replacedBy *string) error
	Delete(ctx context.Context, sess *models.RefreshSession) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	Rotate(ctx context.Context, oldID string, next *models.RefreshSession) error
}

// UserLookup returns domain.ErrNotFound for unknown users.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthService struct {
	Users    UserLookup
	Sessions SessionStore
	Codec    *tokens.Codec

	RefreshTTL     time.Duration
	DeleteOnLogout bool

	Events         events.Publisher
	Now            func() time.Time
	VerifyPassword func(hash, plain string) bool
}

func NewAuthService(users UserLookup, sessions SessionStore, codec *tokens.Codec, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		Users:          users,
		Sessions:       sessions,
		Codec:          codec,
		RefreshTTL:     refreshTTL,
		Events:         events.Noop{},
		Now:            func() time.Time { return time.Now().UTC() },
		VerifyPassword: hash.CheckPassword,
	}
}

// Session is what login and rotate hand to the transport. RefreshSecret is the raw
// secret and is never available again after this value is dropped.
type Session struct {
	UserID        uuid.UUID
	AccessToken   string
	AccessExp     time.Time
	SessionID     string
	RefreshSecret string
	RefreshExp    time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *AuthService) verifyPassword(h, plain string) bool {
	if s.VerifyPassword != nil {
		return s.VerifyPassword(h, plain)
	}
	return hash.CheckPassword(h, plain)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			hash.BurnCompare(password)
			l.Warn("login_failed", "reason", "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		l.Error("login_failed", "reason", "user lookup", "error", err)
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.verifyPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		l.Warn("login_failed", "reason", "inactive user", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	next, secret, err := s.newSession(user.ID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Sessions.Save(ctx, next.ID, next.UserID, next.TokenHash, next.ExpiresAt); err != nil {
		l.Error("login_failed", "reason", "save session", "error", err)
		return nil, fmt.Errorf("save session: %w", err)
	}

	out, err := s.finish(user.ID, next, secret)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.Event{Type: events.TypeLogin, UserID: user.ID.String()})
	l.Info("login_successful", "user_id", user.ID, "session_id", next.ID)
	return out, nil
}

// Rotate exchanges a live refresh secret for a new pair. A replayed (revoked) or
// mismatching secret revokes every session of the owner before failing.
func (s *AuthService) Rotate(ctx context.Context, rawSecret, sessionID string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.rotate", "session_id", sessionID)

	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		l.Warn("refresh_failed", "reason", "session not found")
		return nil, domain.ErrRefreshNotFound
	}

	if sess.Revoked {
		return nil, s.lockout(ctx, sess.UserID, domain.ErrRefreshReuseDetected)
	}

	if !tokens.RefreshHashEqual(tokens.HashRefreshSecret(rawSecret), sess.TokenHash) {
		return nil, s.lockout(ctx, sess.UserID, domain.ErrRefreshInvalid)
	}

	if !s.now().Before(sess.ExpiresAt) {
		l.Info("refresh_failed", "reason", "expired", "user_id", sess.UserID)
		return nil, domain.ErrRefreshExpired
	}

	next, secret, err := s.newSession(sess.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Rotate(ctx, sess.ID, next); err != nil {
		switch {
		case errors.Is(err, repo.ErrSessionRevoked):
			// lost a race against a concurrent rotation of the same secret
			return nil, s.lockout(ctx, sess.UserID, domain.ErrRefreshReuseDetected)
		case errors.Is(err, repo.ErrSessionMissing):
			return nil, domain.ErrRefreshNotFound
		}
		l.Error("refresh_failed", "reason", "rotate session", "error", err)
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	out, err := s.finish(sess.UserID, next, secret)
	if err != nil {
		return nil, err
	}
	l.Info("refresh_successful", "user_id", sess.UserID, "new_session_id", next.ID)
	return out, nil
}

func (s *AuthService) lockout(ctx context.Context, userID uuid.UUID, cause error) error {
	l := logging.FromContext(ctx).With("svc", "auth.rotate")

	if err := s.Sessions.RevokeAllForUser(ctx, userID); err != nil {
		l.Error("revoke_all_failed", "user_id", userID, "error", err)
		return fmt.Errorf("revoke sessions: %w", err)
	}

	typ := events.TypeRefreshInvalid
	if errors.Is(cause, domain.ErrRefreshReuseDetected) {
		typ = events.TypeRefreshReuse
	}
	l.Warn("refresh_lockout", "user_id", userID, "reason", cause.Error())
	events.Emit(ctx, s.Events, events.Event{Type: typ, UserID: userID.String()})
	return cause
}

// Logout revokes (or deletes) the matching session. It reports whether anything was
// revoked and never fails: the client clears its cookies either way.
func (s *AuthService) Logout(ctx context.Context, rawSecret, sessionID string) bool {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		l.Error("logout_lookup_failed", "error", err)
		return false
	}
	if sess == nil || sess.Revoked {
		return false
	}
	if !tokens.RefreshHashEqual(tokens.HashRefreshSecret(rawSecret), sess.TokenHash) {
		return false
	}

	if s.DeleteOnLogout {
		err = s.Sessions.Delete(ctx, sess)
	} else {
		err = s.Sessions.Revoke(ctx, sess, nil)
	}
	if err != nil {
		l.Error("logout_revoke_failed", "session_id", sess.ID, "error", err)
		return false
	}

	events.Emit(ctx, s.Events, events.Event{Type: events.TypeLogout, UserID: sess.UserID.String()})
	return true
}

// ResolveActor maps an access token to the public projection of its user.
func (s *AuthService) ResolveActor(ctx context.Context, accessToken string) (domain.Actor, error) {
	claims, err := s.Codec.VerifyAccessToken(accessToken)
	if err != nil {
		return domain.Actor{}, domain.ErrInvalidCredentials
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Actor{}, domain.ErrInvalidCredentials
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, domain.ErrInvalidCredentials
		}
		return domain.Actor{}, fmt.Errorf("lookup user: %w", err)
	}
	return domain.NewActor(user), nil
}

func (s *AuthService) newSession(userID uuid.UUID) (*models.RefreshSession, string, error) {
	secret, err := tokens.GenerateRefreshSecret()
	if err != nil {
		return nil, "", err
	}
	return &models.RefreshSession{
		ID:        tokens.NewJTI(),
		UserID:    userID,
		TokenHash: tokens.HashRefreshSecret(secret),
		ExpiresAt: s.now().Add(s.RefreshTTL),
	}, secret, nil
}

func (s *AuthService) finish(userID uuid.UUID, sess *models.RefreshSession, secret string) (*Session, error) {
	access, accessExp, err := s.Codec.CreateAccessToken(userID.String())
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:        userID,
		AccessToken:   access,
		AccessExp:     accessExp,
		SessionID:     sess.ID,
		RefreshSecret: secret,
		RefreshExp:    sess.ExpiresAt,
	}, nil
}
