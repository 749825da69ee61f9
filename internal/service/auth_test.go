package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
	"github.com/Skotchmaster/teamshift/internal/testutil"
	"github.com/Skotchmaster/teamshift/pkg/tokens"
)

const testPassword = "correct-horse"

type authFixture struct {
	db       *gorm.DB
	svc      *AuthService
	sessions *repo.Sessions
	user     *models.User
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	db := testutil.NewDB(t)
	codec, err := tokens.NewCodec([]byte("test-secret"), "HS256", 15*time.Minute)
	require.NoError(t, err)

	sessions := repo.NewSessions(db)
	svc := NewAuthService(repo.New(db), sessions, codec, 30*24*time.Hour)
	user := testutil.CreateUser(t, db, "alice@example.com", testPassword)

	return authFixture{db: db, svc: svc, sessions: sessions, user: user}
}

func (f authFixture) assertAllRevoked(t *testing.T) {
	t.Helper()

	list, err := f.sessions.ListByUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for _, s := range list {
		assert.True(t, s.Revoked, "session %s still active", s.ID)
	}
}

func TestAuthService_Login_IssuesSession(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	got, err := f.svc.Login(ctx, "  Alice@Example.com ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, got.UserID)
	assert.NotEmpty(t, got.AccessToken)
	assert.NotEmpty(t, got.RefreshSecret)

	claims, err := f.svc.Codec.VerifyAccessToken(got.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID.String(), claims.Subject)

	stored, err := f.sessions.GetByID(ctx, got.SessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, tokens.HashRefreshSecret(got.RefreshSecret), stored.TokenHash)
	assert.NotEqual(t, got.RefreshSecret, stored.TokenHash)
	assert.WithinDuration(t, got.RefreshExp, stored.ExpiresAt, time.Second)
}

func TestAuthService_Login_EnumerationSafe(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	_, unknown := f.svc.Login(ctx, "nonexistent@x.com", "anything")
	_, wrong := f.svc.Login(ctx, "alice@example.com", "wrong-password")

	require.ErrorIs(t, unknown, domain.ErrInvalidCredentials)
	require.ErrorIs(t, wrong, domain.ErrInvalidCredentials)
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	require.NoError(t, f.db.Model(f.user).Update("active", false).Error)

	_, err := f.svc.Login(context.Background(), "alice@example.com", testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Rotate_Success(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	second, err := f.svc.Rotate(ctx, first.RefreshSecret, first.SessionID)
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.NotEqual(t, first.RefreshSecret, second.RefreshSecret)

	old, err := f.sessions.GetByID(ctx, first.SessionID)
	require.NoError(t, err)
	assert.True(t, old.Revoked)
	require.NotNil(t, old.ReplacedBy)
	assert.Equal(t, second.SessionID, *old.ReplacedBy)

	fresh, err := f.sessions.GetByID(ctx, second.SessionID)
	require.NoError(t, err)
	assert.False(t, fresh.Revoked)
}

func TestAuthService_Rotate_ReplayRevokesEverything(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
	second, err := f.svc.Rotate(ctx, first.RefreshSecret, first.SessionID)
	require.NoError(t, err)

	_, err = f.svc.Rotate(ctx, first.RefreshSecret, first.SessionID)
	require.ErrorIs(t, err, domain.ErrRefreshReuseDetected)
	f.assertAllRevoked(t)

	_, err = f.svc.Rotate(ctx, second.RefreshSecret, second.SessionID)
	assert.ErrorIs(t, err, domain.ErrRefreshReuseDetected)

	_, err = f.svc.Login(ctx, "alice@example.com", testPassword)
	assert.NoError(t, err)
}

func TestAuthService_Rotate_TamperedSecretLocksOut(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	other, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
	target, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	_, err = f.svc.Rotate(ctx, "not-the-secret", target.SessionID)
	require.ErrorIs(t, err, domain.ErrRefreshInvalid)
	f.assertAllRevoked(t)

	_, err = f.svc.Rotate(ctx, target.RefreshSecret, target.SessionID)
	assert.ErrorIs(t, err, domain.ErrRefreshReuseDetected)
	_, err = f.svc.Rotate(ctx, other.RefreshSecret, other.SessionID)
	assert.ErrorIs(t, err, domain.ErrRefreshReuseDetected)
}

func TestAuthService_Rotate_ExpiredDoesNotLockOut(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	later := time.Now().UTC().Add(31 * 24 * time.Hour)
	f.svc.Now = func() time.Time { return later }

	_, err = f.svc.Rotate(ctx, sess.RefreshSecret, sess.SessionID)
	require.ErrorIs(t, err, domain.ErrRefreshExpired)

	stored, err := f.sessions.GetByID(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.False(t, stored.Revoked)
}

func TestAuthService_Rotate_UnknownSession(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)

	_, err := f.svc.Rotate(context.Background(), "whatever", tokens.NewJTI())
	assert.ErrorIs(t, err, domain.ErrRefreshNotFound)
}

func TestAuthService_Rotate_ConcurrentReplayHasOneWinner(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	const racers = 4
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Rotate(ctx, sess.RefreshSecret, sess.SessionID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrRefreshReuseDetected)
	}
	assert.Equal(t, 1, wins)
	f.assertAllRevoked(t)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	assert.True(t, f.svc.Logout(ctx, sess.RefreshSecret, sess.SessionID))
	assert.False(t, f.svc.Logout(ctx, sess.RefreshSecret, sess.SessionID))
	assert.False(t, f.svc.Logout(ctx, "garbage", "garbage"))

	stored, err := f.sessions.GetByID(ctx, sess.SessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Revoked)
}

func TestAuthService_Logout_DeleteMode(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.svc.DeleteOnLogout = true
	ctx := context.Background()

	sess, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
	require.True(t, f.svc.Logout(ctx, sess.RefreshSecret, sess.SessionID))

	stored, err := f.sessions.GetByID(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthService_Logout_WrongSecretKeepsSession(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	assert.False(t, f.svc.Logout(ctx, "wrong", sess.SessionID))
	_, err = f.svc.Rotate(ctx, sess.RefreshSecret, sess.SessionID)
	assert.NoError(t, err)
}

func TestAuthService_ResolveActor(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	company := testutil.CreateCompany(t, f.db, "Acme", f.user.ID)

	sess, err := f.svc.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	actor, err := f.svc.ResolveActor(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, actor.ID)
	assert.True(t, actor.IsOwner(company.ID))

	raw, err := json.Marshal(actor)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), f.user.PasswordHash)

	_, err = f.svc.ResolveActor(ctx, "not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
