package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/testutil"
)

func TestPolicy_OwnerAndMember(t *testing.T) {
	t.Parallel()

	f := newCompanyFixture(t)
	ctx := context.Background()
	member := testutil.CreateUser(t, f.db, "member@example.com", "password1")
	f.addMember(t, member)

	tests := []struct {
		name      string
		userID    uuid.UUID
		ownerErr  error
		memberErr error
	}{
		{name: "owner", userID: f.owner.ID},
		{name: "member", userID: member.ID, ownerErr: domain.ErrPermissionDenied},
		{name: "outsider", userID: f.outsider.ID, ownerErr: domain.ErrPermissionDenied, memberErr: domain.ErrPermissionDenied},
		{name: "unknown user", userID: uuid.New(), ownerErr: domain.ErrPermissionDenied, memberErr: domain.ErrPermissionDenied},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := f.policy.RequireOwner(ctx, tt.userID, f.company.ID)
			if tt.ownerErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.ownerErr)
			}

			err = f.policy.RequireMember(ctx, tt.userID, f.company.ID)
			if tt.memberErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.memberErr)
			}
		})
	}
}

func TestIsOwner_OtherCompany(t *testing.T) {
	t.Parallel()

	f := newCompanyFixture(t)
	actor, err := f.policy.Actor(context.Background(), f.owner.ID)
	assert.NoError(t, err)

	assert.True(t, IsOwner(actor, f.company.ID))
	assert.False(t, IsOwner(actor, uuid.New()))
}
