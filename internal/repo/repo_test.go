package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/testutil"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := New(testutil.NewDB(t))

	u := &models.User{FirstName: "A", LastName: "B", Email: " Ann@Example.com ", PasswordHash: "x", Active: true}
	require.NoError(t, r.CreateUser(ctx, u))
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, uuid.Nil, u.ID)

	dup := &models.User{FirstName: "C", LastName: "D", Email: "ANN@example.com", PasswordHash: "y"}
	assert.ErrorIs(t, r.CreateUser(ctx, dup), domain.ErrAlreadyExists)

	got, err := r.GetUserByEmail(ctx, "ann@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateCompany_AddsOwnerMembership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testutil.NewDB(t)
	r := New(db)
	owner := testutil.CreateUser(t, db, "owner@example.com", "pw")

	c := &models.Company{Name: "Acme"}
	require.NoError(t, r.CreateCompany(ctx, c, owner.ID))

	ms, err := r.ListMembershipsByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, c.ID, ms[0].CompanyID)
	assert.True(t, ms[0].IsOwner)
	require.NotNil(t, ms[0].Company)
	assert.Equal(t, "Acme", ms[0].Company.Name)

	user, err := r.GetUserByID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, user.Memberships, 1)
}

func TestDeleteCompany_Cascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testutil.NewDB(t)
	r := New(db)
	owner := testutil.CreateUser(t, db, "owner@example.com", "pw")
	c := testutil.CreateCompany(t, db, "Acme", owner.ID)

	role := &models.Role{Name: "Cook", CompanyID: c.ID}
	require.NoError(t, r.CreateRole(ctx, role))
	require.NoError(t, r.CreateWorkDay(ctx, &models.WorkDay{RoleID: role.ID, Date: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)}))

	require.NoError(t, r.DeleteCompany(ctx, c.ID))

	_, err := r.GetCompany(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.GetRole(ctx, role.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	days, err := r.ListWorkDays(ctx, role.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, days)
	linked, err := r.IsLinked(ctx, owner.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, linked)

	assert.ErrorIs(t, r.DeleteCompany(ctx, c.ID), domain.ErrNotFound)
}

func TestApproveRequest_Once(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testutil.NewDB(t)
	r := New(db)
	owner := testutil.CreateUser(t, db, "owner@example.com", "pw")
	member := testutil.CreateUser(t, db, "member@example.com", "pw")
	c := testutil.CreateCompany(t, db, "Acme", owner.ID)

	req := &models.UserCompanyRequest{UserID: member.ID, CompanyID: c.ID}
	require.NoError(t, r.CreateRequest(ctx, req))
	assert.Equal(t, models.RequestPending, req.Status)

	pending, err := r.HasPendingRequest(ctx, member.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, pending)

	approved, err := r.ApproveRequest(ctx, req.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	assert.True(t, approved.Accepted)

	linked, err := r.IsLinked(ctx, member.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, linked)

	_, err = r.ApproveRequest(ctx, req.ID, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = r.RejectRequest(ctx, req.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = r.RejectRequest(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := r.ListRequestsByCompany(ctx, c.ID, models.RequestPending)
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = r.ListRequestsByCompany(ctx, c.ID, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWorkDays_ExistingDatesAndBatchDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := New(testutil.NewDB(t))

	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	days := []models.WorkDay{
		{RoleID: 1, Date: d1, Weekday: 5},
		{RoleID: 1, Date: d2, Weekday: 6},
		{RoleID: 2, Date: d3, Weekday: 0},
	}
	require.NoError(t, r.BatchCreateWorkDays(ctx, days))
	for _, d := range days {
		assert.NotZero(t, d.ID)
	}

	existing, err := r.ExistingWorkDates(ctx, 1, []time.Time{d1, d3})
	require.NoError(t, err)
	require.Len(t, existing, 1)
	assert.True(t, existing[0].Equal(d1))

	inRange, err := r.ListWorkDays(ctx, 1, d2, time.Time{})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, days[1].ID, inRange[0].ID)

	n, err := r.BatchDeleteWorkDays(ctx, 1, []uint{days[0].ID, days[2].ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = r.GetWorkDay(ctx, days[2].ID)
	require.NoError(t, err)
	assert.ErrorIs(t, r.DeleteWorkDay(ctx, days[0].ID), domain.ErrNotFound)
}

func TestWorkDays_UniqueIndexMapsToAlreadyExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := New(testutil.NewDB(t))

	d1 := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	require.NoError(t, r.CreateWorkDay(ctx, &models.WorkDay{RoleID: 1, Date: d1}))

	// a concurrent writer that skipped the existence check lands here
	err := r.CreateWorkDay(ctx, &models.WorkDay{RoleID: 1, Date: d1})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	err = r.BatchCreateWorkDays(ctx, []models.WorkDay{{RoleID: 1, Date: d2}, {RoleID: 1, Date: d1}})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	days, err := r.ListWorkDays(ctx, 1, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.True(t, days[0].Date.Equal(d1))

	require.NoError(t, r.CreateWorkDay(ctx, &models.WorkDay{RoleID: 2, Date: d1}))
}
