package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/teamshift/internal/models"
	"github.com/Skotchmaster/teamshift/internal/repo"
	"github.com/Skotchmaster/teamshift/internal/testutil"
)

// companyFixture is company C owned by owner, with outsider unrelated to it.
type companyFixture struct {
	db       *gorm.DB
	repo     *repo.GormRepo
	policy   *Policy
	owner    *models.User
	outsider *models.User
	company  *models.Company
}

func newCompanyFixture(t *testing.T) companyFixture {
	t.Helper()

	db := testutil.NewDB(t)
	r := repo.New(db)
	owner := testutil.CreateUser(t, db, "owner@example.com", "password1")
	outsider := testutil.CreateUser(t, db, "outsider@example.com", "password1")
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)

	return companyFixture{
		db:       db,
		repo:     r,
		policy:   NewPolicy(r),
		owner:    owner,
		outsider: outsider,
		company:  company,
	}
}

func (f companyFixture) addMember(t *testing.T, u *models.User) *models.UserCompanyRole {
	t.Helper()

	m := &models.UserCompanyRole{UserID: u.ID, CompanyID: f.company.ID}
	require.NoError(t, f.db.WithContext(context.Background()).Create(m).Error)
	return m
}

func (f companyFixture) addRole(t *testing.T, name string) *models.Role {
	t.Helper()

	role := &models.Role{Name: name, CompanyID: f.company.ID}
	require.NoError(t, f.repo.CreateRole(context.Background(), role))
	return role
}
