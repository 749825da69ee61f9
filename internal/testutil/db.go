// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/teamshift/internal/hash"
	"github.com/Skotchmaster/teamshift/internal/models"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// CreateUser inserts an active user with a bcrypt hash of password.
func CreateUser(t testing.TB, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	pw, err := hash.HashPassword(password)
	require.NoError(t, err)

	u := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: pw,
		Active:       true,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// CreateCompany inserts a company owned by ownerID.
func CreateCompany(t testing.TB, db *gorm.DB, name string, ownerID uuid.UUID) *models.Company {
	t.Helper()

	c := &models.Company{Name: name}
	require.NoError(t, db.Create(c).Error)
	require.NoError(t, db.Create(&models.UserCompanyRole{
		UserID:    ownerID,
		CompanyID: c.ID,
		IsOwner:   true,
	}).Error)
	return c
}
