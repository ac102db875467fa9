package identity

import (
	"context"
	"testing"

	"github.com/gelvpress/gelv-backend/pkg/db/models"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupIdentityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// The users table carries a postgres-only id default, so it is created
	// by hand for sqlite.
	require.NoError(t, db.Exec(`
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  billing_name TEXT,
  billing_phone TEXT,
  personal_code TEXT,
  billing_city TEXT,
  billing_address TEXT,
  billing_postal_code TEXT,
  billing_email TEXT,
  created_at DATETIME,
  updated_at DATETIME
)`).Error)
	return db
}

func TestResolveByEmailNormalizesAddress(t *testing.T) {
	db := setupIdentityTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	user := models.User{ID: uuid.New(), Email: "anna@example.lv"}
	require.NoError(t, db.Create(&user).Error)

	resolved, err := svc.ResolveByEmail(context.Background(), "  Anna@Example.LV ")
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved.ID)
}

func TestResolveByEmailUnknownAccount(t *testing.T) {
	db := setupIdentityTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	_, err = svc.ResolveByEmail(context.Background(), "nobody@example.lv")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestResolveByEmailRequiresAddress(t *testing.T) {
	db := setupIdentityTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	_, err = svc.ResolveByEmail(context.Background(), "   ")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestResolveByID(t *testing.T) {
	db := setupIdentityTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	user := models.User{ID: uuid.New(), Email: "anna@example.lv"}
	require.NoError(t, db.Create(&user).Error)

	resolved, err := svc.ResolveByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, resolved.Email)

	_, err = svc.ResolveByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
