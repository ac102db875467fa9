package ownership

import (
	"context"
	"testing"

	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOwnershipTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, db.AutoMigrate(
		&models.Journal{},
		&models.Issue{},
		&models.Subscription{},
		&models.Payment{},
		&models.IssueOrder{},
		&models.SubscriptionOrder{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedIssues(t *testing.T, db *gorm.DB, journalID int64, numbers ...int) map[int]models.Issue {
	t.Helper()
	out := map[int]models.Issue{}
	for _, n := range numbers {
		issue := models.Issue{
			JournalID: journalID,
			Number:    n,
			Pricing:   models.Pricing{Price: decimal.NewFromInt(5), IsActive: true},
		}
		require.NoError(t, db.Create(&issue).Error)
		out[n] = issue
	}
	return out
}

func TestOwnedIssuesUnionsDirectAndSubscription(t *testing.T) {
	db := setupOwnershipTestDB(t)
	resolver, err := NewResolver(db)
	require.NoError(t, err)
	ctx := context.Background()

	user := seedUser(t, db, "reader@example.com")
	journal := models.Journal{Name: "Bilance", Frequency: 12}
	require.NoError(t, db.Create(&journal).Error)

	// Published run: 9, 10, 11. The subscription covers 10..12 but 12 does
	// not exist yet.
	issues := seedIssues(t, db, journal.ID, 9, 10, 11)

	sub := models.Subscription{
		JournalID: journal.ID,
		Duration:  3,
		Pricing:   models.Pricing{Price: decimal.NewFromInt(12), IsActive: true},
	}
	require.NoError(t, db.Create(&sub).Error)

	payment := models.Payment{
		UserID:       user.ID,
		Paid:         true,
		BillingName:  "Reader",
		BillingEmail: user.Email,
	}
	require.NoError(t, db.Create(&payment).Error)
	require.NoError(t, db.Create(&models.IssueOrder{
		PaymentID: payment.ID,
		IssueID:   issues[9].ID,
		Price:     decimal.NewFromInt(5),
	}).Error)
	require.NoError(t, db.Create(&models.SubscriptionOrder{
		PaymentID:      payment.ID,
		SubscriptionID: sub.ID,
		Price:          decimal.NewFromInt(12),
		Start:          10,
		Amount:         1,
	}).Error)

	owned, err := resolver.OwnedIssues(ctx, user.ID)
	require.NoError(t, err)

	numbers := make([]int, 0, len(owned))
	for _, issue := range owned {
		numbers = append(numbers, issue.Number)
	}
	require.ElementsMatch(t, []int{9, 10, 11}, numbers)
}

func TestOwnedIssuesIgnoresUnpaidPayments(t *testing.T) {
	db := setupOwnershipTestDB(t)
	resolver, err := NewResolver(db)
	require.NoError(t, err)

	user := seedUser(t, db, "reader@example.com")
	journal := models.Journal{Name: "Bilance", Frequency: 12}
	require.NoError(t, db.Create(&journal).Error)
	issues := seedIssues(t, db, journal.ID, 1)

	payment := models.Payment{
		UserID:       user.ID,
		Paid:         false,
		BillingName:  "Reader",
		BillingEmail: user.Email,
	}
	require.NoError(t, db.Create(&payment).Error)
	require.NoError(t, db.Create(&models.IssueOrder{
		PaymentID: payment.ID,
		IssueID:   issues[1].ID,
		Price:     decimal.NewFromInt(5),
	}).Error)

	owned, err := resolver.OwnedIssues(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, owned)
}

func TestOwnedIssuesDeduplicatesOverlap(t *testing.T) {
	db := setupOwnershipTestDB(t)
	resolver, err := NewResolver(db)
	require.NoError(t, err)

	user := seedUser(t, db, "reader@example.com")
	journal := models.Journal{Name: "Bilance", Frequency: 12}
	require.NoError(t, db.Create(&journal).Error)
	issues := seedIssues(t, db, journal.ID, 5)

	sub := models.Subscription{
		JournalID: journal.ID,
		Duration:  2,
		Pricing:   models.Pricing{Price: decimal.NewFromInt(12), IsActive: true},
	}
	require.NoError(t, db.Create(&sub).Error)

	payment := models.Payment{
		UserID:       user.ID,
		Paid:         true,
		BillingName:  "Reader",
		BillingEmail: user.Email,
	}
	require.NoError(t, db.Create(&payment).Error)
	// Issue 5 both bought directly and covered by the subscription.
	require.NoError(t, db.Create(&models.IssueOrder{
		PaymentID: payment.ID,
		IssueID:   issues[5].ID,
		Price:     decimal.NewFromInt(5),
	}).Error)
	require.NoError(t, db.Create(&models.SubscriptionOrder{
		PaymentID:      payment.ID,
		SubscriptionID: sub.ID,
		Price:          decimal.NewFromInt(12),
		Start:          5,
		Amount:         1,
	}).Error)

	owned, err := resolver.OwnedIssues(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	owns, err := resolver.Owns(context.Background(), user.ID, issues[5].ID)
	require.NoError(t, err)
	require.True(t, owns)
}
