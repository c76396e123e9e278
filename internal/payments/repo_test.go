package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/santai-app/santai-backend/pkg/db/models"
	"github.com/santai-app/santai-backend/pkg/enums"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	submissions := `
CREATE TABLE IF NOT EXISTS payment_submissions (
  id TEXT PRIMARY KEY,
  signup_id TEXT NOT NULL,
  user_id TEXT,
  provider_profile_id TEXT,
  provider_kind TEXT,
  plan_kind TEXT NOT NULL DEFAULT 'plus',
  deadline DATETIME,
  proof_url TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  method TEXT,
  bank_name TEXT,
  account_name TEXT,
  uploaded_at DATETIME NOT NULL,
  review_status TEXT NOT NULL DEFAULT 'pending',
  reviewed_by TEXT,
  reviewed_at DATETIME,
  review_notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(submissions).Error)
	require.NoError(t, db.Exec("DELETE FROM payment_submissions").Error)
	return db
}

func createSubmission(t *testing.T, db *gorm.DB, status enums.ReviewStatus, mutate func(*models.PaymentSubmission)) *models.PaymentSubmission {
	t.Helper()

	sub := &models.PaymentSubmission{
		ID:           uuid.New(),
		SignupID:     uuid.New(),
		PlanKind:     enums.PlanKindPlus,
		ProofURL:     "https://storage.googleapis.com/proof-bucket/proofs/x/proof.png",
		Amount:       decimal.NewFromInt(250000),
		UploadedAt:   time.Now().UTC(),
		ReviewStatus: status,
	}
	if mutate != nil {
		mutate(sub)
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func TestPaymentRepositoryListPendingPagination(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	var seeded []*models.PaymentSubmission
	for i := 0; i < 5; i++ {
		offset := time.Duration(i) * time.Minute
		seeded = append(seeded, createSubmission(t, db, enums.ReviewStatusPending, func(s *models.PaymentSubmission) {
			s.CreatedAt = base.Add(offset)
		}))
	}
	createSubmission(t, db, enums.ReviewStatusApproved, func(s *models.PaymentSubmission) {
		s.CreatedAt = base.Add(-time.Hour)
	})

	page, cursor, err := repo.ListPending(ctx, 3, nil)
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.NotNil(t, cursor)
	// Oldest upload first.
	assert.Equal(t, seeded[0].ID, page[0].ID)
	assert.Equal(t, seeded[2].ID, page[2].ID)

	rest, next, err := repo.ListPending(ctx, 3, cursor)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Nil(t, next)
	assert.Equal(t, seeded[3].ID, rest[0].ID)
	assert.Equal(t, seeded[4].ID, rest[1].ID)
}

func TestPaymentRepositoryExpirePendingBefore(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	lapsed := now.Add(-8 * 24 * time.Hour)
	recent := now.Add(-time.Hour)

	stale := createSubmission(t, db, enums.ReviewStatusPending, func(s *models.PaymentSubmission) {
		s.Deadline = &lapsed
	})
	fresh := createSubmission(t, db, enums.ReviewStatusPending, func(s *models.PaymentSubmission) {
		s.Deadline = &recent
	})
	// Rows without a copied deadline predate the column and are left alone.
	legacy := createSubmission(t, db, enums.ReviewStatusPending, nil)
	reviewed := createSubmission(t, db, enums.ReviewStatusApproved, func(s *models.PaymentSubmission) {
		s.Deadline = &lapsed
	})

	cutoff := now.Add(-7 * 24 * time.Hour)
	expired, err := repo.ExpirePendingBefore(ctx, cutoff, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	check := func(id uuid.UUID, want enums.ReviewStatus) {
		t.Helper()
		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, found.ReviewStatus)
	}
	check(stale.ID, enums.ReviewStatusExpired)
	check(fresh.ID, enums.ReviewStatusPending)
	check(legacy.ID, enums.ReviewStatusPending)
	check(reviewed.ID, enums.ReviewStatusApproved)
}

func TestPaymentRepositoryReviewGuards(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sub := createSubmission(t, db, enums.ReviewStatusPending, nil)
	admin := uuid.New()
	now := time.Now().UTC()

	rows, err := repo.Review(ctx, sub.ID, enums.ReviewStatusApproved, admin, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// A second verdict never overwrites the first.
	rows, err = repo.Review(ctx, sub.ID, enums.ReviewStatusRejected, admin, nil, now)
	require.NoError(t, err)
	assert.Zero(t, rows)

	found, err := repo.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReviewStatusApproved, found.ReviewStatus)
}
