package signups

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

func setupSignupsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	signups := `
CREATE TABLE IF NOT EXISTS membership_signups (
  id TEXT PRIMARY KEY,
  plan_kind TEXT NOT NULL,
  plan_selected_at DATETIME NOT NULL,
  payment_amount NUMERIC NOT NULL,
  terms_accepted INTEGER NOT NULL DEFAULT 0,
  terms_accepted_at DATETIME,
  terms_version TEXT,
  client_ip TEXT,
  user_agent TEXT,
  portal_kind TEXT,
  portal_selected_at DATETIME,
  user_id TEXT,
  email TEXT,
  provider_profile_id TEXT,
  account_created_at DATETIME,
  profile_completed INTEGER NOT NULL DEFAULT 0,
  profile_completed_at DATETIME,
  go_live_submitted_at DATETIME,
  is_live INTEGER NOT NULL DEFAULT 0,
  payment_deadline DATETIME,
  payment_proof_url TEXT,
  payment_proof_uploaded_at DATETIME,
  payment_method TEXT,
  status TEXT NOT NULL DEFAULT 'plan_selected',
  deactivated_at DATETIME,
  deactivation_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(signups).Error)
	require.NoError(t, db.Exec("DELETE FROM membership_signups").Error)
	return db
}

func createSignup(t *testing.T, db *gorm.DB, status enums.SignupStatus, mutate func(*models.MembershipSignup)) *models.MembershipSignup {
	t.Helper()

	signup := &models.MembershipSignup{
		ID:             uuid.New(),
		PlanKind:       enums.PlanKindPlus,
		PlanSelectedAt: time.Now().UTC().Add(-time.Hour),
		PaymentAmount:  decimal.NewFromInt(250000),
		Status:         status,
	}
	if mutate != nil {
		mutate(signup)
	}
	require.NoError(t, db.Create(signup).Error)
	return signup
}

func TestSignupRepositoryCreateAndFind(t *testing.T) {
	db := setupSignupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := createSignup(t, db, enums.SignupStatusPlanSelected, nil)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.PlanKindPlus, found.PlanKind)
	assert.True(t, found.PaymentAmount.Equal(decimal.NewFromInt(250000)))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSignupRepositoryFindByUserID(t *testing.T) {
	db := setupSignupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().UTC()
	older := createSignup(t, db, enums.SignupStatusDeactivated, func(s *models.MembershipSignup) {
		s.UserID = &userID
		s.CreatedAt = base.Add(-48 * time.Hour)
	})
	newer := createSignup(t, db, enums.SignupStatusAccountCreated, func(s *models.MembershipSignup) {
		s.UserID = &userID
		s.CreatedAt = base
	})

	found, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
	assert.NotEqual(t, older.ID, found.ID)
}

func TestSignupRepositoryTransitionGuards(t *testing.T) {
	db := setupSignupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	signup := createSignup(t, db, enums.SignupStatusPlanSelected, nil)
	now := time.Now().UTC()

	rows, err := repo.Transition(ctx, signup.ID,
		[]enums.SignupStatus{enums.SignupStatusPlanSelected},
		map[string]any{
			"status":            enums.SignupStatusTermsAccepted,
			"terms_accepted":    true,
			"terms_accepted_at": now,
		})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	found, err := repo.FindByID(ctx, signup.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SignupStatusTermsAccepted, found.Status)
	assert.True(t, found.TermsAccepted)

	// The same guard no longer matches after the move.
	rows, err = repo.Transition(ctx, signup.ID,
		[]enums.SignupStatus{enums.SignupStatusPlanSelected},
		map[string]any{"status": enums.SignupStatusPortalSelected})
	require.NoError(t, err)
	assert.Zero(t, rows)

	found, err = repo.FindByID(ctx, signup.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SignupStatusTermsAccepted, found.Status)

	rows, err = repo.Transition(ctx, uuid.New(),
		[]enums.SignupStatus{enums.SignupStatusPlanSelected},
		map[string]any{"status": enums.SignupStatusTermsAccepted})
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestSignupRepositoryExists(t *testing.T) {
	db := setupSignupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	signup := createSignup(t, db, enums.SignupStatusPlanSelected, nil)

	ok, err := repo.Exists(ctx, signup.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignupRepositoryListExpiredAwaitingPayment(t *testing.T) {
	db := setupSignupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	lapsedOld := now.Add(-3 * time.Hour)
	lapsedRecent := now.Add(-10 * time.Minute)
	future := now.Add(2 * time.Hour)

	first := createSignup(t, db, enums.SignupStatusAwaitingPayment, func(s *models.MembershipSignup) {
		s.PaymentDeadline = &lapsedOld
	})
	second := createSignup(t, db, enums.SignupStatusAwaitingPayment, func(s *models.MembershipSignup) {
		s.PaymentDeadline = &lapsedRecent
	})
	createSignup(t, db, enums.SignupStatusAwaitingPayment, func(s *models.MembershipSignup) {
		s.PaymentDeadline = &future
	})
	createSignup(t, db, enums.SignupStatusPaymentPending, func(s *models.MembershipSignup) {
		s.PaymentDeadline = &lapsedOld
	})
	createSignup(t, db, enums.SignupStatusAwaitingPayment, nil)

	rows, err := repo.ListExpiredAwaitingPayment(ctx, now, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, second.ID, rows[1].ID)

	limited, err := repo.ListExpiredAwaitingPayment(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, first.ID, limited[0].ID)
}

func TestSignupRepositoryListByStatusPagination(t *testing.T) {
	db := setupSignupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	var seeded []*models.MembershipSignup
	for i := 0; i < 5; i++ {
		offset := time.Duration(i) * time.Minute
		seeded = append(seeded, createSignup(t, db, enums.SignupStatusPaymentPending, func(s *models.MembershipSignup) {
			s.CreatedAt = base.Add(offset)
		}))
	}
	createSignup(t, db, enums.SignupStatusActive, func(s *models.MembershipSignup) {
		s.CreatedAt = base.Add(time.Hour)
	})

	page, cursor, err := repo.ListByStatus(ctx, enums.SignupStatusPaymentPending, 3, nil)
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.NotNil(t, cursor)
	// Newest first.
	assert.Equal(t, seeded[4].ID, page[0].ID)
	assert.Equal(t, seeded[2].ID, page[2].ID)

	rest, next, err := repo.ListByStatus(ctx, enums.SignupStatusPaymentPending, 3, cursor)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Nil(t, next)
	assert.Equal(t, seeded[1].ID, rest[0].ID)
	assert.Equal(t, seeded[0].ID, rest[1].ID)
}
