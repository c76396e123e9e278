package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/santai-app/santai-backend/pkg/db/models"
	"github.com/santai-app/santai-backend/pkg/enums"
	pkgerrors "github.com/santai-app/santai-backend/pkg/errors"
	paginationpkg "github.com/santai-app/santai-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn      func(ctx context.Context, notification *models.AdminNotification) error
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.AdminNotification, *paginationpkg.Cursor, error)
	markReadFn    func(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, now time.Time) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.AdminNotification) error {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.AdminNotification, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, now)
	}
	return 0, nil
}

func (f *fakeRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestService_EmitStoresTypedNotification(t *testing.T) {
	var stored *models.AdminNotification
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.AdminNotification) error {
			stored = notification
			return nil
		},
	}

	svc := newServiceWithRepo(repo)
	signupID := uuid.New()
	err := svc.Emit(context.Background(), EmitInput{
		Type:     enums.NotificationTypePaymentProofUploaded,
		SignupID: &signupID,
		Message:  "Provider uploaded payment proof",
		Link:     "/admin/payments",
	})
	if err != nil {
		t.Fatalf("unexpected emit error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected notification to be stored")
	}
	if stored.Title != enums.NotificationTypePaymentProofUploaded.Title() {
		t.Fatalf("unexpected title %q", stored.Title)
	}
	if stored.SignupID == nil || *stored.SignupID != signupID {
		t.Fatal("expected signup id to be stored")
	}
	if stored.Link == nil || *stored.Link != "/admin/payments" {
		t.Fatal("expected link to be stored")
	}
}

func TestService_EmitValidation(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})

	if err := svc.Emit(context.Background(), EmitInput{Type: enums.NotificationType("bogus"), Message: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad type, got %v", err)
	}
	if err := svc.Emit(context.Background(), EmitInput{Type: enums.NotificationTypeNewGoLive, Message: "  "}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty message, got %v", err)
	}
}

func TestService_ListNotifications(t *testing.T) {
	first := models.AdminNotification{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}
	second := models.AdminNotification{ID: uuid.New(), CreatedAt: time.Now()}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.AdminNotification, *paginationpkg.Cursor, error) {
			if params.Limit != 1 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			return []models.AdminNotification{first}, &paginationpkg.Cursor{CreatedAt: second.CreatedAt, ID: second.ID}, nil
		},
	}

	svc := newServiceWithRepo(repo)
	result, err := svc.List(context.Background(), ListParams{Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected cursor for next page")
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}
	if decoded.ID != second.ID {
		t.Fatal("cursor should point at the next row")
	}
}

func TestService_ListRejectsBadCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	if _, err := svc.List(context.Background(), ListParams{Cursor: "%%%"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}

	svc := newServiceWithRepo(repo)
	err := svc.MarkRead(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_MarkReadRepoError(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{}, errors.New("db down")
		},
	}

	svc := newServiceWithRepo(repo)
	err := svc.MarkRead(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestService_MarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 4, nil
		},
	}

	svc := newServiceWithRepo(repo)
	count, err := svc.MarkAllRead(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 marked, got %d", count)
	}
}
