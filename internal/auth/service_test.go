package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/santai-app/santai-backend/pkg/auth"
	"github.com/santai-app/santai-backend/pkg/config"
	"github.com/santai-app/santai-backend/pkg/db/models"
	"github.com/santai-app/santai-backend/pkg/enums"
	pkgerrors "github.com/santai-app/santai-backend/pkg/errors"
	"github.com/santai-app/santai-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "santai",
	ExpirationMinutes: 30,
}

type stubUserRepo struct {
	user      *models.User
	lastLogin *time.Time
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubSignupLookup struct {
	signup *models.MembershipSignup
}

func (s *stubSignupLookup) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.MembershipSignup, error) {
	if s.signup != nil && s.signup.UserID != nil && *s.signup.UserID == userID {
		return s.signup, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessionManager struct {
	refreshToken string
	lastAccessID string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.lastAccessID = accessID
	return s.refreshToken, nil
}

func buildTestService(t *testing.T, user *models.User, signup *models.MembershipSignup) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()

	userRepo := &stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SignupRepo:     &stubSignupLookup{signup: signup},
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, userRepo, sessionMgr
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func providerUser(t *testing.T, password string) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        "ayu@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Ayu Lestari",
		Role:         enums.ActorRoleProvider,
		IsActive:     true,
	}
}

func TestServiceLoginEmbedsSignupID(t *testing.T) {
	password := "provider-secret"
	user := providerUser(t, password)
	signup := &models.MembershipSignup{
		ID:     uuid.New(),
		UserID: &user.ID,
		Status: enums.SignupStatusAwaitingPayment,
	}

	svc, userRepo, sessionMgr := buildTestService(t, user, signup)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Ayu@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.ActorRoleProvider {
		t.Fatalf("expected provider role claim, got %s", claims.Role)
	}
	if claims.SignupID == nil || *claims.SignupID != signup.ID {
		t.Fatalf("expected signup id claim %s, got %v", signup.ID, claims.SignupID)
	}
	if claims.ID != sessionMgr.lastAccessID {
		t.Fatalf("jti %q must match the session access id %q", claims.ID, sessionMgr.lastAccessID)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}
	if resp.SignupID == nil || *resp.SignupID != signup.ID {
		t.Fatalf("response signup id mismatch: %v", resp.SignupID)
	}
	if userRepo.lastLogin == nil {
		t.Fatal("last login must be recorded")
	}
}

func TestServiceLoginWithoutSignup(t *testing.T) {
	password := "provider-secret"
	user := providerUser(t, password)

	svc, _, _ := buildTestService(t, user, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.SignupID != nil {
		t.Fatalf("expected no signup id, got %v", resp.SignupID)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := providerUser(t, "right-password")
	svc, _, _ := buildTestService(t, user, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "provider-secret"
	user := providerUser(t, password)
	user.IsActive = false
	svc, _, _ := buildTestService(t, user, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLoginRejectsAdminRole(t *testing.T) {
	password := "admin-secret"
	user := providerUser(t, password)
	user.Role = enums.ActorRoleAdmin
	svc, _, _ := buildTestService(t, user, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceAdminLogin(t *testing.T) {
	password := "admin-secret"
	user := providerUser(t, password)
	user.Role = enums.ActorRoleAdmin
	svc, _, _ := buildTestService(t, user, nil)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.ActorRoleAdmin {
		t.Fatalf("expected admin role claim, got %s", claims.Role)
	}
	if claims.SignupID != nil {
		t.Fatalf("admin tokens must not carry a signup id, got %v", claims.SignupID)
	}
}

func TestServiceAdminLoginRejectsProvider(t *testing.T) {
	password := "provider-secret"
	user := providerUser(t, password)
	svc, _, _ := buildTestService(t, user, nil)

	_, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
