package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/santai-app/santai-backend/pkg/auth"
	"github.com/santai-app/santai-backend/pkg/auth/session"
	"github.com/santai-app/santai-backend/pkg/config"
	"github.com/santai-app/santai-backend/pkg/enums"
)

type testRotator struct {
	rotateFn func(ctx context.Context, oldAccessID, provided string) (string, string, error)
	revokeFn func(ctx context.Context, accessID string) error
}

func (r *testRotator) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if r.rotateFn != nil {
		return r.rotateFn(ctx, oldAccessID, provided)
	}
	return "", "", nil
}

func (r *testRotator) Revoke(ctx context.Context, accessID string) error {
	if r.revokeFn != nil {
		return r.revokeFn(ctx, accessID)
	}
	return nil
}

func sessionTestConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "santai", ExpirationMinutes: 30}
}

func mintSessionToken(t *testing.T, cfg config.JWTConfig, accessID string, issuedAt time.Time) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, issuedAt, pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.ActorRoleProvider,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRefreshRotatesSession(t *testing.T) {
	cfg := sessionTestConfig()
	oldAccessID := uuid.NewString()
	newAccessID := uuid.NewString()

	// Expired access tokens must still be accepted for refresh.
	token := mintSessionToken(t, cfg, oldAccessID, time.Now().UTC().Add(-2*time.Hour))

	rotator := &testRotator{
		rotateFn: func(ctx context.Context, gotOld, provided string) (string, string, error) {
			if gotOld != oldAccessID {
				t.Fatalf("unexpected access id %s", gotOld)
			}
			if provided != "refresh-1" {
				t.Fatalf("unexpected refresh token %s", provided)
			}
			return newAccessID, "refresh-2", nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"refresh-1"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthRefresh(rotator, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data refreshResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.RefreshToken != "refresh-2" {
		t.Fatalf("unexpected refresh token %q", envelope.Data.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, envelope.Data.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != newAccessID {
		t.Fatalf("expected jti %s got %s", newAccessID, claims.ID)
	}
}

func TestAuthRefreshRejectsInvalidRefreshToken(t *testing.T) {
	cfg := sessionTestConfig()
	token := mintSessionToken(t, cfg, uuid.NewString(), time.Now().UTC())

	rotator := &testRotator{
		rotateFn: func(ctx context.Context, oldAccessID, provided string) (string, string, error) {
			return "", "", session.ErrInvalidRefreshToken
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"stale"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthRefresh(rotator, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	cfg := sessionTestConfig()
	accessID := uuid.NewString()
	token := mintSessionToken(t, cfg, accessID, time.Now().UTC())

	var revoked string
	rotator := &testRotator{
		revokeFn: func(ctx context.Context, id string) error {
			revoked = id
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthLogout(rotator, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if revoked != accessID {
		t.Fatalf("expected revoke of %s got %s", accessID, revoked)
	}
}

func TestAuthLogoutMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	AuthLogout(&testRotator{}, sessionTestConfig(), testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
