package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/santai-app/santai-backend/api/middleware"
	"github.com/santai-app/santai-backend/internal/payments"
	"github.com/santai-app/santai-backend/internal/signups"
	pkgerrors "github.com/santai-app/santai-backend/pkg/errors"
	"github.com/santai-app/santai-backend/pkg/pagination"
)

type testPaymentsService struct {
	presignFn func(ctx context.Context, signupID uuid.UUID, input payments.PresignInput) (*payments.PresignOutput, error)
	readURLFn func(ctx context.Context, proofKey string) (string, error)
}

func (s *testPaymentsService) PresignProofUpload(ctx context.Context, signupID uuid.UUID, input payments.PresignInput) (*payments.PresignOutput, error) {
	if s.presignFn != nil {
		return s.presignFn(ctx, signupID, input)
	}
	return &payments.PresignOutput{}, nil
}

func (s *testPaymentsService) ProofReadURL(ctx context.Context, proofKey string) (string, error) {
	if s.readURLFn != nil {
		return s.readURLFn(ctx, proofKey)
	}
	return "", nil
}

func TestAdminApprovePaymentUsesActorFromContext(t *testing.T) {
	adminID := uuid.New()
	submissionID := uuid.New()
	called := false
	svc := &testSignupsService{
		approveFn: func(ctx context.Context, sid, aid uuid.UUID) error {
			called = true
			if sid != submissionID {
				t.Fatalf("unexpected submission %s", sid)
			}
			if aid != adminID {
				t.Fatalf("unexpected admin %s", aid)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/payments/"+submissionID.String()+"/approve", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), adminID.String()))
	req = addRouteParam(req, "submissionId", submissionID.String())

	resp := httptest.NewRecorder()
	AdminApprovePayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestAdminApprovePaymentMissingActor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/payments/"+uuid.NewString()+"/approve", nil)
	req = addRouteParam(req, "submissionId", uuid.NewString())
	resp := httptest.NewRecorder()
	AdminApprovePayment(&testSignupsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminRejectPaymentRequiresReason(t *testing.T) {
	adminID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/payments/"+uuid.NewString()+"/reject", strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), adminID.String()))
	req = addRouteParam(req, "submissionId", uuid.NewString())
	resp := httptest.NewRecorder()
	AdminRejectPayment(&testSignupsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminRejectPaymentPassesReason(t *testing.T) {
	adminID := uuid.New()
	submissionID := uuid.New()
	var captured string
	svc := &testSignupsService{
		rejectFn: func(ctx context.Context, sid, aid uuid.UUID, reason string) error {
			captured = reason
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/payments/"+submissionID.String()+"/reject", strings.NewReader(`{"reason":"proof unreadable"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), adminID.String()))
	req = addRouteParam(req, "submissionId", submissionID.String())
	resp := httptest.NewRecorder()
	AdminRejectPayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured != "proof unreadable" {
		t.Fatalf("unexpected reason %q", captured)
	}
}

func TestAdminPendingPaymentsParsesQuery(t *testing.T) {
	var captured pagination.Params
	svc := &testSignupsService{
		pendingFn: func(ctx context.Context, params pagination.Params) (*signups.PendingPaymentsResult, error) {
			captured = params
			return &signups.PendingPaymentsResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payments/pending?limit=10&cursor=abc", nil)
	resp := httptest.NewRecorder()
	AdminPendingPayments(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.Limit != 10 {
		t.Fatalf("unexpected limit %d", captured.Limit)
	}
	if captured.Cursor != "abc" {
		t.Fatalf("unexpected cursor %q", captured.Cursor)
	}
}

func TestAdminPendingPaymentsRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payments/pending?limit=zero", nil)
	resp := httptest.NewRecorder()
	AdminPendingPayments(&testSignupsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminPaymentProofURLSignsStoredProof(t *testing.T) {
	submissionID := uuid.New()
	stored := "https://storage.googleapis.com/proof-bucket/proofs/x/proof.png"
	signupSvc := &testSignupsService{
		submissionFn: func(ctx context.Context, id uuid.UUID) (*signups.SubmissionDTO, error) {
			if id != submissionID {
				t.Fatalf("unexpected submission %s", id)
			}
			return &signups.SubmissionDTO{ID: id, ProofURL: stored}, nil
		},
	}
	paymentSvc := &testPaymentsService{
		readURLFn: func(ctx context.Context, proofKey string) (string, error) {
			if proofKey != stored {
				t.Fatalf("unexpected proof key %q", proofKey)
			}
			return "https://signed.example/get", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payments/"+submissionID.String()+"/proof-url", nil)
	req = addRouteParam(req, "submissionId", submissionID.String())
	resp := httptest.NewRecorder()
	AdminPaymentProofURL(signupSvc, paymentSvc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "https://signed.example/get") {
		t.Fatalf("expected signed url in body, got %s", resp.Body.String())
	}
}

func TestAdminPaymentProofURLUnknownSubmission(t *testing.T) {
	signupSvc := &testSignupsService{
		submissionFn: func(ctx context.Context, id uuid.UUID) (*signups.SubmissionDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payments/"+uuid.NewString()+"/proof-url", nil)
	req = addRouteParam(req, "submissionId", uuid.NewString())
	resp := httptest.NewRecorder()
	AdminPaymentProofURL(signupSvc, &testPaymentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminDeactivateSignupPassesReason(t *testing.T) {
	signupID := uuid.New()
	var captured string
	svc := &testSignupsService{
		deactivateFn: func(ctx context.Context, id uuid.UUID, reason string) error {
			if id != signupID {
				t.Fatalf("unexpected signup %s", id)
			}
			captured = reason
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/signups/"+signupID.String()+"/deactivate", strings.NewReader(`{"reason":"fraudulent profile"}`))
	req = addRouteParam(req, "signupId", signupID.String())
	resp := httptest.NewRecorder()
	AdminDeactivateSignup(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured != "fraudulent profile" {
		t.Fatalf("unexpected reason %q", captured)
	}
}
