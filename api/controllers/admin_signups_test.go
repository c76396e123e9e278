package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/santai-app/santai-backend/internal/signups"
	"github.com/santai-app/santai-backend/pkg/enums"
	"github.com/santai-app/santai-backend/pkg/pagination"
)

func TestAdminListSignupsParsesQuery(t *testing.T) {
	var capturedStatus enums.SignupStatus
	var capturedParams pagination.Params
	svc := &testSignupsService{
		listByStatusFn: func(ctx context.Context, status enums.SignupStatus, params pagination.Params) (*signups.SignupListResult, error) {
			capturedStatus = status
			capturedParams = params
			return &signups.SignupListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/signups?status=awaiting_payment&limit=10&cursor=abc", nil)
	resp := httptest.NewRecorder()
	AdminListSignups(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if capturedStatus != enums.SignupStatusAwaitingPayment {
		t.Fatalf("unexpected status %s", capturedStatus)
	}
	if capturedParams.Limit != 10 || capturedParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", capturedParams)
	}
}

func TestAdminListSignupsRejectsBadStatus(t *testing.T) {
	for _, query := range []string{"", "status=ghost"} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/signups?"+query, nil)
		resp := httptest.NewRecorder()
		AdminListSignups(&testSignupsService{}, testLogger())(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400 got %d", query, resp.Code)
		}
	}
}

func TestAdminSignupDetail(t *testing.T) {
	signupID := uuid.New()
	svc := &testSignupsService{
		adminDetailFn: func(ctx context.Context, id uuid.UUID) (*signups.AdminSignupDetail, error) {
			if id != signupID {
				t.Fatalf("unexpected signup %s", id)
			}
			return &signups.AdminSignupDetail{
				Signup:      signups.SignupDTO{ID: id},
				Submissions: []signups.SubmissionDTO{{ID: uuid.New()}},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/signups/"+signupID.String(), nil)
	req = addRouteParam(req, "signupId", signupID.String())
	resp := httptest.NewRecorder()
	AdminSignupDetail(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
