package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/santai-app/santai-backend/pkg/errors"
)

type stubGCS struct {
	signedPUT  string
	signedGET  string
	signErr    error
	lastObject string
	lastMime   string
}

func (s *stubGCS) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	s.lastObject = object
	s.lastMime = contentType
	if s.signErr != nil {
		return "", s.signErr
	}
	return s.signedPUT, nil
}

func (s *stubGCS) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	s.lastObject = object
	if s.signErr != nil {
		return "", s.signErr
	}
	return s.signedGET, nil
}

func (s *stubGCS) ObjectURL(bucket, object string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + object
}

func newTestService(t *testing.T, gcs *stubGCS) Service {
	t.Helper()
	svc, err := NewService(gcs, "proof-bucket", 15*time.Minute, 10)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestPresignProofUpload(t *testing.T) {
	gcs := &stubGCS{signedPUT: "https://signed.example/put"}
	svc := newTestService(t, gcs)

	signupID := uuid.New()
	out, err := svc.PresignProofUpload(context.Background(), signupID, PresignInput{
		MimeType:  "image/png",
		FileName:  "bank transfer.png",
		SizeBytes: 2048,
	})
	if err != nil {
		t.Fatalf("PresignProofUpload returned error: %v", err)
	}
	if out.SignedPUTURL != "https://signed.example/put" {
		t.Fatalf("unexpected signed url %q", out.SignedPUTURL)
	}
	if !strings.HasPrefix(out.ProofKey, "proofs/"+signupID.String()+"/") {
		t.Fatalf("unexpected proof key %q", out.ProofKey)
	}
	if strings.Contains(out.ProofKey, " ") {
		t.Fatalf("proof key should not contain spaces: %q", out.ProofKey)
	}
	if gcs.lastMime != "image/png" {
		t.Fatalf("unexpected mime forwarded to signer: %q", gcs.lastMime)
	}
	if !strings.HasSuffix(out.ProofURL, out.ProofKey) {
		t.Fatalf("proof url %q should contain the key", out.ProofURL)
	}
}

func TestPresignProofUploadValidation(t *testing.T) {
	svc := newTestService(t, &stubGCS{signedPUT: "x"})

	cases := []struct {
		name  string
		id    uuid.UUID
		input PresignInput
	}{
		{"missing signup", uuid.Nil, PresignInput{MimeType: "image/png", FileName: "a.png", SizeBytes: 1}},
		{"missing file name", uuid.New(), PresignInput{MimeType: "image/png", SizeBytes: 1}},
		{"zero size", uuid.New(), PresignInput{MimeType: "image/png", FileName: "a.png"}},
		{"oversized", uuid.New(), PresignInput{MimeType: "image/png", FileName: "a.png", SizeBytes: 11 * 1024 * 1024}},
		{"missing mime", uuid.New(), PresignInput{FileName: "a.png", SizeBytes: 1}},
		{"disallowed mime", uuid.New(), PresignInput{MimeType: "video/mp4", FileName: "a.mp4", SizeBytes: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PresignProofUpload(context.Background(), tc.id, tc.input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestProofReadURL(t *testing.T) {
	gcs := &stubGCS{signedGET: "https://signed.example/get"}
	svc := newTestService(t, gcs)

	url, err := svc.ProofReadURL(context.Background(), "proofs/x/y.png")
	if err != nil {
		t.Fatalf("ProofReadURL returned error: %v", err)
	}
	if url != "https://signed.example/get" {
		t.Fatalf("unexpected url %q", url)
	}

	if _, err := svc.ProofReadURL(context.Background(), "  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty key, got %v", err)
	}
}

func TestProofReadURLAcceptsStoredObjectURL(t *testing.T) {
	gcs := &stubGCS{signedGET: "https://signed.example/get"}
	svc := newTestService(t, gcs)

	stored := gcs.ObjectURL("proof-bucket", "proofs/x/y.png")
	url, err := svc.ProofReadURL(context.Background(), stored)
	if err != nil {
		t.Fatalf("ProofReadURL returned error: %v", err)
	}
	if url != "https://signed.example/get" {
		t.Fatalf("unexpected url %q", url)
	}
	if gcs.lastObject != "proofs/x/y.png" {
		t.Fatalf("expected bare object key forwarded to signer, got %q", gcs.lastObject)
	}
}
