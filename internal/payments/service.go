package payments

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	pkgerrors "github.com/santai-app/santai-backend/pkg/errors"
)

var allowedProofMimeTypes = []string{"image/png", "image/jpeg", "image/webp", "application/pdf"}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	ObjectURL(bucket, object string) string
}

// Service issues signed URLs for payment proof objects. Review verdicts
// live on the signup workflow; this surface only touches storage.
type Service interface {
	PresignProofUpload(ctx context.Context, signupID uuid.UUID, input PresignInput) (*PresignOutput, error)
	ProofReadURL(ctx context.Context, proofKey string) (string, error)
}

type service struct {
	gcs       gcsClient
	bucket    string
	uploadTTL time.Duration
	maxBytes  int64
}

// NewService constructs a payments service backed by the provided GCS signer.
func NewService(gcsClient gcsClient, bucket string, uploadTTL time.Duration, maxUploadMB int) (Service, error) {
	if gcsClient == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		gcs:       gcsClient,
		bucket:    bucket,
		uploadTTL: uploadTTL,
		maxBytes:  int64(maxUploadMB) * 1024 * 1024,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	MimeType  string
	FileName  string
	SizeBytes int64
}

// PresignOutput contains the data returned to the client for uploading a proof.
type PresignOutput struct {
	ProofKey     string    `json:"proof_key"`
	ProofURL     string    `json:"proof_url"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *service) PresignProofUpload(ctx context.Context, signupID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup identity missing")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be ≤ %d bytes", s.maxBytes))
	}

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedProofMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for payment proofs")
	}

	proofKey := buildProofKey(signupID, fileName)
	expiresAt := time.Now().Add(s.uploadTTL)

	signedURL, err := s.gcs.SignedURL(s.bucket, proofKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ProofKey:     proofKey,
		ProofURL:     s.gcs.ObjectURL(s.bucket, proofKey),
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

// ProofReadURL signs a short-lived download link for a stored proof.
// Accepts either the bare object key or the full object URL that
// submissions persist.
func (s *service) ProofReadURL(ctx context.Context, proofKey string) (string, error) {
	key := strings.TrimSpace(proofKey)
	key = strings.TrimPrefix(key, s.gcs.ObjectURL(s.bucket, ""))
	if key == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "proof key required")
	}
	signed, err := s.gcs.SignedReadURL(s.bucket, key, s.uploadTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign read url")
	}
	return signed, nil
}

func isAllowedProofMime(mimeType string) bool {
	for _, candidate := range allowedProofMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func buildProofKey(signupID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = uuid.NewString()
	}
	return fmt.Sprintf("proofs/%s/%s", signupID.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
