package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/santai-app/santai-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
// JTI doubles as the Redis session identifier; when empty a random one
// is generated.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Role     enums.ActorRole
	SignupID *uuid.UUID
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID       `json:"user_id"`
	Role     enums.ActorRole `json:"role"`
	SignupID *uuid.UUID      `json:"signup_id,omitempty"`
	jwt.RegisteredClaims
}
