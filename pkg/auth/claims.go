package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID  `json:"user_id"`
	Email  string     `json:"email"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshTokenClaims carries only enough to re-identify the account.
type RefreshTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
