package domain

import "time"

// TokenKind tags a signed token as either an access or a refresh credential.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

func (k TokenKind) IsValid() bool {
	return k == TokenAccess || k == TokenRefresh
}

// TokenPayload is what a verified token carries. It is never persisted.
type TokenPayload struct {
	Subject   uint      `json:"sub"`
	Role      Role      `json:"role"`
	Kind      TokenKind `json:"type"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenPair is returned on login
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
