package auth

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dom/movie-catalog/internal/domain"
)

// DecodeBasic parses an "Authorization: Basic <base64(email:password)>" value.
func DecodeBasic(raw string) (email, password string, err error) {
	encoded, err := secondToken(raw)
	if err != nil {
		return "", "", err
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid base64 payload", domain.ErrMalformedCredential)
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected email:password", domain.ErrMalformedCredential)
	}

	return parts[0], parts[1], nil
}

// DecodeBearer returns the signed token from an "Authorization: Bearer <token>"
// value without verifying it.
func DecodeBearer(raw string) (string, error) {
	return secondToken(raw)
}

func secondToken(raw string) (string, error) {
	parts := strings.Split(raw, " ")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: expected two space separated tokens", domain.ErrMalformedCredential)
	}
	return parts[1], nil
}

// EncodeBasic builds the header value DecodeBasic accepts.
func EncodeBasic(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}
