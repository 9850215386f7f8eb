package domain

import "errors"

// Credential and token errors
var (
	ErrMalformedCredential = errors.New("malformed credential")
	ErrAlreadyRegistered   = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidSignature    = errors.New("invalid token signature")
	ErrTokenExpired        = errors.New("token expired")
	ErrKindMismatch        = errors.New("token kind mismatch")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidRole         = errors.New("invalid role")
	ErrUserNotFound        = errors.New("user not found")
)

// Catalog errors
var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrDirectorNotFound = errors.New("director not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrMovieTitleExists = errors.New("movie title already exists")
	ErrGenreNameExists  = errors.New("genre name already exists")
	ErrDirectorInUse    = errors.New("director is referenced by movies")
)
