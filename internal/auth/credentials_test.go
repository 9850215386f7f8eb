package auth_test

import (
	"encoding/base64"
	"testing"

	"github.com/dom/movie-catalog/internal/auth"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBasic(t *testing.T) {
	encode := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name         string
		raw          string
		wantEmail    string
		wantPassword string
		wantErr      bool
	}{
		{
			name:         "valid",
			raw:          "Basic " + encode("a@x.io:pw"),
			wantEmail:    "a@x.io",
			wantPassword: "pw",
		},
		{
			name:    "single token",
			raw:     "Basic",
			wantErr: true,
		},
		{
			name:    "three tokens",
			raw:     "Basic " + encode("a@x.io:pw") + " extra",
			wantErr: true,
		},
		{
			name:    "invalid base64",
			raw:     "Basic !!!not-base64",
			wantErr: true,
		},
		{
			name:    "no colon",
			raw:     "Basic " + encode("a@x.io"),
			wantErr: true,
		},
		{
			name:    "two colons",
			raw:     "Basic " + encode("a@x.io:pw:more"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, password, err := auth.DecodeBasic(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedCredential)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, email)
			assert.Equal(t, tt.wantPassword, password)
		})
	}
}

func TestDecodeBearer(t *testing.T) {
	token, err := auth.DecodeBearer("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = auth.DecodeBearer("abc.def.ghi")
	assert.ErrorIs(t, err, domain.ErrMalformedCredential)

	_, err = auth.DecodeBearer("Bearer a b")
	assert.ErrorIs(t, err, domain.ErrMalformedCredential)
}

func TestEncodeBasicRoundTrip(t *testing.T) {
	email, password, err := auth.DecodeBasic(auth.EncodeBasic("ada@example.com", "lovelace"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
	assert.Equal(t, "lovelace", password)
}
