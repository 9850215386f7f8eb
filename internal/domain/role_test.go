package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Meets(t *testing.T) {
	tests := []struct {
		role     domain.Role
		required domain.Role
		want     bool
	}{
		{domain.RoleUser, domain.RoleUser, true},
		{domain.RoleUser, domain.RolePaidUser, false},
		{domain.RoleUser, domain.RoleAdmin, false},
		{domain.RolePaidUser, domain.RoleUser, true},
		{domain.RolePaidUser, domain.RoleAdmin, false},
		{domain.RoleAdmin, domain.RoleUser, true},
		{domain.RoleAdmin, domain.RolePaidUser, true},
		{domain.RoleAdmin, domain.RoleAdmin, true},
		{domain.Role(7), domain.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+"/"+tt.required.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Meets(tt.required))
		})
	}
}

func TestRole_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Role domain.Role `json:"role"`
	}{domain.RolePaidUser})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"paidUser"}`, string(data))

	var decoded struct {
		Role domain.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"admin"}`), &decoded))
	assert.Equal(t, domain.RoleAdmin, decoded.Role)

	err = json.Unmarshal([]byte(`{"role":"superuser"}`), &decoded)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
