package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CODIGOCERTO_BACK-END/internal/dto"
)

func str(s string) *string { return &s }

func validSignup() dto.SignupRequest {
	return dto.SignupRequest{
		Name:         "Ana Silva",
		Email:        "ana@x.com",
		Phone:        str("+551199999999"),
		Country:      str("BR"),
		DesiredRole:  str("dev"),
		Availability: str("noites"),
		LinkedIn:     str("li/ana"),
		Kind:         "mentor",
	}
}

func TestValidatorAcceptsValidPayload(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Struct(validSignup()))

	req := validSignup()
	req.Kind = "volunteer"
	assert.NoError(t, v.Struct(req))
}

func TestValidatorAcceptsEmptyFreeText(t *testing.T) {
	req := validSignup()
	req.Country, req.LinkedIn, req.Phone = str(""), str(""), str("")

	assert.NoError(t, NewValidator().Struct(req))
}

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		mutate func(*dto.SignupRequest)
		want   string
	}{
		{"short name", func(r *dto.SignupRequest) { r.Name = "An" }, "nome: deve ter pelo menos 3 caracteres"},
		{"bad email", func(r *dto.SignupRequest) { r.Email = "not-an-email" }, "email: email inválido"},
		{"missing phone", func(r *dto.SignupRequest) { r.Phone = nil }, "telefone: campo obrigatório"},
		{"missing role", func(r *dto.SignupRequest) { r.DesiredRole = nil }, "funcaoPretendida: campo obrigatório"},
		{"unknown kind", func(r *dto.SignupRequest) { r.Kind = "admin" }, "tipo: deve ser um de: voluntario, volunteer, mentor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			err := v.Struct(req)
			if assert.Error(t, err) {
				assert.Equal(t, tt.want, err.Error())
			}
		})
	}
}

func TestValidatorJoinsMultipleFailures(t *testing.T) {
	err := NewValidator().Struct(dto.SignupRequest{Name: "Ana Silva", Email: "ana@x.com", Kind: "mentor"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "telefone: campo obrigatório")
		assert.Contains(t, err.Error(), "pais: campo obrigatório")
		assert.Contains(t, err.Error(), "; ")
	}
}
