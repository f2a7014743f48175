package dto

import (
	"time"

	"CODIGOCERTO_BACK-END/internal/models"
)

// AdminLoginRequest represents the admin login payload
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse carries the admin bearer token
type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn string `json:"expires_in"`
}

// ApplicantResponse is one row of the admin applicant listing
type ApplicantResponse struct {
	ID            string `json:"id"`
	Name          string `json:"nome"`
	Email         string `json:"email"`
	Phone         string `json:"telefone"`
	Country       string `json:"pais"`
	DesiredRole   string `json:"funcaoPretendida"`
	Availability  string `json:"disponibilidade"`
	LinkedIn      string `json:"linkedin"`
	WillingToLead bool   `json:"liderar"`
	Kind          string `json:"tipo"`
	Experience    string `json:"experiencia"`
	Newsletter    bool   `json:"newsletter"`
	CreatedAt     string `json:"created_at"`
}

// ApplicantsPagination describes the page returned by the listing
type ApplicantsPagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ApplicantsListResponse represents the admin applicant listing
type ApplicantsListResponse struct {
	Applicants []ApplicantResponse  `json:"applicants"`
	Pagination ApplicantsPagination `json:"pagination"`
}

// NewApplicantResponse flattens a stored applicant into its API representation
func NewApplicantResponse(a models.Applicant) ApplicantResponse {
	return ApplicantResponse{
		ID:            a.User.ID.String(),
		Name:          a.User.Name,
		Email:         a.User.Email,
		Phone:         a.User.Phone,
		Country:       a.Info.Country,
		DesiredRole:   a.Info.DesiredRole,
		Availability:  a.Info.Availability,
		LinkedIn:      a.Info.LinkedIn,
		WillingToLead: a.Info.WillingToLead,
		Kind:          string(a.Kind()),
		Experience:    a.Info.Experience,
		Newsletter:    a.User.Newsletter,
		CreatedAt:     a.User.CreatedAt.UTC().Format(time.RFC3339),
	}
}
