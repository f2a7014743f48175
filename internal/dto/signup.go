package dto

// SignupRequest represents the volunteer/mentor sign-up form payload.
// The free-text fields are pointers: they must be present but may be empty.
type SignupRequest struct {
	Name         string  `json:"nome" validate:"required,min=3"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        *string `json:"telefone" validate:"required"`
	Country      *string `json:"pais" validate:"required"`
	DesiredRole  *string `json:"funcaoPretendida" validate:"required"`
	Availability *string `json:"disponibilidade" validate:"required"`
	LinkedIn     *string `json:"linkedin" validate:"required"`
	Lead         *bool   `json:"liderar,omitempty"`
	Kind         string  `json:"tipo" validate:"required,oneof=voluntario volunteer mentor"`
	Experience   *string `json:"experiencia,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
