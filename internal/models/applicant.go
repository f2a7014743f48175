package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the applicant category chosen on the sign-up form
type Kind string

const (
	KindVolunteer Kind = "voluntario"
	KindMentor    Kind = "mentor"
)

// NoExperience is stored when the applicant leaves the experience field empty
const NoExperience = "Nenhuma informada"

// ParseKind maps the form value to a Kind. "volunteer" is accepted as an alias of "voluntario".
func ParseKind(s string) (Kind, bool) {
	switch s {
	case string(KindVolunteer), "volunteer":
		return KindVolunteer, true
	case string(KindMentor):
		return KindMentor, true
	}
	return "", false
}

// User is the identity row (table users)
type User struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"nome" db:"name"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"telefone" db:"phone"`
	Newsletter bool      `json:"newsletter" db:"newsletter"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// UserInfo is the profile row (table user_infos), linked 1:1 to a User
type UserInfo struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Country       string    `json:"pais" db:"country"`
	DesiredRole   string    `json:"funcaoPretendida" db:"desired_role"`
	Availability  string    `json:"disponibilidade" db:"availability"`
	LinkedIn      string    `json:"linkedin" db:"linkedin"`
	WillingToLead bool      `json:"liderar" db:"willing_to_lead"`
	IsMentor      bool      `json:"mentor" db:"is_mentor"`
	Experience    string    `json:"experiencia" db:"experience"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Applicant is an identity together with its profile
type Applicant struct {
	User User     `json:"user"`
	Info UserInfo `json:"info"`
}

// Kind derives the applicant kind from the stored profile
func (a Applicant) Kind() Kind {
	if a.Info.IsMentor {
		return KindMentor
	}
	return KindVolunteer
}
