package repository

import (
	"context"
	"errors"

	"CODIGOCERTO_BACK-END/internal/models"
)

var (
	// ErrNotFound is returned when no identity matches the lookup
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the email unique constraint rejects an insert
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicatePhone is returned when the phone unique constraint rejects an insert
	ErrDuplicatePhone = errors.New("phone already registered")
)

// ListFilter narrows the admin applicant listing
type ListFilter struct {
	Kind   models.Kind
	Limit  int
	Offset int
}

// Store is the persistence collaborator of the sign-up flow
type Store interface {
	// FindUserByEmail returns ErrNotFound when no identity has the email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// FindUserByPhone returns ErrNotFound when no identity has the phone.
	FindUserByPhone(ctx context.Context, phone string) (*models.User, error)
	// CreateApplicant inserts the identity and its profile in one transaction.
	// IDs and timestamps are filled in on success.
	CreateApplicant(ctx context.Context, user *models.User, info *models.UserInfo) error

	SetNewsletter(ctx context.Context, email string, subscribed bool) error
	ListApplicants(ctx context.Context, filter ListFilter) ([]models.Applicant, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}
