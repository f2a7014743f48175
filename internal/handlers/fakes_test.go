package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"CODIGOCERTO_BACK-END/internal/emails"
	"CODIGOCERTO_BACK-END/internal/models"
	"CODIGOCERTO_BACK-END/internal/repository"
)

// memStore is an in-memory repository.Store enforcing the same unique keys as the SQL schemas
type memStore struct {
	mu         sync.Mutex
	applicants []models.Applicant

	findErr   error
	createErr error
	setErr    error
	listErr   error
	pingErr   error

	lastFilter repository.ListFilter
}

var _ repository.Store = (*memStore)(nil)

func (s *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *memStore) FindUserByPhone(_ context.Context, phone string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Phone == phone })
}

func (s *memStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, a := range s.applicants {
		if match(a.User) {
			u := a.User
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) CreateApplicant(_ context.Context, user *models.User, info *models.UserInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, a := range s.applicants {
		switch {
		case a.User.Email == user.Email:
			return repository.ErrDuplicateEmail
		case a.User.Phone == user.Phone:
			return repository.ErrDuplicatePhone
		}
	}

	now := time.Now().UTC()
	user.ID, user.Newsletter, user.CreatedAt = uuid.New(), true, now
	info.ID, info.UserID, info.CreatedAt = uuid.New(), user.ID, now
	s.applicants = append(s.applicants, models.Applicant{User: *user, Info: *info})
	return nil
}

func (s *memStore) SetNewsletter(_ context.Context, email string, subscribed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	for i := range s.applicants {
		if s.applicants[i].User.Email == email {
			s.applicants[i].User.Newsletter = subscribed
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memStore) ListApplicants(_ context.Context, filter repository.ListFilter) ([]models.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []models.Applicant{}
	for i := len(s.applicants) - 1; i >= 0; i-- {
		a := s.applicants[i]
		if filter.Kind != "" && a.Kind() != filter.Kind {
			continue
		}
		out = append(out, a)
	}
	if filter.Offset >= len(out) {
		return []models.Applicant{}, nil
	}
	out = out[filter.Offset:]
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memStore) Migrate(context.Context) error { return nil }
func (s *memStore) Ping(context.Context) error    { return s.pingErr }
func (s *memStore) Close()                        {}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applicants)
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []models.Applicant
	err      error
}

func (n *fakeNotifier) NotifyAdmin(_ context.Context, a models.Applicant) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, a)
	return nil
}

type failingRenderer struct {
	err error
}

func (r failingRenderer) Render(models.Kind, emails.View) (string, string, error) {
	return "", "", r.err
}
