package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"CODIGOCERTO_BACK-END/internal/models"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// SQLiteStore implements Store on a local SQLite file, used for development
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the SQLite database at path with foreign keys enabled
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}

func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email", email)
}

func (s *SQLiteStore) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findUser(ctx, "phone", phone)
}

func (s *SQLiteStore) findUser(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, newsletter, created_at FROM users WHERE `+column+` = ?`,
		value).Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Newsletter, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}

	return &user, nil
}

func (s *SQLiteStore) CreateApplicant(ctx context.Context, user *models.User, info *models.UserInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	userID := uuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, name, email, phone, newsletter, created_at) VALUES (?, ?, ?, ?, 1, ?)`,
		userID, user.Name, user.Email, user.Phone, now)
	if err != nil {
		return classifySQLiteError(fmt.Errorf("insert user: %w", err))
	}

	infoID := uuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_infos (id, user_id, country, desired_role, availability, linkedin,
		 willing_to_lead, is_mentor, experience, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		infoID, userID, info.Country, info.DesiredRole, info.Availability, info.LinkedIn,
		info.WillingToLead, info.IsMentor, info.Experience, now)
	if err != nil {
		return classifySQLiteError(fmt.Errorf("insert user info: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	user.ID, user.Newsletter, user.CreatedAt = userID, true, now
	info.ID, info.UserID, info.CreatedAt = infoID, userID, now
	return nil
}

func (s *SQLiteStore) SetNewsletter(ctx context.Context, email string, subscribed bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET newsletter = ? WHERE email = ?`, subscribed, email)
	if err != nil {
		return fmt.Errorf("update newsletter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update newsletter: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListApplicants(ctx context.Context, filter ListFilter) ([]models.Applicant, error) {
	isMentor := mentorFilter(filter.Kind)
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.phone, u.newsletter, u.created_at,
		 i.id, i.user_id, i.country, i.desired_role, i.availability, i.linkedin,
		 i.willing_to_lead, i.is_mentor, i.experience, i.created_at
		 FROM users u JOIN user_infos i ON i.user_id = u.id
		 WHERE (? IS NULL OR i.is_mentor = ?)
		 ORDER BY u.created_at DESC
		 LIMIT ? OFFSET ?`,
		isMentor, isMentor, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	applicants := []models.Applicant{}
	for rows.Next() {
		var a models.Applicant
		if err := rows.Scan(
			&a.User.ID, &a.User.Name, &a.User.Email, &a.User.Phone, &a.User.Newsletter, &a.User.CreatedAt,
			&a.Info.ID, &a.Info.UserID, &a.Info.Country, &a.Info.DesiredRole, &a.Info.Availability,
			&a.Info.LinkedIn, &a.Info.WillingToLead, &a.Info.IsMentor, &a.Info.Experience, &a.Info.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		applicants = append(applicants, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applicants: %w", err)
	}

	return applicants, nil
}

// classifySQLiteError maps UNIQUE failures on users to the duplicate sentinels.
// SQLite reports the offending column as "UNIQUE constraint failed: users.email".
func classifySQLiteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "users.email"):
			return ErrDuplicateEmail
		case strings.Contains(msg, "users.phone"):
			return ErrDuplicatePhone
		}
	}
	return err
}
