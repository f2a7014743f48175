package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"CODIGOCERTO_BACK-END/internal/config"
	"CODIGOCERTO_BACK-END/internal/models"
)

//go:embed schema/postgres.sql
var postgresSchema string

const pgUniqueViolation = "23505"

// PgxPool is the subset of *pgxpool.Pool used by PostgresStore
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on top of a pgx pool
type PostgresStore struct {
	db PgxPool
}

// NewPostgresStore creates a new PostgresStore instance
func NewPostgresStore(db PgxPool) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres builds a pgx pool from the database configuration and pings it
func OpenPostgres(ctx context.Context, dsn string, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// simple protocol keeps us compatible with PgBouncer in transaction mode
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "codigocerto-cadastro"
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.QueryTimeout.Milliseconds(), 10)
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

// Migrate applies the embedded schema
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email", email)
}

func (s *PostgresStore) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findUser(ctx, "phone", phone)
}

// findUser looks a user up by one of its unique columns. column is never user input.
func (s *PostgresStore) findUser(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, phone, newsletter, created_at FROM users WHERE `+column+` = $1`,
		value).Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Newsletter, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}

	return &user, nil
}

func (s *PostgresStore) CreateApplicant(ctx context.Context, user *models.User, info *models.UserInfo) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (name, email, phone) VALUES ($1, $2, $3)
		 RETURNING id, newsletter, created_at`,
		user.Name, user.Email, user.Phone).Scan(&user.ID, &user.Newsletter, &user.CreatedAt)
	if err != nil {
		return classifyPgError(fmt.Errorf("insert user: %w", err))
	}

	info.UserID = user.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO user_infos (user_id, country, desired_role, availability, linkedin,
		 willing_to_lead, is_mentor, experience)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		info.UserID, info.Country, info.DesiredRole, info.Availability, info.LinkedIn,
		info.WillingToLead, info.IsMentor, info.Experience).Scan(&info.ID, &info.CreatedAt)
	if err != nil {
		return classifyPgError(fmt.Errorf("insert user info: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetNewsletter(ctx context.Context, email string, subscribed bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET newsletter = $1 WHERE email = $2`, subscribed, email)
	if err != nil {
		return fmt.Errorf("update newsletter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListApplicants(ctx context.Context, filter ListFilter) ([]models.Applicant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.name, u.email, u.phone, u.newsletter, u.created_at,
		 i.id, i.user_id, i.country, i.desired_role, i.availability, i.linkedin,
		 i.willing_to_lead, i.is_mentor, i.experience, i.created_at
		 FROM users u JOIN user_infos i ON i.user_id = u.id
		 WHERE ($1::boolean IS NULL OR i.is_mentor = $1)
		 ORDER BY u.created_at DESC
		 LIMIT $2 OFFSET $3`,
		mentorFilter(filter.Kind), filter.Limit, filter.Offset)
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

// classifyPgError maps unique violations on users to the duplicate sentinels
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return ErrDuplicateEmail
		case "users_phone_key":
			return ErrDuplicatePhone
		}
	}
	return err
}

func mentorFilter(kind models.Kind) *bool {
	if kind == "" {
		return nil
	}
	isMentor := kind == models.KindMentor
	return &isMentor
}
