package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Upsert inserts a user keyed by GoogleSubject, or refreshes the email and
	// name of the existing row. Returns the persisted record.
	Upsert(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a user by primary key.
	// Returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, google_subject, email, name, created_at, updated_at`

func (r *pgUserRepo) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (google_subject, email, name)
		VALUES (@google_subject, @email, @name)
		ON CONFLICT (google_subject) DO UPDATE
		SET email      = EXCLUDED.email,
		    name       = EXCLUDED.name,
		    updated_at = now()
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"google_subject": user.GoogleSubject,
		"email":          user.Email,
		"name":           user.Name,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)
	if err := s.Scan(&id, &u.GoogleSubject, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, notFound(err)
	}
	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}
