// Package repo contains all database access logic for the trip planner.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here: only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlanRepo defines the persistence operations for Plans.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type PlanRepo interface {
	// Create inserts a new plan and returns the persisted record.
	Create(ctx context.Context, plan domain.Plan) (domain.Plan, error)

	// GetByID retrieves a single plan by its UUID primary key.
	// Returns domain.ErrNotFound if no plan with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error)

	// ListByOwner returns the plans owned by owner, newest first.
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.Plan, error)

	// Update applies the set fields of patch and returns the updated record.
	// Returns domain.ErrNotFound if no plan with that ID exists.
	Update(ctx context.Context, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error)

	// Delete removes a plan and, through ON DELETE CASCADE, all of its items.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPlanRepo is the Postgres implementation of PlanRepo.
type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a PlanRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

const planColumns = `id, name, owner, visibility, created_at, updated_at`

func (r *pgPlanRepo) Create(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	const q = `
		INSERT INTO plans (name, owner, visibility)
		VALUES (@name, @owner, @visibility)
		RETURNING ` + planColumns

	args := pgx.NamedArgs{
		"name":       plan.Name, // nil becomes NULL
		"owner":      plan.Owner,
		"visibility": string(plan.Visibility),
	}

	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	const q = `SELECT ` + planColumns + ` FROM plans WHERE id = @id`

	result, err := scanPlan(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.Plan, error) {
	const q = `
		SELECT ` + planColumns + `
		FROM plans
		WHERE owner = @owner
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner": owner})
	if err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListByOwner: %w", err)
	}
	plans, err := collect(rows, scanPlan)
	if err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListByOwner: %w", err)
	}
	return plans, nil
}

func (r *pgPlanRepo) Update(ctx context.Context, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
	const q = `
		UPDATE plans
		SET name       = COALESCE(@name, name),
		    visibility = COALESCE(@visibility, visibility),
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + planColumns

	var visibility *string
	if patch.Visibility != nil {
		v := string(*patch.Visibility)
		visibility = &v
	}
	args := pgx.NamedArgs{
		"id":         id,
		"name":       patch.Name,
		"visibility": visibility,
	}

	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM plans WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// collect drains rows through scan and closes them.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// notFound translates pgx.ErrNoRows into domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// scanPlan maps a single database row into a domain.Plan.
func scanPlan(s scanner) (domain.Plan, error) {
	var (
		p          domain.Plan
		id, owner  pgtype.UUID
		name       pgtype.Text
		visibility string
	)

	if err := s.Scan(&id, &name, &owner, &visibility, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Plan{}, notFound(err)
	}

	p.ID = uuid.UUID(id.Bytes)
	p.Owner = uuid.UUID(owner.Bytes)
	p.Visibility = domain.Visibility(visibility)
	if name.Valid {
		n := name.String
		p.Name = &n
	}
	return p, nil
}
