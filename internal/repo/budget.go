package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// pgBudgetRepo is the Postgres implementation of BudgetRepo.
type pgBudgetRepo struct {
	db db
}

// NewBudgetRepo constructs a BudgetRepo backed by the provided db connection.
func NewBudgetRepo(db db) BudgetRepo {
	return &pgBudgetRepo{db: db}
}

// estimated and actual are NUMERIC in the table; the casts keep the
// float64 mapping in one place.
const budgetColumns = `id, plan_id, category, item, estimated::float8, actual::float8, paid, created_at, updated_at`

func (r *pgBudgetRepo) Create(ctx context.Context, item domain.BudgetItem) (domain.BudgetItem, error) {
	const q = `
		INSERT INTO budget_items (plan_id, category, item, estimated, actual, paid)
		VALUES (@plan_id, @category, @item, @estimated, @actual, @paid)
		RETURNING ` + budgetColumns

	args := pgx.NamedArgs{
		"plan_id":   item.PlanID,
		"category":  string(item.Category),
		"item":      item.Item,
		"estimated": item.Estimated,
		"actual":    item.Actual,
		"paid":      item.Paid,
	}

	result, err := scanBudget(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.BudgetItem{}, fmt.Errorf("repo.BudgetRepo.Create: %w", err)
	}
	return result, nil
}

// ListByPlan returns budget lines in creation order.
func (r *pgBudgetRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.BudgetItem, error) {
	const q = `
		SELECT ` + budgetColumns + `
		FROM budget_items
		WHERE plan_id = @plan_id
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("repo.BudgetRepo.ListByPlan: %w", err)
	}
	items, err := collect(rows, scanBudget)
	if err != nil {
		return nil, fmt.Errorf("repo.BudgetRepo.ListByPlan: %w", err)
	}
	return items, nil
}

func (r *pgBudgetRepo) Update(ctx context.Context, planID, id uuid.UUID, patch domain.BudgetPatch) (domain.BudgetItem, error) {
	const q = `
		UPDATE budget_items
		SET category   = COALESCE(@category, category),
		    item       = COALESCE(@item, item),
		    estimated  = COALESCE(@estimated, estimated),
		    actual     = COALESCE(@actual, actual),
		    paid       = COALESCE(@paid, paid),
		    updated_at = now()
		WHERE id = @id AND plan_id = @plan_id
		RETURNING ` + budgetColumns

	var category *string
	if patch.Category != nil {
		c := string(*patch.Category)
		category = &c
	}
	args := namedIDs(planID, id)
	args["category"] = category
	args["item"] = patch.Item
	args["estimated"] = patch.Estimated
	args["actual"] = patch.Actual
	args["paid"] = patch.Paid

	result, err := scanBudget(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.BudgetItem{}, fmt.Errorf("repo.BudgetRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgBudgetRepo) Delete(ctx context.Context, planID, id uuid.UUID) error {
	if err := deleteScoped(ctx, r.db, "budget_items", planID, id); err != nil {
		return fmt.Errorf("repo.BudgetRepo.Delete: %w", err)
	}
	return nil
}

func scanBudget(s scanner) (domain.BudgetItem, error) {
	var (
		b          domain.BudgetItem
		id, planID pgtype.UUID
		category   string
		actual     pgtype.Float8
	)

	err := s.Scan(&id, &planID, &category, &b.Item, &b.Estimated, &actual,
		&b.Paid, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.BudgetItem{}, notFound(err)
	}

	b.ID = uuid.UUID(id.Bytes)
	b.PlanID = uuid.UUID(planID.Bytes)
	b.Category = domain.BudgetCategory(category)
	if actual.Valid {
		a := actual.Float64
		b.Actual = &a
	}
	return b, nil
}
