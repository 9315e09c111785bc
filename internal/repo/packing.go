package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// pgPackingRepo is the Postgres implementation of PackingRepo.
type pgPackingRepo struct {
	db db
}

// NewPackingRepo constructs a PackingRepo backed by the provided db connection.
func NewPackingRepo(db db) PackingRepo {
	return &pgPackingRepo{db: db}
}

const packingColumns = `id, plan_id, item, category, packed, created_at, updated_at`

func (r *pgPackingRepo) Create(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error) {
	const q = `
		INSERT INTO packing_items (plan_id, item, category, packed)
		VALUES (@plan_id, @item, @category, @packed)
		RETURNING ` + packingColumns

	args := pgx.NamedArgs{
		"plan_id":  item.PlanID,
		"item":     item.Item,
		"category": string(item.Category),
		"packed":   item.Packed,
	}

	result, err := scanPacking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("repo.PackingRepo.Create: %w", err)
	}
	return result, nil
}

// ListByPlan returns packing entries in creation order.
func (r *pgPackingRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.PackingItem, error) {
	const q = `
		SELECT ` + packingColumns + `
		FROM packing_items
		WHERE plan_id = @plan_id
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("repo.PackingRepo.ListByPlan: %w", err)
	}
	items, err := collect(rows, scanPacking)
	if err != nil {
		return nil, fmt.Errorf("repo.PackingRepo.ListByPlan: %w", err)
	}
	return items, nil
}

func (r *pgPackingRepo) Update(ctx context.Context, planID, id uuid.UUID, patch domain.PackingPatch) (domain.PackingItem, error) {
	const q = `
		UPDATE packing_items
		SET item       = COALESCE(@item, item),
		    category   = COALESCE(@category, category),
		    packed     = COALESCE(@packed, packed),
		    updated_at = now()
		WHERE id = @id AND plan_id = @plan_id
		RETURNING ` + packingColumns

	var category *string
	if patch.Category != nil {
		c := string(*patch.Category)
		category = &c
	}
	args := namedIDs(planID, id)
	args["item"] = patch.Item
	args["category"] = category
	args["packed"] = patch.Packed

	result, err := scanPacking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("repo.PackingRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPackingRepo) Delete(ctx context.Context, planID, id uuid.UUID) error {
	if err := deleteScoped(ctx, r.db, "packing_items", planID, id); err != nil {
		return fmt.Errorf("repo.PackingRepo.Delete: %w", err)
	}
	return nil
}

func scanPacking(s scanner) (domain.PackingItem, error) {
	var (
		p          domain.PackingItem
		id, planID pgtype.UUID
		category   string
	)

	err := s.Scan(&id, &planID, &p.Item, &category, &p.Packed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.PackingItem{}, notFound(err)
	}

	p.ID = uuid.UUID(id.Bytes)
	p.PlanID = uuid.UUID(planID.Bytes)
	p.Category = domain.PackingCategory(category)
	return p, nil
}
