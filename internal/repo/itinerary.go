package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryColumns = `id, plan_id, datetime, city, region, country, activity, description, completed, created_at, updated_at`

func (r *pgItineraryRepo) Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		INSERT INTO itinerary_items (plan_id, datetime, city, region, country, activity, description, completed)
		VALUES (@plan_id, @datetime, @city, @region, @country, @activity, @description, @completed)
		RETURNING ` + itineraryColumns

	args := pgx.NamedArgs{
		"plan_id":     item.PlanID,
		"datetime":    item.Datetime,
		"city":        item.City,
		"region":      item.Region,
		"country":     item.Country,
		"activity":    item.Activity,
		"description": item.Description,
		"completed":   item.Completed,
	}

	result, err := scanItinerary(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}
	return result, nil
}

// ListByPlan returns the itinerary ordered by datetime ascending.
func (r *pgItineraryRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.ItineraryItem, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itinerary_items
		WHERE plan_id = @plan_id
		ORDER BY datetime ASC, created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByPlan: %w", err)
	}
	items, err := collect(rows, scanItinerary)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByPlan: %w", err)
	}
	return items, nil
}

func (r *pgItineraryRepo) Update(ctx context.Context, planID, id uuid.UUID, patch domain.ItineraryPatch) (domain.ItineraryItem, error) {
	const q = `
		UPDATE itinerary_items
		SET datetime    = COALESCE(@datetime, datetime),
		    city        = COALESCE(@city, city),
		    region      = COALESCE(@region, region),
		    country     = COALESCE(@country, country),
		    activity    = COALESCE(@activity, activity),
		    description = COALESCE(@description, description),
		    completed   = COALESCE(@completed, completed),
		    updated_at  = now()
		WHERE id = @id AND plan_id = @plan_id
		RETURNING ` + itineraryColumns

	args := namedIDs(planID, id)
	args["datetime"] = patch.Datetime
	args["city"] = patch.City
	args["region"] = patch.Region
	args["country"] = patch.Country
	args["activity"] = patch.Activity
	args["description"] = patch.Description
	args["completed"] = patch.Completed

	result, err := scanItinerary(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) Delete(ctx context.Context, planID, id uuid.UUID) error {
	if err := deleteScoped(ctx, r.db, "itinerary_items", planID, id); err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", err)
	}
	return nil
}

func scanItinerary(s scanner) (domain.ItineraryItem, error) {
	var (
		it          domain.ItineraryItem
		id, planID  pgtype.UUID
		description pgtype.Text
	)

	err := s.Scan(&id, &planID, &it.Datetime, &it.City, &it.Region, &it.Country,
		&it.Activity, &description, &it.Completed, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return domain.ItineraryItem{}, notFound(err)
	}

	it.ID = uuid.UUID(id.Bytes)
	it.PlanID = uuid.UUID(planID.Bytes)
	if description.Valid {
		d := description.String
		it.Description = &d
	}
	return it, nil
}
