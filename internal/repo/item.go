package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ItemRepo defines the persistence operations shared by every child item
// kind. All reads and writes are scoped by planID so an item id from one plan
// can never touch a row of another plan.
type ItemRepo[T any, P any] interface {
	// Create inserts item (whose PlanID must be set) and returns the persisted record.
	Create(ctx context.Context, item T) (T, error)

	// ListByPlan returns every item of the plan in display order.
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]T, error)

	// Update applies the set fields of patch to the item and returns it.
	// Returns domain.ErrNotFound if no item with that ID exists under that plan.
	Update(ctx context.Context, planID, id uuid.UUID, patch P) (T, error)

	// Delete removes an item. Returns domain.ErrNotFound if no item with that
	// ID exists under that plan.
	Delete(ctx context.Context, planID, id uuid.UUID) error
}

type (
	ItineraryRepo = ItemRepo[domain.ItineraryItem, domain.ItineraryPatch]
	BudgetRepo    = ItemRepo[domain.BudgetItem, domain.BudgetPatch]
	PackingRepo   = ItemRepo[domain.PackingItem, domain.PackingPatch]
)

// deleteScoped removes the row of table with the given id under planID.
// table is always a package constant, never user input.
func deleteScoped(ctx context.Context, db db, table string, planID, id uuid.UUID) error {
	tag, err := db.Exec(ctx, `DELETE FROM `+table+` WHERE id = @id AND plan_id = @plan_id`,
		namedIDs(planID, id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func namedIDs(planID, id uuid.UUID) pgx.NamedArgs {
	return pgx.NamedArgs{"id": id, "plan_id": planID}
}
