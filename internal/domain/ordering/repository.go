package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
)

// Repository defines the persistence port for orders
type Repository interface {
	// FindByIDForTenant finds an order by ID within a tenant, line items included
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindAllForTenant finds orders matching the filter within a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)

	// Save persists a new order together with its line items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock persists an existing order using optimistic locking.
	// Returns shared.ErrConcurrencyConflict when the stored version moved.
	SaveWithLock(ctx context.Context, order *Order, expectedVersion int) error

	// DeleteForTenant removes an order and its line items within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts all orders within a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// CountByStatusForTenant counts orders per status within a tenant
	CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[Status]int64, error)

	// ExistsByOrderNumberForTenant checks whether an order number is taken within a tenant
	ExistsByOrderNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// GenerateOrderNumber generates the next sequential order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
