package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
)

// Repository defines the persistence port for stock purchases
type Repository interface {
	// FindByIDForTenant finds a stock purchase by ID within a tenant, received items included
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockPurchase, error)

	// FindAllForTenant finds stock purchases matching the filter within a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockPurchase], error)

	// Save persists a new stock purchase together with its received items
	Save(ctx context.Context, purchase *StockPurchase) error

	// SaveWithLock persists an existing stock purchase using optimistic locking.
	// Returns shared.ErrConcurrencyConflict when the stored version moved.
	SaveWithLock(ctx context.Context, purchase *StockPurchase, expectedVersion int) error

	// DeleteForTenant removes a stock purchase and its received items within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts all stock purchases within a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// CountByStatusForTenant counts stock purchases per status within a tenant
	CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[Status]int64, error)

	// ExistsByPurchaseNumberForTenant checks whether a purchase number is taken within a tenant
	ExistsByPurchaseNumberForTenant(ctx context.Context, tenantID uuid.UUID, purchaseNumber string) (bool, error)

	// GeneratePurchaseNumber generates the next sequential purchase number for a tenant
	GeneratePurchaseNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
