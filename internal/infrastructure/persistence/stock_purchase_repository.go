package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/procurement"
	"github.com/salesops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockPurchaseRepository implements procurement.Repository using GORM
type GormStockPurchaseRepository struct {
	db *gorm.DB
}

// NewGormStockPurchaseRepository creates a new GormStockPurchaseRepository
func NewGormStockPurchaseRepository(db *gorm.DB) *GormStockPurchaseRepository {
	return &GormStockPurchaseRepository{db: db}
}

// FindByIDForTenant finds a stock purchase by ID within a tenant
func (r *GormStockPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.StockPurchase, error) {
	var purchase procurement.StockPurchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAllForTenant finds stock purchases matching the filter within a tenant
func (r *GormStockPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[procurement.StockPurchase], error) {
	base := r.db.WithContext(ctx).Model(&procurement.StockPurchase{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var purchases []procurement.StockPurchase
	if err := r.applyFilter(base.Session(&gorm.Session{}), filter).
		Preload("Items").
		Find(&purchases).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(purchases, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates a new stock purchase together with its received items
func (r *GormStockPurchaseRepository) Save(ctx context.Context, purchase *procurement.StockPurchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(purchase).Error; err != nil {
			return err
		}
		for i := range purchase.Items {
			purchase.Items[i].StockPurchaseID = purchase.ID
			if err := tx.Create(&purchase.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock persists purchase mutations with optimistic locking.
// Received items are frozen at creation and are not rewritten here.
func (r *GormStockPurchaseRepository) SaveWithLock(ctx context.Context, purchase *procurement.StockPurchase, expectedVersion int) error {
	purchase.Touch()

	result := r.db.WithContext(ctx).Model(&procurement.StockPurchase{}).
		Where("tenant_id = ? AND id = ? AND version = ?", purchase.TenantID, purchase.ID, expectedVersion).
		Updates(map[string]interface{}{
			"paid_amount":    purchase.PaidAmount,
			"status":         purchase.Status,
			"payment_status": purchase.PaymentStatus,
			"payment_failed": purchase.PaymentFailed,
			"payments":       purchase.Payments,
			"completed_at":   purchase.CompletedAt,
			"cancelled_at":   purchase.CancelledAt,
			"cancel_reason":  purchase.CancelReason,
			"version":        purchase.Version,
			"updated_at":     purchase.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&procurement.StockPurchase{}).
			Where("tenant_id = ? AND id = ?", purchase.TenantID, purchase.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant removes a stock purchase and its received items within a tenant
func (r *GormStockPurchaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_purchase_id = ?", id).Delete(&procurement.ReceivedItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&procurement.StockPurchase{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts all stock purchases within a tenant
func (r *GormStockPurchaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.StockPurchase{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatusForTenant counts stock purchases per status within a tenant
func (r *GormStockPurchaseRepository) CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[procurement.Status]int64, error) {
	var rows []struct {
		Status procurement.Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&procurement.StockPurchase{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[procurement.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ExistsByPurchaseNumberForTenant checks if a purchase number exists within a tenant
func (r *GormStockPurchaseRepository) ExistsByPurchaseNumberForTenant(ctx context.Context, tenantID uuid.UUID, purchaseNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.StockPurchase{}).
		Where("tenant_id = ? AND purchase_number = ?", tenantID, purchaseNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePurchaseNumber generates a unique purchase number for a tenant.
// Format: PO-YYYY-NNNNN (e.g., PO-2026-00001)
func (r *GormStockPurchaseRepository) GeneratePurchaseNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var lastPurchase procurement.StockPurchase
	err := r.db.WithContext(ctx).
		Model(&procurement.StockPurchase{}).
		Where("tenant_id = ? AND purchase_number LIKE ?", tenantID, prefix+"%").
		Order("purchase_number DESC").
		First(&lastPurchase).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastPurchase.PurchaseNumber != "" {
		parts := strings.Split(lastPurchase.PurchaseNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	purchaseNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByPurchaseNumberForTenant(ctx, tenantID, purchaseNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			purchaseNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByPurchaseNumberForTenant(ctx, tenantID, purchaseNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return purchaseNumber, nil
}

func (r *GormStockPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, StockPurchaseSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormStockPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("purchase_number ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "payment_method":
			query = query.Where("payments @> ?", fmt.Sprintf(`[{"method":"%s"}]`, value))
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

var _ procurement.Repository = (*GormStockPurchaseRepository)(nil)
