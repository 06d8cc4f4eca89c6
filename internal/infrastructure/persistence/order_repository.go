package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderNumberPrefix starts every order number
const OrderNumberPrefix = "PS"

// GormOrderRepository implements OrderRepository and
// ShippingReportRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save inserts a placed order with its lines in one transaction. Orders
// are immutable, so saving an existing order is a conflict. A second
// order for the same checkout session is reported as ErrAlreadyPlaced.
func (r *GormOrderRepository) Save(ctx context.Context, order *checkout.Order) error {
	model := models.OrderModelFromDomain(order)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to save order %s: %w", order.OrderNumber, err)
	}

	if _, findErr := r.FindBySessionID(ctx, order.SessionID); findErr == nil {
		return shared.ErrAlreadyPlaced
	}
	return shared.NewDomainError(shared.CodeConcurrencyConflict,
		fmt.Sprintf("Order number %s is already taken", order.OrderNumber))
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByOrderNumber finds an order by its human-readable number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*checkout.Order, error) {
	return r.findOne(ctx, "order_number = ?", strings.ToUpper(strings.TrimSpace(orderNumber)))
}

// FindBySessionID finds the order a checkout session was converted into
func (r *GormOrderRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*checkout.Order, error) {
	return r.findOne(ctx, "session_id = ?", sessionID)
}

func (r *GormOrderRepository) findOne(ctx context.Context, query string, arg any) (*checkout.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Where(query, arg).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists a customer's orders, newest first
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter checkout.OrderFilter) ([]checkout.Order, int64, error) {
	filter = filter.Normalize()
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("customer_id = ?", customerID)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	err := scope().
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Order("placed_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]checkout.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// NextOrderNumber returns PS-YYYYMMDD-NNNN, one past the highest number
// already used on that day. Sequences past 9999 grow a fifth digit, so
// numbers are compared by length first. Concurrent callers may receive the
// same number; the unique index rejects the loser on Save.
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context, at time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", OrderNumberPrefix, at.Format("20060102"))

	var last []string
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(last) > 0 {
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(last[0], prefix), "%d", &n); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

type shippingTotalsRow struct {
	ZoneID             string
	ZoneName           string
	Method             string
	Orders             int64
	FreeShippingOrders int64
	ShippingCharged    decimal.Decimal
	OrderValue         decimal.Decimal
}

// SummarizeShipping groups orders placed in [from, to) by zone and method
func (r *GormOrderRepository) SummarizeShipping(ctx context.Context, from, to time.Time) ([]checkout.ShippingTotals, error) {
	var rows []shippingTotalsRow
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select(`shipping_zone_id AS zone_id,
			MAX(shipping_zone_name) AS zone_name,
			shipping_method AS method,
			COUNT(*) AS orders,
			SUM(CASE WHEN discount_description <> '' THEN 1 ELSE 0 END) AS free_shipping_orders,
			COALESCE(SUM(shipping_cost), 0) AS shipping_charged,
			COALESCE(SUM(total), 0) AS order_value`).
		Where("placed_at >= ? AND placed_at < ?", from, to).
		Group("shipping_zone_id, shipping_method").
		Order("shipping_zone_id ASC, shipping_method ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize shipping: %w", err)
	}

	totals := make([]checkout.ShippingTotals, len(rows))
	for i, row := range rows {
		totals[i] = checkout.ShippingTotals{
			ZoneID:             row.ZoneID,
			ZoneName:           row.ZoneName,
			Method:             shipping.Method(row.Method),
			Orders:             row.Orders,
			FreeShippingOrders: row.FreeShippingOrders,
			ShippingCharged:    valueobject.NewMoneyAUD(row.ShippingCharged.Round(2)),
			OrderValue:         valueobject.NewMoneyAUD(row.OrderValue.Round(2)),
		}
	}
	return totals, nil
}

var (
	_ checkout.OrderRepository          = (*GormOrderRepository)(nil)
	_ checkout.ShippingReportRepository = (*GormOrderRepository)(nil)
)
