package report

import (
	"context"
	"fmt"

	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ShippingReportHandler handles OrderPlacedEvent and feeds the resolved
// zone, method and shipping charge of real orders into the store metrics.
type ShippingReportHandler struct {
	metrics *telemetry.StoreMetrics
	logger  *zap.Logger
}

// NewShippingReportHandler creates a new handler for order placed events.
// metrics may be nil, in which case orders are only logged.
func NewShippingReportHandler(metrics *telemetry.StoreMetrics, logger *zap.Logger) *ShippingReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShippingReportHandler{
		metrics: metrics,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ShippingReportHandler) EventTypes() []string {
	return []string{checkout.EventTypeOrderPlaced}
}

// Handle records one placed order
func (h *ShippingReportHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*checkout.OrderPlacedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", checkout.EventTypeOrderPlaced),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			checkout.EventTypeOrderPlaced, event.EventType())
	}

	if h.metrics != nil {
		h.metrics.RecordOrderPlaced(ctx, placed.ZoneID, placed.ShippingMethod, placed.ShippingCost, placed.Total)
	}

	h.logger.Info("shipping charged on placed order",
		zap.String("order_number", placed.OrderNumber),
		zap.String("zone_id", placed.ZoneID),
		zap.String("zone_name", placed.ZoneName),
		zap.String("method", placed.ShippingMethod),
		zap.String("shipping_cost", placed.ShippingCost.StringFixed(2)),
		zap.Bool("discount_applied", placed.DiscountApplied),
		zap.Int("item_count", placed.ItemCount),
	)
	return nil
}
