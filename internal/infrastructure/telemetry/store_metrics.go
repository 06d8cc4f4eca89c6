package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Error kinds recorded on failed quotes
const (
	QuoteErrorInvalidInput  = "invalid_input"
	QuoteErrorConfiguration = "configuration"
)

// StoreMetrics holds the storefront business counters fed by real quotes
// and placed orders.
type StoreMetrics struct {
	logger *zap.Logger

	quotesTotal         *Counter
	quoteErrorsTotal    *Counter
	ordersPlacedTotal   *Counter
	shippingRevenueCent *Counter
	orderValue          *Histogram
}

// NewStoreMetrics registers the storefront instruments on the meter.
func NewStoreMetrics(meter metric.Meter, logger *zap.Logger) (*StoreMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &StoreMetrics{logger: logger}
	var err error

	if sm.quotesTotal, err = NewCounter(meter, "storefront_shipping_quotes_total", "Shipping quotes resolved", "{quotes}"); err != nil {
		return nil, err
	}
	if sm.quoteErrorsTotal, err = NewCounter(meter, "storefront_shipping_quote_errors_total", "Shipping quotes that failed", "{quotes}"); err != nil {
		return nil, err
	}
	if sm.ordersPlacedTotal, err = NewCounter(meter, "storefront_orders_placed_total", "Orders placed through checkout", "{orders}"); err != nil {
		return nil, err
	}
	if sm.shippingRevenueCent, err = NewCounter(meter, "storefront_shipping_charged_cents_total", "Shipping charged on placed orders in cents", "{cents}"); err != nil {
		return nil, err
	}
	if sm.orderValue, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_order_total_aud",
		Description: "Order totals including shipping",
		Unit:        "AUD",
		Boundaries:  []float64{25, 50, 100, 200, 500, 1000, 2500},
	}); err != nil {
		return nil, err
	}
	return sm, nil
}

// RecordQuote counts a resolved quote.
func (sm *StoreMetrics) RecordQuote(ctx context.Context, zoneID, method string, discountApplied bool) {
	sm.quotesTotal.Inc(ctx,
		AttrZoneID.String(zoneID),
		AttrShippingMethod.String(method),
		AttrDiscount.Bool(discountApplied),
	)
}

// RecordQuoteError counts a failed quote by kind.
func (sm *StoreMetrics) RecordQuoteError(ctx context.Context, kind string) {
	sm.quoteErrorsTotal.Inc(ctx, AttrErrorKind.String(kind))
}

// RecordOrderPlaced counts a placed order with its shipping charge and total.
func (sm *StoreMetrics) RecordOrderPlaced(ctx context.Context, zoneID, method string, shippingCost, total decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrZoneID.String(zoneID), AttrShippingMethod.String(method)}
	sm.ordersPlacedTotal.Inc(ctx, attrs...)
	sm.shippingRevenueCent.Add(ctx, shippingCost.Shift(2).Round(0).IntPart(), attrs...)
	sm.orderValue.Record(ctx, total.InexactFloat64(), attrs...)
}
