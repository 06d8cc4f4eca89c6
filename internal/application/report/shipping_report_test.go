package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockShippingReportRepository is a mock implementation of checkout.ShippingReportRepository
type MockShippingReportRepository struct {
	mock.Mock
}

func (m *MockShippingReportRepository) SummarizeShipping(ctx context.Context, from, to time.Time) ([]checkout.ShippingTotals, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.ShippingTotals), args.Error(1)
}

type otherEvent struct {
	shared.BaseDomainEvent
}

func placedEvent() *checkout.OrderPlacedEvent {
	return &checkout.OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(checkout.EventTypeOrderPlaced, checkout.AggregateTypeOrder, uuid.New()),
		OrderNumber:     "PS-1",
		ZoneID:          shipping.ZoneMelbourneMetro,
		ZoneName:        "Melbourne Metro",
		ShippingMethod:  "standard",
		ShippingCost:    decimal.NewFromInt(15),
		Subtotal:        decimal.NewFromInt(50),
		Total:           decimal.NewFromInt(65),
		ItemCount:       3,
	}
}

func TestShippingReportHandler_EventTypes(t *testing.T) {
	h := NewShippingReportHandler(nil, nil)
	assert.Equal(t, []string{checkout.EventTypeOrderPlaced}, h.EventTypes())
}

func TestShippingReportHandler_Handle(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewStoreMetrics(provider.Meter("test"), nil)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	h := NewShippingReportHandler(metrics, zap.New(core))

	require.NoError(t, h.Handle(context.Background(), placedEvent()))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "zone-2", entries[0].ContextMap()["zone_id"])
	assert.Equal(t, "15.00", entries[0].ContextMap()["shipping_cost"])

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "storefront_shipping_charged_cents_total" {
				sum := m.Data.(metricdata.Sum[int64])
				require.Len(t, sum.DataPoints, 1)
				assert.Equal(t, int64(1500), sum.DataPoints[0].Value)
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestShippingReportHandler_WrongEvent(t *testing.T) {
	h := NewShippingReportHandler(nil, zap.NewNop())
	err := h.Handle(context.Background(), &otherEvent{BaseDomainEvent: shared.NewBaseDomainEvent("Other", "X", uuid.New())})
	assert.Error(t, err)
}

func TestShippingReportService_Summary(t *testing.T) {
	repo := new(MockShippingReportRepository)
	svc := NewShippingReportService(repo)

	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	repo.On("SummarizeShipping", mock.Anything, from, to.AddDate(0, 0, 1)).Return([]checkout.ShippingTotals{
		{ZoneID: "zone-1", ZoneName: "Geelong Metro", Method: shipping.MethodStandard, Orders: 3, FreeShippingOrders: 1,
			ShippingCharged: valueobject.NewMoneyAUDFromInt(20), OrderValue: valueobject.NewMoneyAUDFromInt(320)},
		{ZoneID: "zone-4", ZoneName: "Interstate", Method: shipping.MethodExpress, Orders: 1,
			ShippingCharged: valueobject.NewMoneyAUDFromInt(25), OrderValue: valueobject.NewMoneyAUDFromInt(75)},
	}, nil)

	resp, err := svc.Summary(context.Background(), ShippingReportFilter{From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.TotalOrders)
	assert.True(t, decimal.NewFromInt(45).Equal(resp.ShippingCharged))
	require.Len(t, resp.Zones, 2)
	assert.True(t, decimal.RequireFromString("6.67").Equal(resp.Zones[0].AverageShipping))
	assert.Equal(t, int64(1), resp.Zones[0].FreeShippingOrders)
	repo.AssertExpectations(t)
}

func TestShippingReportService_Summary_DefaultPeriod(t *testing.T) {
	repo := new(MockShippingReportRepository)
	svc := NewShippingReportService(repo)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("SummarizeShipping", mock.Anything, now.AddDate(0, 0, -30), now).Return([]checkout.ShippingTotals{}, nil)

	resp, err := svc.Summary(context.Background(), ShippingReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, resp.Zones)
	assert.True(t, resp.ShippingCharged.IsZero())
}

func TestShippingReportService_Summary_InvalidPeriod(t *testing.T) {
	svc := NewShippingReportService(new(MockShippingReportRepository))
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Summary(context.Background(), ShippingReportFilter{From: day.AddDate(0, 0, 5), To: day})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
