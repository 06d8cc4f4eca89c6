package shipping

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func weight(kg float64) *float64 { return &kg }

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(shipping.NewResolver(shipping.DefaultTables()), zap.NewNop())
}

func TestService_Calculate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      CalculateRequest
		zoneID   string
		cost     string
		discount bool
		minDays  int
		maxDays  int
	}{
		{"geelong light", CalculateRequest{Postcode: "3220", Weight: weight(2)}, shipping.ZoneGeelongMetro, "10", false, 1, 2},
		{"melbourne medium", CalculateRequest{Postcode: "3000", Weight: weight(12)}, shipping.ZoneMelbourneMetro, "25", false, 2, 3},
		{"interstate heavy", CalculateRequest{Postcode: "2000", Weight: weight(25)}, shipping.ZoneInterstate, "65", false, 3, 5},
		{
			"free over threshold",
			CalculateRequest{Postcode: "3350", Weight: weight(3), Items: []CalculateItem{{Price: 60, Quantity: 2}}},
			shipping.ZoneRegionalVictoria, "0", true, 3, 5,
		},
		{"express", CalculateRequest{Postcode: "3220", Weight: weight(30), Method: "express"}, shipping.ZoneGeelongMetro, "25", false, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Calculate(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.zoneID, resp.Zone.ID)
			assert.True(t, decimal.RequireFromString(tt.cost).Equal(resp.Cost), "cost %s", resp.Cost)
			assert.Equal(t, tt.discount, resp.DiscountApplied)
			assert.Equal(t, tt.minDays, resp.EstimatedDelivery.MinDays)
			assert.Equal(t, tt.maxDays, resp.EstimatedDelivery.MaxDays)
			assert.Equal(t, "AUD", resp.Currency)
		})
	}
}

func TestService_Calculate_InvalidInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   CalculateRequest
		field string
	}{
		{"missing weight", CalculateRequest{Postcode: "3220"}, "weight"},
		{"infinite weight", CalculateRequest{Postcode: "3220", Weight: weight(math.Inf(1))}, "weight"},
		{"negative weight", CalculateRequest{Postcode: "3220", Weight: weight(-1)}, "weight"},
		{"bad postcode", CalculateRequest{Postcode: "32A0", Weight: weight(1)}, "postcode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Calculate(ctx, tt.req)
			var inputErr *shipping.InvalidInputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		})
	}
}

func TestService_Calculate_ConfigurationGapIsLoggedAndCounted(t *testing.T) {
	one := decimal.NewFromInt(1)
	tables := shipping.NewTables(
		[]shipping.Zone{{ID: "z", Name: "Everywhere", Estimate: shipping.NewDeliveryEstimate(1, 2)}},
		[]shipping.RateBand{{ID: "z-light", ZoneID: "z", Method: shipping.MethodStandard, MaxWeight: &one, Cost: valueobject.NewMoneyAUDFromInt(5)}},
		nil,
		[]shipping.MethodInfo{{Code: shipping.MethodStandard, Name: "Standard"}},
	)
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewService(shipping.NewResolver(tables), zap.New(core))

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewStoreMetrics(provider.Meter("test"), zap.NewNop())
	require.NoError(t, err)
	svc.SetMetrics(metrics)

	_, err = svc.Calculate(context.Background(), CalculateRequest{Postcode: "4000", Weight: weight(3)})
	var cfgErr *shipping.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "z", cfgErr.ZoneID)

	errorLogs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorLogs, 1)
	assert.Equal(t, "z", errorLogs[0].ContextMap()["zone_id"])
}

func TestService_ListZones(t *testing.T) {
	svc := newTestService(t)
	zones := svc.ListZones(context.Background())
	require.Len(t, zones, 4)
	assert.Equal(t, shipping.ZoneGeelongMetro, zones[0].ID)
	assert.False(t, zones[0].CatchAll)
	assert.Equal(t, shipping.ZoneInterstate, zones[3].ID)
	assert.True(t, zones[3].CatchAll)
	assert.NotNil(t, zones[3].Ranges)
}

func TestService_ListRates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	all, err := svc.ListRates(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 16)

	zone, err := svc.ListRates(ctx, shipping.ZoneMelbourneMetro, "standard")
	require.NoError(t, err)
	require.Len(t, zone, 3)
	assert.True(t, decimal.NewFromInt(15).Equal(zone[0].Cost))
	assert.Nil(t, zone[2].MaxWeight)

	_, err = svc.ListRates(ctx, "zone-9", "")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.ListRates(ctx, "", "drone")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_ListMethods(t *testing.T) {
	methods := newTestService(t).ListMethods(context.Background())
	require.Len(t, methods, 2)
	assert.Equal(t, "standard", methods[0].Code)
	assert.Nil(t, methods[0].EstimatedDelivery)
	require.NotNil(t, methods[1].EstimatedDelivery)
	assert.Equal(t, 1, methods[1].EstimatedDelivery.MinDays)
}

func TestService_ValidateTables(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.ValidateTables(ctx, shipping.DefaultTables().Document())
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Violations)
	assert.Equal(t, 4, resp.Zones)

	five, six := 5.0, 6.0
	doc := shipping.TablesDocument{
		Methods: []shipping.MethodInfo{{Code: shipping.MethodStandard, Name: "Standard"}},
		Zones: []shipping.ZoneDocument{{
			ID: "all", Name: "All", Delivery: shipping.NewDeliveryEstimate(2, 4),
			Rates: map[shipping.Method][]shipping.BandDocument{
				shipping.MethodStandard: {
					{Min: 0, Max: &five, Cost: 10},
					{Min: 5.01, Max: &six, Cost: 12},
				},
			},
		}},
	}
	resp, err = svc.ValidateTables(ctx, doc)
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Violations)

	doc.Zones[0].Rates[shipping.MethodStandard][0].Cost = math.NaN()
	_, err = svc.ValidateTables(ctx, doc)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
