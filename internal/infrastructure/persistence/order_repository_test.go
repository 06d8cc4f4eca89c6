package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shared/valueobject"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDatabase(t).DB)

	order := newTestOrder("PS-20261019-0001")
	require.NoError(t, repo.Save(ctx, order))

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)

		assert.Equal(t, order.OrderNumber, found.OrderNumber)
		assert.Equal(t, order.SessionID, found.SessionID)
		assert.Equal(t, order.Address, found.Address)
		assert.Equal(t, order.Payment, found.Payment)
		assert.Equal(t, order.EstimatedDelivery, found.EstimatedDelivery)
		assert.True(t, found.Summary.Subtotal.Equals(valueobject.NewMoneyAUDFromInt(50)))
		assert.True(t, found.Summary.ShippingCost.Equals(valueobject.NewMoneyAUDFromInt(10)))
		assert.True(t, found.Summary.Total.Equals(valueobject.NewMoneyAUDFromInt(60)))
		assert.Equal(t, shipping.MethodStandard, found.Summary.ShippingMethod)
		assert.Equal(t, "Geelong Metro", found.Summary.ShippingZoneName)

		require.Len(t, found.Lines, 2)
		assert.Equal(t, "Brake pads", found.Lines[0].Name)
		assert.Equal(t, 2, found.Lines[0].Quantity)
		assert.True(t, found.Lines[0].UnitWeight.Equals(valueobject.MustNewWeight("1.5")))
		assert.Equal(t, "Oil filter", found.Lines[1].Name)
		assert.Equal(t, 3, found.ItemCount())
	})

	t.Run("by order number ignores case and spaces", func(t *testing.T) {
		found, err := repo.FindByOrderNumber(ctx, " ps-20261019-0001 ")
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})

	t.Run("by session", func(t *testing.T) {
		found, err := repo.FindBySessionID(ctx, order.SessionID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = repo.FindBySessionID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository_SaveConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDatabase(t).DB)

	first := newTestOrder("PS-20261019-0001")
	require.NoError(t, repo.Save(ctx, first))

	t.Run("second order for the same session", func(t *testing.T) {
		again := newTestOrder("PS-20261019-0002")
		again.SessionID = first.SessionID

		err := repo.Save(ctx, again)
		assert.ErrorIs(t, err, shared.ErrAlreadyPlaced)
	})

	t.Run("taken order number", func(t *testing.T) {
		err := repo.Save(ctx, newTestOrder("PS-20261019-0001"))
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormOrderRepository_FindByCustomer(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDatabase(t).DB)
	customer := uuid.New()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		o := newTestOrder(
			"PS-2026100"+string(rune('1'+i))+"-0001",
			forCustomer(customer),
			placedAt(base.Add(time.Duration(i)*24*time.Hour)),
		)
		require.NoError(t, repo.Save(ctx, o))
	}
	require.NoError(t, repo.Save(ctx, newTestOrder("PS-20261001-0002", forCustomer(uuid.New()))))

	orders, total, err := repo.FindByCustomer(ctx, customer, checkout.OrderFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, orders, 2)
	assert.Equal(t, "PS-20261003-0001", orders[0].OrderNumber)
	assert.Equal(t, "PS-20261002-0001", orders[1].OrderNumber)
	assert.Len(t, orders[0].Lines, 2)

	orders, _, err = repo.FindByCustomer(ctx, customer, checkout.OrderFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "PS-20261001-0001", orders[0].OrderNumber)
}

func TestGormOrderRepository_NextOrderNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDatabase(t).DB)
	day := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	number, err := repo.NextOrderNumber(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "PS-20261019-0001", number)

	require.NoError(t, repo.Save(ctx, newTestOrder("PS-20261019-0001")))
	require.NoError(t, repo.Save(ctx, newTestOrder("PS-20261019-0009")))
	require.NoError(t, repo.Save(ctx, newTestOrder("PS-20261020-0042")))

	number, err = repo.NextOrderNumber(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "PS-20261019-0010", number)

	number, err = repo.NextOrderNumber(ctx, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, "PS-20261021-0001", number)
}

func TestGormOrderRepository_NextOrderNumberPastFourDigits(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDatabase(t).DB)
	day := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, newTestOrder("PS-20261019-9999")))

	number, err := repo.NextOrderNumber(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "PS-20261019-10000", number)
	require.NoError(t, repo.Save(ctx, newTestOrder(number)))

	number, err = repo.NextOrderNumber(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "PS-20261019-10001", number)
	require.NoError(t, repo.Save(ctx, newTestOrder(number)))
}

func TestGormOrderRepository_SaveTakenNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDatabase(t).DB)

	require.NoError(t, repo.Save(ctx, newTestOrder("PS-20261019-0001")))
	err := repo.Save(ctx, newTestOrder("PS-20261019-0001"))
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormOrderRepository_SummarizeShipping(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDatabase(t).DB)
	day := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	orders := []*checkout.Order{
		newTestOrder("PS-1", placedAt(day)),
		newTestOrder("PS-2", placedAt(day.Add(time.Hour)), withFreeShipping()),
		newTestOrder("PS-3", placedAt(day), withZone("zone-2", "Melbourne Metro", shipping.MethodStandard, 15)),
		newTestOrder("PS-4", placedAt(day), withZone("zone-2", "Melbourne Metro", shipping.MethodExpress, 25)),
		newTestOrder("PS-5", placedAt(day.AddDate(0, 0, -10))),
	}
	for _, o := range orders {
		require.NoError(t, repo.Save(ctx, o))
	}

	totals, err := repo.SummarizeShipping(ctx, day.Truncate(24*time.Hour), day.Truncate(24*time.Hour).AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, totals, 3)

	geelong := totals[0]
	assert.Equal(t, "zone-1", geelong.ZoneID)
	assert.Equal(t, "Geelong Metro", geelong.ZoneName)
	assert.Equal(t, shipping.MethodStandard, geelong.Method)
	assert.Equal(t, int64(2), geelong.Orders)
	assert.Equal(t, int64(1), geelong.FreeShippingOrders)
	assert.True(t, geelong.ShippingCharged.Equals(valueobject.NewMoneyAUDFromInt(10)), geelong.ShippingCharged.String())
	assert.True(t, geelong.OrderValue.Equals(valueobject.NewMoneyAUDFromInt(110)), geelong.OrderValue.String())

	assert.Equal(t, "zone-2", totals[1].ZoneID)
	assert.Equal(t, shipping.MethodExpress, totals[1].Method)
	assert.True(t, totals[1].ShippingCharged.Equals(valueobject.NewMoneyAUDFromInt(25)))
	assert.Equal(t, shipping.MethodStandard, totals[2].Method)

	empty, err := repo.SummarizeShipping(ctx, day.AddDate(1, 0, 0), day.AddDate(1, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
