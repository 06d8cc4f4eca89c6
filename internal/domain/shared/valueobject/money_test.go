package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), AUD)
		require.NoError(t, err)
		assert.Equal(t, AUD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", AUD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", AUD)
		assert.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		sum, err := NewMoneyAUDFromInt(10).Add(NewMoneyAUDFromFloat(2.5))
		require.NoError(t, err)
		assert.Equal(t, "12.50", sum.StringFixed(2))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		usd, _ := NewMoney(decimal.NewFromInt(1), USD)
		_, err := NewMoneyAUDFromInt(1).Add(usd)
		assert.Error(t, err)
	})

	t.Run("MustAdd panics on mixed currencies", func(t *testing.T) {
		usd, _ := NewMoney(decimal.NewFromInt(1), USD)
		assert.Panics(t, func() { NewMoneyAUDFromInt(1).MustAdd(usd) })
	})
}

func TestMoney_MultiplyByInt(t *testing.T) {
	m := NewMoneyAUDFromFloat(19.99).MultiplyByInt(3)
	assert.Equal(t, "59.97", m.StringFixed(2))
	assert.Equal(t, AUD, m.Currency())
}

func TestMoney_Comparisons(t *testing.T) {
	hundred := NewMoneyAUDFromInt(100)

	ok, err := NewMoneyAUDFromFloat(100.00).GreaterThanOrEqual(hundred)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewMoneyAUDFromFloat(99.99).GreaterThanOrEqual(hundred)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, hundred.Equals(NewMoneyAUD(decimal.RequireFromString("100.00"))))
	assert.True(t, ZeroAUD().IsZero())
	assert.True(t, hundred.IsPositive())
	assert.True(t, NewMoneyAUDFromInt(-1).IsNegative())
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "15.00 AUD", NewMoneyAUDFromInt(15).String())
}

func TestMoney_JSON(t *testing.T) {
	t.Run("marshals amount and currency", func(t *testing.T) {
		data, err := json.Marshal(NewMoneyAUDFromFloat(25.5))
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"25.5","currency":"AUD"}`, string(data))
	})

	t.Run("round trips through session storage", func(t *testing.T) {
		original := NewMoneyAUDFromFloat(42.1)
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var restored Money
		require.NoError(t, json.Unmarshal(data, &restored))
		assert.True(t, original.Equals(restored))
	})

	t.Run("defaults missing currency to AUD", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"3"}`), &m))
		assert.Equal(t, AUD, m.Currency())
	})

	t.Run("rejects bad amount", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`{"amount":"x","currency":"AUD"}`), &m))
	})
}

func TestMoney_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "12.34", "12.34"},
		{"bytes", []byte("7.5"), "7.50"},
		{"float", 3.25, "3.25"},
		{"int", int64(9), "9.00"},
		{"nil", nil, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			require.NoError(t, m.Scan(tt.input))
			assert.Equal(t, tt.want, m.StringFixed(2))
			assert.Equal(t, AUD, m.Currency())
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(true))
	})
}

func TestSum(t *testing.T) {
	total, err := Sum(AUD, NewMoneyAUDFromInt(10), NewMoneyAUDFromInt(15), NewMoneyAUDFromFloat(0.5))
	require.NoError(t, err)
	assert.Equal(t, "25.50", total.StringFixed(2))

	empty, err := Sum(AUD)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}
