package shipping

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestParseTables(t *testing.T) {
	t.Run("parses a valid document", func(t *testing.T) {
		tables, err := ParseTables(readTestdata(t, "tables.yaml"))
		require.NoError(t, err)
		r := NewResolver(tables)

		q, err := r.ResolveFloat("3210", 7, itemsWorth(150), MethodStandard)
		require.NoError(t, err)
		assert.Equal(t, "Geelong Metro", q.Zone.Name)
		assert.Equal(t, "18.00", q.Cost.StringFixed(2))

		q, err = r.ResolveFloat("3000", 7, itemsWorth(250), MethodStandard)
		require.NoError(t, err)
		assert.Equal(t, "Interstate", q.Zone.Name)
		assert.True(t, q.Cost.IsZero())
		assert.Equal(t, "Free shipping on orders over $200", q.DiscountDescription)

		q, err = r.ResolveFloat("3000", 1, nil, MethodExpress)
		require.NoError(t, err)
		assert.Equal(t, "40.00", q.Cost.StringFixed(2))
		assert.Equal(t, 2, q.EstimatedDelivery.MaxDays)
		assert.Equal(t, DeliveryUnit, q.EstimatedDelivery.Unit)
	})

	t.Run("discount minimum uses the same key as the API", func(t *testing.T) {
		tables, err := ParseTables(readTestdata(t, "tables.yaml"))
		require.NoError(t, err)
		doc := tables.Document()
		require.Len(t, doc.Discounts, 1)
		assert.Equal(t, 200.0, doc.Discounts[0].MinSubtotal)

		q, err := NewResolver(tables).ResolveFloat("3000", 7, itemsWorth(150), MethodStandard)
		require.NoError(t, err)
		assert.Equal(t, "30.00", q.Cost.StringFixed(2))
		assert.Empty(t, q.DiscountDescription)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		data := strings.Replace(string(readTestdata(t, "tables.yaml")), "minSubtotal:", "min_subtotal:", 1)
		_, err := ParseTables([]byte(data))
		assert.ErrorContains(t, err, "min_subtotal")
	})

	t.Run("rejects a document with a weight gap", func(t *testing.T) {
		_, err := ParseTables(readTestdata(t, "gap.yaml"))
		var tablesErr *TablesError
		require.ErrorAs(t, err, &tablesErr)
		assert.Contains(t, tablesErr.Error(), "gap between 5kg and 5.01kg")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseTables([]byte("zones: [\n"))
		assert.ErrorContains(t, err, "decode shipping tables")
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := ParseTables([]byte("methods: []\n"))
		assert.ErrorContains(t, err, "no zones")

		_, err = ParseTables(nil)
		assert.ErrorContains(t, err, "no zones")
	})
}

func TestTables_DocumentRoundTrip(t *testing.T) {
	original := DefaultTables()
	rebuilt, err := original.Document().BuildValidated()
	require.NoError(t, err)

	a := NewResolver(original)
	b := NewResolver(rebuilt)
	for _, pc := range []string{"3210", "3050", "3500", "7000"} {
		for _, w := range []float64{0, 5, 5.01, 20, 42} {
			for _, m := range []Method{MethodStandard, MethodExpress} {
				qa, err := a.ResolveFloat(pc, w, itemsWorth(120), m)
				require.NoError(t, err)
				qb, err := b.ResolveFloat(pc, w, itemsWorth(120), m)
				require.NoError(t, err)
				assert.True(t, qa.SameCost(qb), "postcode %s weight %v method %s", pc, w, m)
			}
		}
	}
}
