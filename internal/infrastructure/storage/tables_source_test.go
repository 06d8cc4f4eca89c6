package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testTablesPath = "../../domain/shipping/testdata/tables.yaml"

type MockObjectGetter struct {
	mock.Mock
}

func (m *MockObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func objectFor(bucket, key string) any {
	return mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Bucket == bucket && *in.Key == key
	})
}

func TestFileTablesSource(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	t.Run("loads a valid file", func(t *testing.T) {
		tables, err := LoadTables(ctx, FileTablesSource{Path: testTablesPath}, logger)
		require.NoError(t, err)
		zone, ok := tables.Zone("zone-1")
		require.True(t, ok)
		assert.Equal(t, "Geelong Metro", zone.Name)

		doc := tables.Document()
		require.Len(t, doc.Discounts, 1)
		assert.Equal(t, 200.0, doc.Discounts[0].MinSubtotal)
	})

	t.Run("snake case discount minimum is rejected", func(t *testing.T) {
		data, err := os.ReadFile(testTablesPath)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "old.yaml")
		stale := strings.Replace(string(data), "minSubtotal:", "min_subtotal:", 1)
		require.NoError(t, os.WriteFile(path, []byte(stale), 0o644))

		_, err = LoadTables(ctx, FileTablesSource{Path: path}, logger)
		assert.ErrorContains(t, err, "min_subtotal")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FileTablesSource{Path: filepath.Join(t.TempDir(), "none.yaml")}.Fetch(ctx)
		assert.ErrorIs(t, err, ErrTablesNotFound)
	})

	t.Run("oversized file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "big.yaml")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("#", maxTablesSize+1)), 0o644))
		_, err := FileTablesSource{Path: path}.Fetch(ctx)
		assert.ErrorContains(t, err, "exceed")
	})

	t.Run("invalid tables are rejected", func(t *testing.T) {
		_, err := LoadTables(ctx, FileTablesSource{Path: "../../domain/shipping/testdata/gap.yaml"}, logger)
		var tablesErr *shipping.TablesError
		assert.ErrorAs(t, err, &tablesErr)
	})
}

func TestS3TablesSource(t *testing.T) {
	ctx := context.Background()
	data, err := os.ReadFile(testTablesPath)
	require.NoError(t, err)

	t.Run("reads the object", func(t *testing.T) {
		client := new(MockObjectGetter)
		client.On("GetObject", ctx, objectFor("rates", "prod/tables.yaml")).
			Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil)

		source := NewS3TablesSource(client, "rates", "prod/tables.yaml")
		tables, err := LoadTables(ctx, source, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Len(t, tables.Zones(), 2)
		assert.Equal(t, "s3://rates/prod/tables.yaml", source.String())
		client.AssertExpectations(t)
	})

	t.Run("missing key", func(t *testing.T) {
		client := new(MockObjectGetter)
		client.On("GetObject", ctx, objectFor("rates", "none.yaml")).
			Return(nil, &types.NoSuchKey{})

		_, err := NewS3TablesSource(client, "rates", "none.yaml").Fetch(ctx)
		assert.ErrorIs(t, err, ErrTablesNotFound)
	})

	t.Run("transport error", func(t *testing.T) {
		client := new(MockObjectGetter)
		client.On("GetObject", ctx, objectFor("rates", "x.yaml")).
			Return(nil, errors.New("connection refused"))

		_, err := NewS3TablesSource(client, "rates", "x.yaml").Fetch(ctx)
		assert.ErrorContains(t, err, "connection refused")
		assert.NotErrorIs(t, err, ErrTablesNotFound)
	})
}

func TestNewTablesSource(t *testing.T) {
	ctx := context.Background()
	storageCfg := &config.StorageConfig{
		Region:          "ap-southeast-2",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	}

	source, err := NewTablesSource(ctx, "", storageCfg)
	require.NoError(t, err)
	assert.Nil(t, source)

	tables, err := LoadTables(ctx, source, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Len(t, tables.Zones(), len(shipping.DefaultTables().Zones()))

	source, err = NewTablesSource(ctx, "tables.yaml", storageCfg)
	require.NoError(t, err)
	assert.Equal(t, FileTablesSource{Path: "tables.yaml"}, source)

	source, err = NewTablesSource(ctx, "s3://rates/prod/tables.yaml", storageCfg)
	require.NoError(t, err)
	assert.Equal(t, "s3://rates/prod/tables.yaml", source.String())

	_, err = NewTablesSource(ctx, "s3://rates", storageCfg)
	assert.Error(t, err)
}
