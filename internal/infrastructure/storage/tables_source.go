// Package storage fetches shipping rate tables from a local file or an
// S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxTablesSize caps the size of a tables document read from any source
const maxTablesSize = 1 << 20

// ErrTablesNotFound is returned when the configured tables object does not exist
var ErrTablesNotFound = errors.New("shipping tables not found")

// TablesSource yields the raw YAML of a shipping tables document
type TablesSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// FileTablesSource reads tables from the local filesystem
type FileTablesSource struct {
	Path string
}

// Fetch reads the file
func (s FileTablesSource) Fetch(ctx context.Context) ([]byte, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTablesNotFound, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open shipping tables: %w", err)
	}
	defer f.Close()
	return readLimited(f)
}

func (s FileTablesSource) String() string { return s.Path }

// ObjectGetter is the subset of the S3 client used to read tables
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3TablesSource reads tables from an S3 object
type S3TablesSource struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3TablesSource creates a source reading bucket/key through client
func NewS3TablesSource(client ObjectGetter, bucket, key string) *S3TablesSource {
	return &S3TablesSource{client: client, bucket: bucket, key: key}
}

// Fetch downloads the object body
func (s *S3TablesSource) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrTablesNotFound, s)
		}
		return nil, fmt.Errorf("get shipping tables object: %w", err)
	}
	defer out.Body.Close()
	return readLimited(out.Body)
}

func (s *S3TablesSource) String() string { return "s3://" + s.bucket + "/" + s.key }

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxTablesSize+1))
	if err != nil {
		return nil, fmt.Errorf("read shipping tables: %w", err)
	}
	if len(data) > maxTablesSize {
		return nil, fmt.Errorf("shipping tables exceed %d bytes", maxTablesSize)
	}
	return data, nil
}

// NewTablesSource picks the source for a tables location: an s3://bucket/key
// URL or a file path. An empty location yields nil.
func NewTablesSource(ctx context.Context, location string, cfg *config.StorageConfig) (TablesSource, error) {
	switch {
	case location == "":
		return nil, nil
	case strings.HasPrefix(location, "s3://"):
		bucket, key, err := config.ParseS3URL(location)
		if err != nil {
			return nil, err
		}
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3TablesSource(client, bucket, key), nil
	default:
		return FileTablesSource{Path: location}, nil
	}
}

// LoadTables fetches and validates tables from source. A nil source yields
// the built-in defaults.
func LoadTables(ctx context.Context, source TablesSource, logger *zap.Logger) (*shipping.Tables, error) {
	if source == nil {
		logger.Info("Using built-in shipping tables")
		return shipping.DefaultTables(), nil
	}

	data, err := source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	tables, err := shipping.ParseTables(data)
	if err != nil {
		return nil, fmt.Errorf("load shipping tables from %s: %w", source, err)
	}

	logger.Info("Loaded shipping tables",
		zap.String("source", source.String()),
		zap.Int("zones", len(tables.Zones())),
		zap.Int("bands", len(tables.AllBands())),
	)
	return tables, nil
}
