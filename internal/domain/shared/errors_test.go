package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError(CodeNotFound, "Checkout session not found")
	assert.Equal(t, "Checkout session not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var de *DomainError
	assert.True(t, errors.As(wrapped, &de))
	assert.Equal(t, CodeNotFound, de.Code)
	assert.False(t, err.Is(errors.New("NOT_FOUND")))
}

func TestBaseAggregateRoot(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.NotEqual(t, uuid.Nil, root.GetID())
	assert.Equal(t, 1, root.GetVersion())
	root.IncrementVersion()
	assert.Equal(t, 2, root.GetVersion())

	created := root.GetCreatedAt()
	root.Touch()
	assert.False(t, root.GetUpdatedAt().Before(created))

	evt := NewBaseDomainEvent("Tested", "Thing", root.ID)
	root.AddDomainEvent(&evt)
	assert.Len(t, root.GetDomainEvents(), 1)
	assert.Equal(t, "Tested", root.GetDomainEvents()[0].EventType())
	assert.Equal(t, root.ID, root.GetDomainEvents()[0].AggregateID())
	root.ClearDomainEvents()
	assert.Empty(t, root.GetDomainEvents())
}
