package storage

import (
	"context"
	"sync"
	"testing"

	"modfy_server/structs/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStorage(t *testing.T) {
	runStorageSuite(t, func(t *testing.T) Storage {
		return NewMemStorage()
	})
}

func TestMemStorageReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemStorage()

	p := createProduct(t, store, "Copy Check", 1000, true)
	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)

	got.Sizes[0] = "XXXL"
	got.SizePricing["L"] = 1

	again, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "M", again.Sizes[0])
	assert.Equal(t, uint64(1500), again.SizePricing["L"])
}

func TestMemStorageConcurrentAddToCart(t *testing.T) {
	ctx := context.Background()
	store := NewMemStorage()
	p := createProduct(t, store, "Busy Product", 1000, true)
	owner := SessionOwner("busy")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			line := &tables.CartItem{ProductID: p.ID, Size: "M", Quantity: 1}
			owner.Apply(line)
			_, err := store.AddToCart(ctx, line)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines, err := store.ListCartItems(ctx, owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 20, lines[0].Quantity)
}
