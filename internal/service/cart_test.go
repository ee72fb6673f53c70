package service

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCartAdd_Accumulates(t *testing.T) {
	gdb := testutil.OpenInMemoryDB(t)
	cart := NewCartService(gdb)
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.RoleUser)
	product := testutil.CreateProduct(t, gdb, "camera", 100)

	first, err := cart.Add(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := cart.Add(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, first.ID, second.ID, "the existing row must be reused")

	lines, err := cart.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, lines[0].LineTotal.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, product.ID, lines[0].ProductID)
	assert.Equal(t, first.ID, lines[0].CartItemID)
}

func TestCartAdd_Concurrent(t *testing.T) {
	gdb := testutil.OpenFileDB(t, 8)
	cart := NewCartService(gdb)
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.RoleUser)
	product := testutil.CreateProduct(t, gdb, "camera", 100)

	var mu sync.Mutex
	var inserts []string
	require.NoError(t, gdb.Callback().Create().After("gorm:create").Register("test:capture_sql", func(tx *gorm.DB) {
		if tx.Statement.Table == "cart_items" {
			mu.Lock()
			inserts = append(inserts, tx.Statement.SQL.String())
			mu.Unlock()
		}
	}))

	const n = 20
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			<-start
			_, err := cart.Add(ctx, user.ID, product.ID, q)
			errs <- err
		}(i)
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var rows []domain.CartItem
	require.NoError(t, gdb.Where("user_id = ? AND product_id = ?", user.ID, product.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, n*(n+1)/2, rows[0].Quantity)

	// Every add is one insert-or-increment statement; the database applies it atomically
	require.Len(t, inserts, n)
	for _, stmt := range inserts {
		assert.Contains(t, stmt, "ON CONFLICT")
		assert.Contains(t, stmt, "cart_items.quantity +")
	}
}

func TestCartAdd_Validation(t *testing.T) {
	gdb := testutil.OpenInMemoryDB(t)
	cart := NewCartService(gdb)
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.RoleUser)
	product := testutil.CreateProduct(t, gdb, "camera", 100)

	_, err := cart.Add(ctx, user.ID, product.ID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = cart.Add(ctx, user.ID, product.ID, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = cart.Add(ctx, user.ID, "", 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = cart.Add(ctx, user.ID, "no-such-product", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartSetQuantity(t *testing.T) {
	gdb := testutil.OpenInMemoryDB(t)
	cart := NewCartService(gdb)
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.RoleUser)
	product := testutil.CreateProduct(t, gdb, "camera", 100)

	item, err := cart.Add(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	updated, err := cart.SetQuantity(ctx, item.ID, user.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 7, updated.Quantity)

	_, err = cart.SetQuantity(ctx, item.ID, user.ID, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	removed, err := cart.SetQuantity(ctx, item.ID, user.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, removed)

	lines, err := cart.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = cart.SetQuantity(ctx, item.ID, user.ID, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cart.SetQuantity(ctx, item.ID, user.ID, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCart_OwnershipIsolation(t *testing.T) {
	gdb := testutil.OpenInMemoryDB(t)
	cart := NewCartService(gdb)
	ctx := context.Background()
	alice := testutil.CreateUser(t, gdb, "alice@example.com", domain.RoleUser)
	mallory := testutil.CreateUser(t, gdb, "mallory@example.com", domain.RoleUser)
	product := testutil.CreateProduct(t, gdb, "camera", 100)

	item, err := cart.Add(ctx, alice.ID, product.ID, 2)
	require.NoError(t, err)

	_, err = cart.SetQuantity(ctx, item.ID, mallory.ID, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cart.SetQuantity(ctx, item.ID, mallory.ID, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, cart.Remove(ctx, item.ID, mallory.ID), domain.ErrNotFound)

	lines, err := cart.List(ctx, mallory.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = cart.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartRemoveAndClear(t *testing.T) {
	gdb := testutil.OpenInMemoryDB(t)
	cart := NewCartService(gdb)
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.RoleUser)
	p1 := testutil.CreateProduct(t, gdb, "camera", 100)
	p2 := testutil.CreateProduct(t, gdb, "mouse", 25)

	i1, err := cart.Add(ctx, user.ID, p1.ID, 1)
	require.NoError(t, err)
	_, err = cart.Add(ctx, user.ID, p2.ID, 4)
	require.NoError(t, err)

	lines, err := cart.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, p1.ID, lines[0].ProductID, "rows are listed in insertion order")

	require.NoError(t, cart.Remove(ctx, i1.ID, user.ID))
	assert.ErrorIs(t, cart.Remove(ctx, i1.ID, user.ID), domain.ErrNotFound)

	removed, err := cart.Clear(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	removed, err = cart.Clear(ctx, user.ID)
	require.NoError(t, err, "clearing an empty cart is a no-op")
	assert.EqualValues(t, 0, removed)
}
