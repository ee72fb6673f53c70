package service

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func decStr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func validInput() ProductInput {
	return ProductInput{
		Name:        strPtr("Camera"),
		Description: strPtr("Mirrorless"),
		Price:       decPtr(100),
		ImageURL:    strPtr("/camera.jpg"),
	}
}

func TestCatalogCreate(t *testing.T) {
	catalog := NewCatalogService(testutil.OpenInMemoryDB(t), nil)
	ctx := context.Background()

	p, err := catalog.Create(ctx, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	got, _, err := catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camera", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(100)))

	for _, mutate := range []func(*ProductInput){
		func(in *ProductInput) { in.Name = nil },
		func(in *ProductInput) { in.Description = strPtr("") },
		func(in *ProductInput) { in.ImageURL = nil },
		func(in *ProductInput) { in.Price = nil },
		func(in *ProductInput) { in.Price = decPtr(0) },
		func(in *ProductInput) { in.Price = decPtr(-5) },
		func(in *ProductInput) { in.Price = decStr("0.001") },
		func(in *ProductInput) { in.Price = decStr("19.999") },
		func(in *ProductInput) { in.Price = decStr("10000000000") },
	} {
		in := validInput()
		mutate(&in)
		_, err := catalog.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	top := validInput()
	top.Price = decStr("9999999999.99")
	p, err = catalog.Create(ctx, top)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9999999999.99")))
}

func TestCatalogUpdate(t *testing.T) {
	catalog := NewCatalogService(testutil.OpenInMemoryDB(t), nil)
	ctx := context.Background()
	p, err := catalog.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = catalog.Update(ctx, p.ID, ProductInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	for _, bad := range []string{"0", "-10", "0.001", "10000000000"} {
		_, err = catalog.Update(ctx, p.ID, ProductInput{Price: decStr(bad), Name: strPtr("Renamed")})
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
	unchanged, _, err := catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.Price.Equal(decimal.NewFromInt(100)), "price must survive a rejected update")
	assert.Equal(t, "Camera", unchanged.Name)

	updated, err := catalog.Update(ctx, p.ID, ProductInput{Price: decPtr(250)})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "Camera", updated.Name, "fields not provided are kept")

	_, err = catalog.Update(ctx, "missing", ProductInput{Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogDelete(t *testing.T) {
	gdb := testutil.OpenInMemoryDB(t)
	catalog := NewCatalogService(gdb, nil)
	cart := NewCartService(gdb)
	ctx := context.Background()
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.RoleUser)
	p := testutil.CreateProduct(t, gdb, "camera", 100)
	_, err := cart.Add(ctx, user.ID, p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(ctx, p.ID))
	assert.ErrorIs(t, catalog.Delete(ctx, p.ID), domain.ErrNotFound)

	_, _, err = catalog.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lines, err := cart.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines, "cart rows go with their product")
}

func TestCatalogCache(t *testing.T) {
	gdb := testutil.OpenInMemoryDB(t)
	mr, rdb := testutil.NewRedis(t)
	catalog := NewCatalogService(gdb, rdb)
	ctx := context.Background()
	p := testutil.CreateProduct(t, gdb, "camera", 100)

	list, cached, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, list, 1)

	list, cached, err = catalog.List(ctx)
	require.NoError(t, err)
	assert.True(t, cached)
	require.Len(t, list, 1)
	assert.True(t, list[0].Price.Equal(decimal.NewFromInt(100)))

	_, cached, err = catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.True(t, mr.Exists("product:"+p.ID))

	_, err = catalog.Update(ctx, p.ID, ProductInput{Price: decPtr(120)})
	require.NoError(t, err)
	assert.False(t, mr.Exists("products:all"))
	assert.False(t, mr.Exists("product:"+p.ID))

	got, cached, err := catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(120)))
}
