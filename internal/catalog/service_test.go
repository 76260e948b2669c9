package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewMemoryRepository())
	require.NoError(t, err)
	return svc
}

func TestServiceCreateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ItemInput{Name: "Wollsocken", UnitPriceCents: 2999, Category: "Textil"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ItemInput{Name: "Decke", UnitPriceCents: 7999, Category: "Textil"})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// sorted by name
	assert.Equal(t, "Decke", items[0].Name)
	assert.Equal(t, money.Cents(7999), items[0].UnitPriceCents)
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ItemInput{Name: "  ", UnitPriceCents: 100})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, ItemInput{Name: "Kerze", UnitPriceCents: -1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceUpdatePriceCorrection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, ItemInput{Name: "Kerze", UnitPriceCents: 500})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, ItemInput{Name: "Kerze", UnitPriceCents: 550})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(550), updated.UnitPriceCents)

	_, err = svc.Update(ctx, 999, ItemInput{Name: "Kerze", UnitPriceCents: 550})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, ItemInput{Name: "Kerze", UnitPriceCents: 500})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))
	err = svc.Delete(ctx, item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceCategoriesDeduplicated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, in := range []ItemInput{
		{Name: "Wollsocken", UnitPriceCents: 2999, Category: "Textil"},
		{Name: "Decke", UnitPriceCents: 7999, Category: "Textil"},
		{Name: "Kerze", UnitPriceCents: 500, Category: "Deko"},
		{Name: "Gutschein", UnitPriceCents: 0},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Textil", "Deko"}, categories)
}
