package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/repository"
	"github.com/sangkips/scanpay/pkg/apperror"
)

func intp(v int) *int { return &v }

func TestHomeJoinsPopularityByName(t *testing.T) {
	catalog := &fakeCatalog{
		products: []entity.Product{
			{ID: "p1", Name: "Milk", Price: 45.5},
			{ID: "p2", Name: "Tea", Price: 12},
		},
		popularity: []entity.Popularity{
			{ID: "Milk", Count: 7},
			{ID: "p2", Count: 99},
		},
	}
	svc := NewCatalogService(catalog, zap.NewNop())

	cards, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 7, cards[0].Popularity)
	assert.Equal(t, 0, cards[1].Popularity)
}

func TestHomeFailure(t *testing.T) {
	svc := NewCatalogService(&fakeCatalog{err: repository.ErrCatalogTimeout}, zap.NewNop())
	_, err := svc.Home(context.Background())
	assert.Equal(t, apperror.KindTimeout, apperror.KindOf(err))
}

func TestStoreMapLabels(t *testing.T) {
	catalog := &fakeCatalog{products: []entity.Product{
		{ID: "p1", Name: "Milk", Brand: "Amul", Location: &entity.Location{Floor: intp(1), Row: intp(2), Column: intp(3), Drawer: intp(4)}},
		{ID: "p2", Name: "Tea", Location: &entity.Location{Row: intp(5)}},
		{ID: "p3", Name: "Rice"},
	}}
	svc := NewCatalogService(catalog, zap.NewNop())

	slots, err := svc.StoreMap(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, "R2-C3-D4", slots[0].Label)
	assert.Equal(t, "Amul", slots[0].Brand)
	assert.Equal(t, "1", slots[0].Floor)

	assert.Equal(t, "R5-CN/A-DN/A", slots[1].Label)
	assert.Equal(t, "N/A", slots[1].Brand)

	assert.Equal(t, "RN/A-CN/A-DN/A", slots[2].Label)
	assert.Equal(t, "N/A", slots[2].Floor)
}
