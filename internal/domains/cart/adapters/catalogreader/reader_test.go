package catalogreader

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartports "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
)

func TestReader_ResolvesAndTranslatesMisses(t *testing.T) {
	ctx := context.Background()
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	dish, err := catalog.CreateDish(ctx, &catalogdomain.Dish{CategoryID: 1, Name: "Wontons", Image: "w.png", Price: decimal.NewFromInt(15), Status: catalogdomain.StatusEnabled})
	require.NoError(t, err)

	reader := New(catalog)
	product, err := reader.Dish(ctx, dish.ID)
	require.NoError(t, err)
	require.Equal(t, "Wontons", product.Name)
	require.True(t, product.Price.Equal(decimal.NewFromInt(15)))

	_, err = reader.Setmeal(ctx, 404)
	require.ErrorIs(t, err, cartports.ErrProductNotFound)
}
