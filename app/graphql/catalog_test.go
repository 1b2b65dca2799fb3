package graphql_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/shashiranjanraj/kashvi-shop/app/graphql"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories/memory"
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
	"github.com/shashiranjanraj/kashvi-shop/pkg/graphql"
)

func TestCatalogQueries(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cats := services.NewCategoryService(store.Categories, cache.Nop())
	products := services.NewProductService(store.Products, store.Categories, nil, cache.Nop())

	cat, err := cats.Create(ctx, services.CreateCategoryInput{Name: "Shoes"})
	require.NoError(t, err)
	_, err = products.Create(ctx, services.CreateProductInput{
		Name: "Trail Runner", Price: 120, CategoryID: cat.ID.Hex(), Material: "mesh", Brand: "Acme",
		Sizes: []services.SizeInput{{Size: "L", Stock: 3}},
	}, nil)
	require.NoError(t, err)

	schema, err := (&catalog.Catalog{Categories: cats, Products: products}).Schema()
	require.NoError(t, err)
	h := graphql.Handler(schema)

	body := `{"query":"{ productBySlug(slug: \"trail-runner\") { name price sizes { size stock } category { name slug } } categories { id name } }"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Data struct {
			ProductBySlug struct {
				Name  string
				Price float64
				Sizes []struct {
					Size  string
					Stock int
				}
				Category struct{ Name, Slug string }
			}
			Categories []struct{ ID, Name string }
		}
		Errors []json.RawMessage
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Errors)
	assert.Equal(t, "Trail Runner", res.Data.ProductBySlug.Name)
	assert.Equal(t, 120.0, res.Data.ProductBySlug.Price)
	assert.Equal(t, "L", res.Data.ProductBySlug.Sizes[0].Size)
	assert.Equal(t, "shoes", res.Data.ProductBySlug.Category.Slug)
	require.Len(t, res.Data.Categories, 1)
	assert.Equal(t, cat.ID.Hex(), res.Data.Categories[0].ID)
}

func TestHandlerRejectsEmptyBody(t *testing.T) {
	schema, err := (&catalog.Catalog{}).Schema()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	graphql.Handler(schema).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
