package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
	"github.com/shashiranjanraj/kashvi-shop/pkg/storage"
)

func TestCategory_SlugAndUniqueName(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := services.NewCategoryService(store.Categories, cache.New(cache.NewMemoryStore()))

	c, err := svc.Create(ctx, services.CreateCategoryInput{Name: "  Winter Coats "})
	require.NoError(t, err)
	assert.Equal(t, "Winter Coats", c.Name)
	assert.Equal(t, "winter-coats", c.Slug)

	_, err = svc.Create(ctx, services.CreateCategoryInput{Name: "Winter Coats"})
	requireKind(t, err, apperr.Conflict)

	desc := "warm"
	got, err := svc.Update(ctx, c.ID, services.UpdateCategoryInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "winter-coats", got.Slug, "slug stays without a new name")

	name := "Rain Gear"
	got, err = svc.Update(ctx, c.ID, services.UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "rain-gear", got.Slug)

	_, err = svc.Create(ctx, services.CreateCategoryInput{Name: "Shoes"})
	require.NoError(t, err)
	clash := "Shoes"
	_, err = svc.Update(ctx, c.ID, services.UpdateCategoryInput{Name: &clash})
	requireKind(t, err, apperr.Conflict)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Remove(ctx, c.ID)
	require.NoError(t, err)
	all, err = svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "removal invalidates the cached list")

	_, err = svc.FindByID(ctx, c.ID)
	requireKind(t, err, apperr.NotFound)
}

func TestCategory_NonLatinNamesGetDistinctSlugs(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := services.NewCategoryService(store.Categories, cache.Nop())

	shoes, err := svc.Create(ctx, services.CreateCategoryInput{Name: "Обувь"})
	require.NoError(t, err)
	clothes, err := svc.Create(ctx, services.CreateCategoryInput{Name: "Одежда"})
	require.NoError(t, err)

	assert.NotEmpty(t, shoes.Slug)
	assert.NotEmpty(t, clothes.Slug)
	assert.NotEqual(t, shoes.Slug, clothes.Slug)

	_, err = svc.Create(ctx, services.CreateCategoryInput{Name: "!!"})
	requireKind(t, err, apperr.ValidationFailed)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "name")

	bang := "?!"
	_, err = svc.Update(ctx, shoes.ID, services.UpdateCategoryInput{Name: &bang})
	requireKind(t, err, apperr.ValidationFailed)

	got, err := svc.FindByID(ctx, shoes.ID)
	require.NoError(t, err)
	assert.Equal(t, "Обувь", got.Name, "a rejected rename leaves the category untouched")
}

func TestProduct_RejectsNameWithoutSlug(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	cats := services.NewCategoryService(store.Categories, cache.Nop())
	svc := services.NewProductService(store.Products, store.Categories, nil, cache.Nop())

	cat, err := cats.Create(ctx, services.CreateCategoryInput{Name: "Shoes"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, services.CreateProductInput{Name: "--", CategoryID: cat.ID.Hex()}, nil)
	requireKind(t, err, apperr.ValidationFailed)

	p, err := svc.Create(ctx, services.CreateProductInput{Name: "鞋子", CategoryID: cat.ID.Hex()}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.Slug, "n-"), p.Slug)

	bySlug, err := svc.FindBySlug(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)
}

func TestProduct_CreateDefaultsAndSlug(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	cats := services.NewCategoryService(store.Categories, cache.Nop())
	uploads := services.NewUploadService(storage.NewLocalDisk(t.TempDir(), "http://cdn.test/"))
	svc := services.NewProductService(store.Products, store.Categories, uploads, cache.New(cache.NewMemoryStore()))

	cat, err := cats.Create(ctx, services.CreateCategoryInput{Name: "Shirts"})
	require.NoError(t, err)

	in := services.CreateProductInput{
		Name:       "Linen Shirt",
		Price:      29.9,
		CategoryID: cat.ID.Hex(),
		Material:   "linen",
		Brand:      "Acme",
		Sizes:      []services.SizeInput{{Size: "M", Quantity: 1, Stock: 10}},
	}

	_, err = svc.Create(ctx, services.CreateProductInput{Name: "x", CategoryID: primitive.NewObjectID().Hex()}, nil)
	requireKind(t, err, apperr.NotFound)

	p, err := svc.Create(ctx, in, &services.ImageFile{Name: "front.png", Size: 3, Body: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, "linen-shirt", p.Slug)
	assert.Equal(t, 4.5, p.RatingAverage)
	assert.True(t, p.IsDraft)
	assert.False(t, p.IsPublished)
	assert.True(t, strings.HasPrefix(p.ThumbnailURL, "http://cdn.test/project-nestjs/front_"))

	_, err = svc.Create(ctx, in, nil)
	requireKind(t, err, apperr.Conflict)

	name := "Linen Shirt Blue"
	published := true
	got, err := svc.Update(ctx, p.ID, services.UpdateProductInput{Name: &name, IsPublished: &published}, nil)
	require.NoError(t, err)
	assert.Equal(t, "linen-shirt-blue", got.Slug)
	assert.True(t, got.IsPublished)

	bySlug, err := svc.FindBySlug(ctx, "linen-shirt-blue")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)
	_, err = svc.FindBySlug(ctx, "linen-shirt")
	requireKind(t, err, apperr.NotFound)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Linen Shirt Blue", all[0].Name)
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocalDisk(t.TempDir(), "http://cdn.test/")
	svc := services.NewUploadService(disk)

	res, err := svc.Upload(ctx, services.ImageFile{Name: "My Photo.final.JPG", Size: 4, Body: strings.NewReader("jpeg")})
	require.NoError(t, err)
	assert.Regexp(t, `^project-nestjs/my-photo_\d+_[0-9a-f]{8}$`, res.PublicID)
	assert.Equal(t, int64(4), res.Size)
	assert.Equal(t, "http://cdn.test/"+res.PublicID+".jpg", res.URL)
	assert.True(t, disk.Exists(ctx, res.PublicID+".jpg"))

	again, err := svc.Upload(ctx, services.ImageFile{Name: "My Photo.final.JPG", Size: 5, Body: strings.NewReader("jpeg2")})
	require.NoError(t, err)
	assert.NotEqual(t, res.PublicID, again.PublicID, "same-named uploads get distinct keys")
	assert.True(t, disk.Exists(ctx, res.PublicID+".jpg"), "the first upload survives")

	_, err = svc.Upload(ctx, services.ImageFile{Name: "doc.pdf", Size: 1, Body: strings.NewReader("x")})
	requireKind(t, err, apperr.ValidationFailed)

	_, err = svc.Upload(ctx, services.ImageFile{Name: "big.png", Size: services.MaxUploadBytes + 1, Body: strings.NewReader("x")})
	requireKind(t, err, apperr.ValidationFailed)

	// declared size lies; the body is counted
	big := strings.NewReader(strings.Repeat("x", services.MaxUploadBytes+10))
	_, err = svc.Upload(ctx, services.ImageFile{Name: "liar.png", Size: 10, Body: big})
	requireKind(t, err, apperr.ValidationFailed)
}
