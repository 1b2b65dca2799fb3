package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
)

const productsCacheKey = "catalog:products"

type SizeInput struct {
	Size     string `json:"size"     validate:"required,in=S,M,L,XL,XXL"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Stock    int    `json:"stock"    validate:"gte=0"`
}

type CreateProductInput struct {
	Name          string      `json:"name"          validate:"required,min=2,max=200"`
	ThumbnailURL  string      `json:"thumbnailUrl"  validate:"nullable,url"`
	Description   string      `json:"description"   validate:"nullable,max=5000"`
	Price         float64     `json:"price"         validate:"gte=0"`
	CategoryID    string      `json:"categoryId"    validate:"required,objectid"`
	RatingAverage *float64    `json:"ratingAverage" validate:"nullable,between=1,5"`
	Sizes         []SizeInput `json:"sizes"         validate:"nullable,dive"`
	Material      string      `json:"material"      validate:"required,max=100"`
	Brand         string      `json:"brand"         validate:"required,max=100"`
	IsDraft       *bool       `json:"isDraft"`
	IsPublished   *bool       `json:"isPublished"`
}

// UpdateProductInput is a partial update. A nil Sizes leaves the sizes alone;
// an empty list clears them.
type UpdateProductInput struct {
	Name          *string     `json:"name"          validate:"nullable,min=2,max=200"`
	ThumbnailURL  *string     `json:"thumbnailUrl"  validate:"nullable,url"`
	Description   *string     `json:"description"   validate:"nullable,max=5000"`
	Price         *float64    `json:"price"         validate:"nullable,gte=0"`
	CategoryID    *string     `json:"categoryId"    validate:"nullable,objectid"`
	RatingAverage *float64    `json:"ratingAverage" validate:"nullable,between=1,5"`
	Sizes         []SizeInput `json:"sizes"         validate:"nullable,dive"`
	Material      *string     `json:"material"      validate:"nullable,max=100"`
	Brand         *string     `json:"brand"         validate:"nullable,max=100"`
	IsDraft       *bool       `json:"isDraft"`
	IsPublished   *bool       `json:"isPublished"`
}

type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	uploads    *UploadService
	cache      *cache.Cache
	clock      clock
}

func NewProductService(products repositories.ProductRepository, categories repositories.CategoryRepository, uploads *UploadService, c *cache.Cache) *ProductService {
	return &ProductService{products: products, categories: categories, uploads: uploads, cache: c}
}

// Create stores a product. When image is set it is uploaded first and its URL
// becomes the thumbnail.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput, image *ImageFile) (models.Product, error) {
	categoryID, err := s.category(ctx, in.CategoryID)
	if err != nil {
		return models.Product{}, err
	}

	now := s.clock.now()
	name := strings.TrimSpace(in.Name)
	sl, err := nameSlug(name)
	if err != nil {
		return models.Product{}, err
	}
	p := models.Product{
		Name:          name,
		ThumbnailURL:  in.ThumbnailURL,
		Description:   in.Description,
		Price:         in.Price,
		CategoryID:    categoryID,
		RatingAverage: models.DefaultRating,
		Sizes:         sizes(in.Sizes),
		Material:      in.Material,
		Brand:         in.Brand,
		IsDraft:       true,
		IsPublished:   false,
		Slug:          sl,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.RatingAverage != nil {
		p.RatingAverage = *in.RatingAverage
	}
	if in.IsDraft != nil {
		p.IsDraft = *in.IsDraft
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}

	if image != nil {
		up, err := s.uploads.Upload(ctx, *image)
		if err != nil {
			return models.Product{}, err
		}
		p.ThumbnailURL = up.URL
	}

	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, storeErr(err, "", "Product already exists")
	}
	s.cache.Forget(ctx, productsCacheKey)
	return p, nil
}

// All returns every product, served from the cache when warm.
func (s *ProductService) All(ctx context.Context) ([]models.Product, error) {
	return cache.Remember(ctx, s.cache, productsCacheKey, catalogCacheTTL, func() ([]models.Product, error) {
		return s.products.All(ctx)
	})
}

func (s *ProductService) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, storeErr(err, idNotFound("Product", id.Hex()), "")
	}
	return p, nil
}

func (s *ProductService) FindBySlug(ctx context.Context, productSlug string) (models.Product, error) {
	p, err := s.products.FindBySlug(ctx, productSlug)
	if err != nil {
		return models.Product{}, storeErr(err, fmt.Sprintf("Product with slug %q not found", productSlug), "")
	}
	return p, nil
}

// Update applies a partial update; the slug follows a new name.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, in UpdateProductInput, image *ImageFile) (models.Product, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		if p.Slug, err = nameSlug(p.Name); err != nil {
			return models.Product{}, err
		}
	}
	if in.CategoryID != nil {
		if p.CategoryID, err = s.category(ctx, *in.CategoryID); err != nil {
			return models.Product{}, err
		}
	}
	if in.ThumbnailURL != nil {
		p.ThumbnailURL = *in.ThumbnailURL
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.RatingAverage != nil {
		p.RatingAverage = *in.RatingAverage
	}
	if in.Sizes != nil {
		p.Sizes = sizes(in.Sizes)
	}
	if in.Material != nil {
		p.Material = *in.Material
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.IsDraft != nil {
		p.IsDraft = *in.IsDraft
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
	if image != nil {
		up, err := s.uploads.Upload(ctx, *image)
		if err != nil {
			return models.Product{}, err
		}
		p.ThumbnailURL = up.URL
	}
	p.UpdatedAt = s.clock.now()

	if err := s.products.Update(ctx, &p); err != nil {
		return models.Product{}, storeErr(err, idNotFound("Product", id.Hex()), "Product already exists")
	}
	s.cache.Forget(ctx, productsCacheKey)
	return p, nil
}

func (s *ProductService) Remove(ctx context.Context, id primitive.ObjectID) (Deleted, error) {
	if err := s.products.Delete(ctx, id); err != nil {
		return Deleted{}, storeErr(err, idNotFound("Product", id.Hex()), "")
	}
	s.cache.Forget(ctx, productsCacheKey)
	return deleted("Product", id.Hex()), nil
}

// category resolves a category id that must reference an existing category.
func (s *ProductService) category(ctx context.Context, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, storeErr(repositories.ErrNotFound, idNotFound("Category", hex), "")
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return primitive.NilObjectID, storeErr(err, idNotFound("Category", hex), "")
	}
	return id, nil
}

func sizes(in []SizeInput) []models.SizeStock {
	out := make([]models.SizeStock, 0, len(in))
	for _, s := range in {
		out = append(out, models.SizeStock{Size: models.Size(s.Size), Quantity: s.Quantity, Stock: s.Stock})
	}
	return out
}
