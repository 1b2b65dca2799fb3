package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Size is a garment size.
type Size string

const (
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

const (
	DefaultRating = 4.5
	MinRating     = 1.0
	MaxRating     = 5.0
)

// SizeStock is the per-size inventory of a product.
type SizeStock struct {
	Size     Size `bson:"size"     json:"size"`
	Quantity int  `bson:"quantity" json:"quantity"`
	Stock    int  `bson:"stock"    json:"stock"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"          json:"_id"`
	Name          string             `bson:"name"                   json:"name"`
	ThumbnailURL  string             `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	Description   string             `bson:"description,omitempty"  json:"description,omitempty"`
	Price         float64            `bson:"price"                  json:"price"`
	CategoryID    primitive.ObjectID `bson:"categoryId"             json:"categoryId"`
	RatingAverage float64            `bson:"ratingAverage"          json:"ratingAverage"`
	Sizes         []SizeStock        `bson:"sizes"                  json:"sizes"`
	Material      string             `bson:"material"               json:"material"`
	Brand         string             `bson:"brand"                  json:"brand"`
	IsDraft       bool               `bson:"isDraft"                json:"isDraft"`
	IsPublished   bool               `bson:"isPublished"            json:"isPublished"`
	Slug          string             `bson:"slug"                   json:"slug"`
	CreatedAt     time.Time          `bson:"createdAt"              json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"              json:"updatedAt"`
}
