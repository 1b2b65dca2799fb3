package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"         json:"_id"`
	Name        string             `bson:"name"                  json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Slug        string             `bson:"slug"                  json:"slug"`
	CreatedAt   time.Time          `bson:"createdAt"             json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"             json:"updatedAt"`
}
