// Package graphql exposes the catalog as a read-only GraphQL schema.
package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	schema "github.com/shashiranjanraj/kashvi-shop/pkg/graphql"
)

// Catalog answers the catalog queries.
type Catalog struct {
	Categories *services.CategoryService
	Products   *services.ProductService
}

func objectID(id primitive.ObjectID) string { return id.Hex() }

var sizeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SizeStock",
	Fields: graphql.Fields{
		"size": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return string(p.Source.(models.SizeStock).Size), nil
		}},
		"quantity": &graphql.Field{Type: graphql.Int},
		"stock":    &graphql.Field{Type: graphql.Int},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return objectID(p.Source.(models.Category).ID), nil
		}},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
	},
})

func (c *Catalog) productType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return objectID(p.Source.(models.Product).ID), nil
			}},
			"name":          &graphql.Field{Type: graphql.String},
			"slug":          &graphql.Field{Type: graphql.String},
			"description":   &graphql.Field{Type: graphql.String},
			"thumbnailUrl":  &graphql.Field{Type: graphql.String},
			"price":         &graphql.Field{Type: graphql.Float},
			"ratingAverage": &graphql.Field{Type: graphql.Float},
			"material":      &graphql.Field{Type: graphql.String},
			"brand":         &graphql.Field{Type: graphql.String},
			"isPublished":   &graphql.Field{Type: graphql.Boolean},
			"sizes":         &graphql.Field{Type: graphql.NewList(sizeType)},
			"category": &graphql.Field{
				Type: categoryType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cat, err := c.Categories.FindByID(p.Context, p.Source.(models.Product).CategoryID)
					if err != nil {
						// a removed category resolves to null
						return nil, nil
					}
					return cat, nil
				},
			},
		},
	})
}

// Schema builds the catalog schema:
//
//	categories, category(id), products, product(id), productBySlug(slug)
func (c *Catalog) Schema() (graphql.Schema, error) {
	product := c.productType()
	idArg := graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return c.Categories.All(p.Context)
				},
			},
			"category": &graphql.Field{
				Type: categoryType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return byID(p, c.Categories.FindByID)
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(product),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return c.Products.All(p.Context)
				},
			},
			"product": &graphql.Field{
				Type: product,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return byID(p, c.Products.FindByID)
				},
			},
			"productBySlug": &graphql.Field{
				Type: product,
				Args: graphql.FieldConfigArgument{"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					slug, _ := p.Args["slug"].(string)
					return c.Products.FindBySlug(p.Context, slug)
				},
			},
		},
	})
	return schema.NewSchema(query)
}

func byID[T any](p graphql.ResolveParams, find func(context.Context, primitive.ObjectID) (T, error)) (interface{}, error) {
	hex, _ := p.Args["id"].(string)
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, err
	}
	return find(p.Context, id)
}
