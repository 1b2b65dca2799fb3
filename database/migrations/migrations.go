// Package migrations holds the schema changes of the shop's Mongo database.
// Each file registers itself from init(); blank-import this package wherever
// the migration runner is used.
package migrations
