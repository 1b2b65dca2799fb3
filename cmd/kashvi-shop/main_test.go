package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationData(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	d := migrationData("Add orders-status index", now)
	assert.Equal(t, "20260304050607_add_orders_status_index", d.Name)
	assert.Equal(t, "AddOrdersStatusIndex", d.StructName)
}

func TestPrintRoutes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRoutes(&out))

	table := out.String()
	assert.Contains(t, table, "/auth/sign-in")
	assert.Contains(t, table, "carts.all")
	assert.Regexp(t, `DELETE\s+/orders/\{id\}\s+orders.destroy\s+admin`, table)
	assert.Regexp(t, `GET\s+/users/roles\s+users.roles\s+authenticated`, table)
	assert.Regexp(t, `GET\s+/products\s+products.index\s+public`, table)
}
