package postgres

import (
	"time"
)

// PgRegistryItem is a row of the registry_items table.
type PgRegistryItem struct {
	URL string `db:"url"`

	// CreatedAt is when the item was first confirmed. Rows that survive a Save
	// keep their original value.
	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}
