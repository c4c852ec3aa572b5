package persistence

import (
	"context"
	_ "embed"

	"github.com/readcircle/readcircle-sdk/pkg/composables"
)

//go:embed schema/core-schema.sql
var schemaSQL string

// SchemaSQL returns the DDL for the tables this package owns.
func SchemaSQL() string {
	return schemaSQL
}

// ApplySchema creates the tables this package owns. Every statement is
// idempotent, so repeated runs are safe.
func ApplySchema(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, schemaSQL)
	return err
}
