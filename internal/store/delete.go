package store

import (
	"context"
	"fmt"

	"github.com/trailtrack/apiserver/internal/dbx"
)

// deleteOwned removes one row of table owned by ownerID. table is always a
// package constant, never caller input.
func deleteOwned(ctx context.Context, db dbx.DBTX, table string, ownerID, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, table)
	result, err := db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
