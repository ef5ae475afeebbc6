package txn

import (
	"context"
	"database/sql"
)

// Run executes fn inside a database transaction. The transaction is always
// released: committed when fn returns nil, rolled back on error or panic.
// Every multi-document write path goes through this helper so no call site
// can leave a transaction open.
func Run(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
