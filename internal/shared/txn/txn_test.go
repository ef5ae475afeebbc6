package txn_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-attend/internal/shared/txn"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("success commits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		called := false
		err = txn.Run(ctx, db, func(tx *sql.Tx) error {
			called = true
			return nil
		})

		assert.NoError(t, err)
		assert.True(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative fn error rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = txn.Run(ctx, db, func(tx *sql.Tx) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative begin failure surfaces", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		err = txn.Run(ctx, db, func(tx *sql.Tx) error {
			t.Fatal("fn must not run when begin fails")
			return nil
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
