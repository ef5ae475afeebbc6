package kafka_test

import (
	"context"
	"testing"

	"go-attend/internal/events"
	"go-attend/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func pendingEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:          uuid.NewString(),
		TraceID:     "trace-1",
		Source:      "regularization",
		RecipientID: uuid.NewString(),
		EventType:   events.EventRegularizationDecided,
		Topic:       events.NotificationTopic,
		Payload:     []byte(`{"status":"APPROVED"}`),
		Status:      kafka.OutboxStatusPending,
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success inserts pending row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO notification_outbox").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := kafka.NewOutboxRepository(db)
		assert.NoError(t, repo.Create(ctx, pendingEvent()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success create joins the caller transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		tx, err := db.Begin()
		assert.NoError(t, err)

		mock.ExpectExec("INSERT INTO notification_outbox").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := kafka.NewOutboxRepository(db).WithTx(tx)
		assert.NoError(t, repo.Create(ctx, pendingEvent()))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative undeliverable event is rejected before SQL", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := pendingEvent()
		event.Topic = ""

		repo := kafka.NewOutboxRepository(db)
		assert.Error(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestValidateOutboxEvent(t *testing.T) {
	t.Run("success pending event is deliverable", func(t *testing.T) {
		assert.NoError(t, kafka.ValidateOutboxEvent(pendingEvent()))
	})

	t.Run("negative empty payload", func(t *testing.T) {
		event := pendingEvent()
		event.Payload = nil
		assert.Error(t, kafka.ValidateOutboxEvent(event))
	})

	t.Run("negative unknown status", func(t *testing.T) {
		event := pendingEvent()
		event.Status = "queued"
		assert.Error(t, kafka.ValidateOutboxEvent(event))
	})
}
