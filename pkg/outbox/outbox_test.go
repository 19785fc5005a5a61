package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/dbtest"
	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/enums"
)

func TestEmitPersistsEnvelope(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderAccepted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   1001,
			Actor:         &ActorRef{UserID: 9, ResellerID: 3},
			Data:          map[string]any{"status": "aceito"},
		})
	})
	require.NoError(t, err)

	var rows []models.OutboxEvent
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.EventOrderAccepted, rows[0].EventType)
	assert.Equal(t, int64(1001), rows[0].AggregateID)

	envelope, err := DecodeEnvelope(rows[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, rows[0].ID.String(), envelope.EventID)
	assert.Equal(t, 1, envelope.Version)
	assert.Equal(t, int64(3), envelope.Actor.ResellerID)
	assert.JSONEq(t, `{"status":"aceito"}`, string(envelope.Data))
}

func TestEmitRequiresTransactionAndValidTypes(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	assert.Error(t, svc.Emit(context.Background(), nil, DomainEvent{}))

	db := dbtest.Open(t)
	err := svc.Emit(context.Background(), db, DomainEvent{
		EventType:     "order_shipped",
		AggregateType: enums.AggregateOrder,
	})
	assert.Error(t, err)
}

func TestEmitRollsBackWithTransaction(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(NewRepository(db), nil)

	_ = db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderRejected,
			AggregateType: enums.AggregateOrder,
			AggregateID:   5,
		}))
		return errors.New("abort")
	})

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFetchAndMarkLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, svc.Emit(ctx, db, DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   i,
		}))
	}

	now := time.Now().UTC()
	rows, err := repo.FetchUnpublishedForPublish(db, 10, 3, now)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.NoError(t, repo.MarkPublishedTx(db, rows[0].ID))
	require.NoError(t, repo.MarkFailedTx(db, rows[1].ID, errors.New("unavailable"), now.Add(time.Minute)))
	require.NoError(t, repo.MarkTerminalTx(db, rows[2].ID, errors.New("bad payload"), 3))

	due, err := repo.FetchUnpublishedForPublish(db, 10, 3, now)
	require.NoError(t, err)
	assert.Empty(t, due, "published, backed-off and terminal rows must not be claimed")

	later, err := repo.FetchUnpublishedForPublish(db, 10, 3, now.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, rows[1].ID, later[0].ID)
	assert.Equal(t, 1, later[0].AttemptCount)
	require.NotNil(t, later[0].LastError)
	assert.Equal(t, "unavailable", *later[0].LastError)
}
