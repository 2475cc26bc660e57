package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/mq"
)

type fakeDB struct {
	db.DB
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type mockOutboxMsgRepository struct {
	mock.Mock
}

func (m *mockOutboxMsgRepository) WithDB(db.DB) repository.OutboxMsgRepository {
	return m
}

func (m *mockOutboxMsgRepository) CreateOutboxMsg(ctx context.Context, params repository.CreateOutboxMsgParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *mockOutboxMsgRepository) ListUnprocessedOutboxMsgs(ctx context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ListUnprocessedOutboxMsgsResult), args.Error(1)
}

func (m *mockOutboxMsgRepository) BulkUpdateOutboxMsgs(ctx context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *mockOutboxMsgRepository) DeleteProcessedOutboxMsgs(ctx context.Context, params repository.DeleteProcessedOutboxMsgsParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg.Topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.produced = append(p.produced, msg)
	return nil
}

func newTestService(repo *mockOutboxMsgRepository, producer mq.Producer) *Service {
	return NewService(
		config.Relay{BatchSize: 10, Interval: 10 * time.Millisecond, Concurrency: 2, Retention: time.Hour},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		&fakeDB{},
		repo,
		producer,
	)
}

func TestService_RelayBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should produce every message and record failures", func(t *testing.T) {
		repo := &mockOutboxMsgRepository{}
		producer := &fakeProducer{failOn: "product.deleted"}
		svc := newTestService(repo, producer)

		ok1, ok2, failed := uuid.New(), uuid.New(), uuid.New()
		repo.On("ListUnprocessedOutboxMsgs", mock.Anything, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 10}).
			Return([]repository.ListUnprocessedOutboxMsgsResult{
				{ID: ok1, Topic: "product.created", Payload: json.RawMessage(`{}`)},
				{ID: ok2, Topic: "product.updated", Payload: json.RawMessage(`{}`)},
				{ID: failed, Topic: "product.deleted", Payload: json.RawMessage(`{}`)},
			}, nil).Once()

		var update repository.BulkUpdateOutboxMsgsParams
		repo.On("BulkUpdateOutboxMsgs", mock.Anything, mock.MatchedBy(func(p repository.BulkUpdateOutboxMsgsParams) bool {
			update = p
			return len(p.Items) == 3
		})).Return(nil).Once()

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Len(t, producer.produced, 2)

		errs := map[uuid.UUID]*string{}
		for _, item := range update.Items {
			errs[item.ID] = item.Error
		}
		assert.Nil(t, errs[ok1])
		assert.Nil(t, errs[ok2])
		require.NotNil(t, errs[failed])
		assert.Contains(t, *errs[failed], "broker unavailable")

		repo.AssertExpectations(t)
	})

	t.Run("Should do nothing on an empty outbox", func(t *testing.T) {
		repo := &mockOutboxMsgRepository{}
		svc := newTestService(repo, &fakeProducer{})

		repo.On("ListUnprocessedOutboxMsgs", mock.Anything, mock.Anything).
			Return([]repository.ListUnprocessedOutboxMsgsResult{}, nil).Once()

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		repo.AssertNotCalled(t, "BulkUpdateOutboxMsgs", mock.Anything, mock.Anything)
	})

	t.Run("Should surface list errors", func(t *testing.T) {
		repo := &mockOutboxMsgRepository{}
		svc := newTestService(repo, &fakeProducer{})

		repo.On("ListUnprocessedOutboxMsgs", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := svc.RelayBatch(ctx)
		require.Error(t, err)
	})
}

func TestService_Prune(t *testing.T) {
	repo := &mockOutboxMsgRepository{}
	svc := newTestService(repo, &fakeProducer{})
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("DeleteProcessedOutboxMsgs", mock.Anything, repository.DeleteProcessedOutboxMsgsParams{
		ProcessedBefore: now.Add(-time.Hour),
	}).Return(int64(4), nil).Once()

	n, err := svc.Prune(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	svc.cfg.Retention = 0
	n, err = svc.Prune(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	repo.AssertExpectations(t)
}

func TestService_RunStops(t *testing.T) {
	repo := &mockOutboxMsgRepository{}
	svc := newTestService(repo, &fakeProducer{})

	repo.On("ListUnprocessedOutboxMsgs", mock.Anything, mock.Anything).
		Return([]repository.ListUnprocessedOutboxMsgsResult{}, nil).Maybe()

	cleanup := svc.Run(context.Background())
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		cleanup()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
