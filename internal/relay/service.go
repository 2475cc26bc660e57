package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/product-catalog/pkg/outbox"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

// pruneEvery is how many relay ticks pass between retention sweeps.
const pruneEvery = 60

// Service moves outbox messages to the broker.
type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer
	now           func() time.Time

	stopChan chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
			<-stoppedChan
		}
		cancel()
	}
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.RelayBatch(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
			}

			if tick%pruneEvery == 0 {
				if _, err := s.Prune(ctx); err != nil {
					s.logger.ErrorContext(ctx, "error pruning outbox msgs", slog.Any("error", err))
				}
			}
		}
	}
}

// RelayBatch publishes one batch of unprocessed messages and marks each one
// processed, recording the produce error if there was one. It returns the
// number of messages handled.
func (s *Service) RelayBatch(ctx context.Context) (int, error) {
	var relayed int

	err := s.db.WithTx(ctx, func(db db.DB) error {
		outboxMsgs, err := s.outboxMsgRepo.
			WithDB(db).
			ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
				//nolint:gosec
				BatchSize: int32(s.cfg.BatchSize),
			})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		if len(outboxMsgs) == 0 {
			return nil
		}

		s.logger.InfoContext(ctx, "relaying outbox msgs", slog.Int("count", len(outboxMsgs)))

		items := make([]repository.BulkUpdateOutboxMsgsItem, 0, len(outboxMsgs))
		var mu sync.Mutex

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(s.cfg.Concurrency, 1))

		for _, msg := range outboxMsgs {
			g.Go(func() error {
				item := repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}

				msgCtx := outbox.ExtractContextFromHeaders(gctx, msg.Headers)
				if err := s.mqProducer.Produce(msgCtx, mq.ProduceMsg{
					Topic:        msg.Topic,
					Headers:      msg.Headers,
					Payload:      msg.Payload,
					PartitionKey: msg.PartitionKey,
				}); err != nil {
					s.logger.ErrorContext(msgCtx,
						"error producing message",
						slog.String("outbox_msg_id", msg.ID.String()),
						slog.String("topic", msg.Topic),
						slog.Any("error", err),
					)
					item.Error = ptr.New(err.Error())
				}

				mu.Lock()
				items = append(items, item)
				mu.Unlock()

				// Produce failures are recorded per message, never abort the batch.
				return nil
			})
		}

		_ = g.Wait()

		if err := s.outboxMsgRepo.
			WithDB(db).
			BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
				Items: items,
			}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		relayed = len(items)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	return relayed, nil
}

// Prune deletes processed messages older than the retention period.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	if s.cfg.Retention <= 0 {
		return 0, nil
	}

	deleted, err := s.outboxMsgRepo.DeleteProcessedOutboxMsgs(ctx, repository.DeleteProcessedOutboxMsgsParams{
		ProcessedBefore: s.now().Add(-s.cfg.Retention),
	})
	if err != nil {
		return 0, fmt.Errorf("delete processed outbox msgs: %w", err)
	}

	if deleted > 0 {
		s.logger.InfoContext(ctx, "pruned outbox msgs", slog.Int64("count", deleted))
	}

	return deleted, nil
}
