package worker

// history_worker.go
// Processes transfer history snapshot jobs from QueueHistory.
// The snapshot is fully materialized by the transfer service before enqueue,
// so the worker only has to persist it. A transfer is already committed by
// the time a job lands here: failures never roll the transfer back, they end
// up in the DLQ for the retry cron.

import (
	"context"
	"encoding/json"

	"primemotors/internal/model"
	"primemotors/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const historyWriteAttempts = 3

// HistoryWorker persists transfer history snapshots from QueueHistory.
type HistoryWorker struct {
	historyRepo repository.TransferredHistoryRepository
	rdb         *redis.Client
}

func NewHistoryWorker(historyRepo repository.TransferredHistoryRepository, rdb *redis.Client) *HistoryWorker {
	return &HistoryWorker{historyRepo: historyRepo, rdb: rdb}
}

// Process writes one snapshot, retrying transient storage errors. After the
// final attempt the raw payload moves to the DLQ.
func (w *HistoryWorker) Process(ctx context.Context, raw json.RawMessage) {
	var snap model.TransferredHistory
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Error().Err(err).Msg("history_worker: invalid payload")
		return
	}

	err := withRetry(ctx, historyWriteAttempts, func(attempt int) error {
		if err := w.historyRepo.Create(ctx, &snap); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("unit_id", snap.OriginalVehicleUnitID.String()).
				Msg("history_worker: snapshot write failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("unit_id", snap.OriginalVehicleUnitID.String()).
			Str("inventory_id", snap.OriginalInventoryID.String()).
			Msg("history_worker: snapshot write failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueHistory, "history_snapshot", raw, err.Error(), historyWriteAttempts)
		return
	}
	log.Info().
		Str("unit_id", snap.OriginalVehicleUnitID.String()).
		Msg("history_worker: snapshot persisted")
}
