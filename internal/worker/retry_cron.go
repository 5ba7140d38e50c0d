package worker

// retry_cron.go
// Background goroutine that periodically drains the history snapshot DLQ and
// re-attempts the writes through a circuit breaker. A database that just
// recovered from an outage gets the backlog flushed in batches instead of a
// thundering herd.

import (
	"context"
	"encoding/json"
	"time"

	"primemotors/internal/infra"
	"primemotors/internal/model"
	"primemotors/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	HistoryRepo repository.TransferredHistoryRepository
	Breaker     *infra.HistoryBreaker
	RDB         *redis.Client
	// MaxAttempts is the total attempt budget per entry before it moves to
	// the dead list.
	MaxAttempts int
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// replays DLQ'd history snapshots through the circuit breaker.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If the breaker is open, skip entirely — don't hammer a recovering store
	if cfg.Breaker.State() == infra.BreakerOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueHistory
	for i := 0; i < retryBatchSize; i++ {
		// Check breaker state before each write — it may have tripped mid-batch
		if cfg.Breaker.State() == infra.BreakerOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			// redis.Nil means the DLQ is drained
			return
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: malformed DLQ entry, dropping to dead list")
			_ = cfg.RDB.LPush(ctx, DeadPrefix+QueueHistory, raw).Err()
			continue
		}

		var snap model.TransferredHistory
		if err := json.Unmarshal(entry.Payload, &snap); err != nil {
			log.Error().Err(err).Msg("retry_cron: malformed snapshot payload, dropping to dead list")
			_ = cfg.RDB.LPush(ctx, DeadPrefix+QueueHistory, raw).Err()
			continue
		}

		cbErr := cfg.Breaker.Do(func() error {
			return cfg.HistoryRepo.Create(ctx, &snap)
		})
		if cbErr == nil {
			log.Info().
				Str("unit_id", snap.OriginalVehicleUnitID.String()).
				Int("prior_attempts", entry.Attempts).
				Msg("retry_cron: snapshot persisted after retry")
			continue
		}

		entry.Attempts++
		entry.Reason = cbErr.Error()
		entry.FailedAt = time.Now().UTC().Format(time.RFC3339)

		if entry.Attempts >= cfg.MaxAttempts {
			log.Error().
				Str("unit_id", snap.OriginalVehicleUnitID.String()).
				Int("attempts", entry.Attempts).
				Msg("retry_cron: max attempts exceeded, moving to dead list")
			data, _ := json.Marshal(entry)
			_ = cfg.RDB.LPush(ctx, DeadPrefix+QueueHistory, data).Err()
			continue
		}

		// Requeue at the head so the batch keeps draining oldest-first
		data, err := json.Marshal(entry)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-marshal DLQ entry")
			continue
		}
		if err := cfg.RDB.LPush(ctx, dlqKey, data).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to requeue DLQ entry")
		}
	}
}
