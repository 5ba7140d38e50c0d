package repository

import (
	"context"

	"primemotors/internal/model"

	"gorm.io/gorm"
)

// TransferredHistoryRepository is append-only by contract: the ledger never
// updates or deletes snapshots, so the interface offers no mutation beyond
// Create.
type TransferredHistoryRepository interface {
	Create(ctx context.Context, h *model.TransferredHistory) error
	ListAll(ctx context.Context) ([]model.TransferredHistory, error)
}

type transferredHistoryRepo struct{ db *gorm.DB }

func NewTransferredHistoryRepository(db *gorm.DB) TransferredHistoryRepository {
	return &transferredHistoryRepo{db: db}
}

func (r *transferredHistoryRepo) Create(ctx context.Context, h *model.TransferredHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *transferredHistoryRepo) ListAll(ctx context.Context) ([]model.TransferredHistory, error) {
	var rows []model.TransferredHistory
	err := r.db.WithContext(ctx).
		Preload("Branch").Preload("Item").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
