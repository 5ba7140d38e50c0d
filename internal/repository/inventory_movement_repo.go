package repository

import (
	"context"

	"primemotors/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryMovementRepository is the data access contract for lots.
type InventoryMovementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryMovement, error)
	ListAll(ctx context.Context) ([]model.InventoryMovement, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryMovement, error)

	// UpdateFieldsTx applies a partial field map; absent fields are left
	// untouched, never nulled.
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error

	// ApplyTransferTx bumps transferred_qty, drops ending_qty, and appends
	// remarkLine to remarks, all in one atomic UPDATE.
	ApplyTransferTx(tx *gorm.DB, id uuid.UUID, remarkLine string) error

	// IncrementSoldTx bumps sold_qty and drops ending_qty atomically.
	IncrementSoldTx(tx *gorm.DB, id uuid.UUID) error

	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventoryMovementRepo struct{ db *gorm.DB }

func NewInventoryMovementRepository(db *gorm.DB) InventoryMovementRepository {
	return &inventoryMovementRepo{db: db}
}

func (r *inventoryMovementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryMovement, error) {
	var m model.InventoryMovement
	err := r.db.WithContext(ctx).
		Preload("Branch").Preload("Item").Preload("Supplier").
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("unit_number ASC") }).
		First(&m, id).Error
	return &m, err
}

func (r *inventoryMovementRepo) ListAll(ctx context.Context) ([]model.InventoryMovement, error) {
	var lots []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Preload("Branch").Preload("Item").Preload("Supplier").
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("unit_number ASC") }).
		Order("received_date DESC, created_at DESC").
		Find(&lots).Error
	return lots, err
}

func (r *inventoryMovementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *inventoryMovementRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryMovement, error) {
	var m model.InventoryMovement
	err := tx.Preload("Branch").First(&m, id).Error
	return &m, err
}

func (r *inventoryMovementRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return tx.Model(&model.InventoryMovement{}).Where("id = ?", id).Updates(fields).Error
}

func (r *inventoryMovementRepo) ApplyTransferTx(tx *gorm.DB, id uuid.UUID, remarkLine string) error {
	// Remarks are appended in SQL so concurrent transfers from the same lot
	// cannot overwrite each other's lines.
	return tx.Model(&model.InventoryMovement{}).Where("id = ?", id).Updates(map[string]interface{}{
		"transferred_qty": gorm.Expr("transferred_qty + 1"),
		"ending_qty":      gorm.Expr("ending_qty - 1"),
		"remarks": gorm.Expr(
			`CASE WHEN coalesce(remarks, '') = '' THEN ? ELSE remarks || E'\n' || ? END`,
			remarkLine, remarkLine,
		),
	}).Error
}

func (r *inventoryMovementRepo) IncrementSoldTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.InventoryMovement{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sold_qty":   gorm.Expr("sold_qty + 1"),
		"ending_qty": gorm.Expr("ending_qty - 1"),
	}).Error
}

func (r *inventoryMovementRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.InventoryMovement{}, id).Error
}

func (r *inventoryMovementRepo) DB() *gorm.DB { return r.db }
