package repository

import (
	"context"

	"primemotors/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseOrderRepository is read-mostly: the purchasing module owns PO
// creation, the ledger only surfaces undelivered lines and records receipt.
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	// ListPendingLines returns every line with outstanding quantity on a
	// not-yet-completed order, with order and item preloaded.
	ListPendingLines(ctx context.Context) ([]model.PurchaseOrderItem, error)

	// Used inside transactions — callers must pass the tx instance
	AddDeliveredTx(tx *gorm.DB, itemID uuid.UUID, qty int) error
	SetStatusTx(tx *gorm.DB, poID uuid.UUID, status string) error
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Branch").Preload("Supplier").
		Preload("Items").Preload("Items.Item").
		First(&po, id).Error
	return &po, err
}

func (r *purchaseOrderRepo) ListPendingLines(ctx context.Context) ([]model.PurchaseOrderItem, error) {
	var lines []model.PurchaseOrderItem
	err := r.db.WithContext(ctx).
		Preload("Order").Preload("Item").
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_items.purchase_order_id").
		Where("purchase_orders.status <> ?", model.POStatusCompleted).
		Where("purchase_order_items.qty > purchase_order_items.delivered_qty").
		Find(&lines).Error
	return lines, err
}

func (r *purchaseOrderRepo) AddDeliveredTx(tx *gorm.DB, itemID uuid.UUID, qty int) error {
	return tx.Model(&model.PurchaseOrderItem{}).Where("id = ?", itemID).
		Update("delivered_qty", gorm.Expr("delivered_qty + ?", qty)).Error
}

func (r *purchaseOrderRepo) SetStatusTx(tx *gorm.DB, poID uuid.UUID, status string) error {
	return tx.Model(&model.PurchaseOrder{}).Where("id = ?", poID).
		Update("status", status).Error
}
