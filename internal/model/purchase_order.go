package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order states. The ledger only reads these: the purchasing module
// owns the workflow. Undelivered lines surface as "pending" inventory rows.
const (
	POStatusPending   = "pending"
	POStatusPartial   = "partial"
	POStatusCompleted = "completed"
)

type PurchaseOrder struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PONo       string     `gorm:"column:po_no;uniqueIndex;not null" json:"po_no"`
	BranchID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	SupplierID *uuid.UUID `gorm:"type:uuid" json:"supplier_id"`
	Status     string     `gorm:"not null;default:'pending'" json:"status"`
	OrderDate  time.Time  `json:"order_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Branch   *Branch             `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Supplier *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`
}

type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null" json:"item_id"`
	Color           string          `json:"color"`
	Qty             int             `gorm:"not null" json:"qty"`
	DeliveredQty    int             `gorm:"not null;default:0" json:"delivered_qty"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CreatedAt       time.Time       `json:"created_at"`

	Order *PurchaseOrder `gorm:"foreignKey:PurchaseOrderID" json:"-"`
	Item  *Item          `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}
