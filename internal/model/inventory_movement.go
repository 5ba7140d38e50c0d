package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryMovement is one lot of stock: a receipt, a completed purchase
// order delivery, or the destination record of an inbound transfer.
// Quantity counters are only ever adjusted through atomic increments
// (gorm.Expr) so EndingQty stays consistent under concurrent sales and
// transfers.
type InventoryMovement struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BranchID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	ItemID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	SupplierID   *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id"`
	ReceivedDate time.Time  `json:"received_date"`
	// Source document numbers from the delivery paperwork.
	DRNo *string `gorm:"column:dr_no" json:"dr_no"`
	SINo *string `gorm:"column:si_no" json:"si_no"`

	UnitCost decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost"`
	SRP      decimal.Decimal `gorm:"column:srp;type:decimal(12,2);not null" json:"srp"`
	Color    string          `gorm:"not null" json:"color"`
	Remarks  string          `json:"remarks"`

	BeginningQty   int `gorm:"not null;default:0" json:"beginning_qty"`
	PurchasedQty   int `gorm:"not null;default:0" json:"purchased_qty"`
	TransferredQty int `gorm:"not null;default:0" json:"transferred_qty"`
	SoldQty        int `gorm:"not null;default:0" json:"sold_qty"`
	// EndingQty is the stock this lot still holds; decremented by sales
	// and outbound transfers.
	EndingQty int `gorm:"not null;default:0" json:"ending_qty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Branch   *Branch       `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Item     *Item         `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Supplier *Supplier     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Units    []VehicleUnit `gorm:"foreignKey:InventoryMovementID" json:"vehicle_units,omitempty"`
}

func (InventoryMovement) TableName() string { return "inventory_movements" }
