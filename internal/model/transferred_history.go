package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferredHistory is an append-only snapshot of a lot+unit taken at the
// moment the unit left its origin branch. It is never updated or deleted by
// the ledger, and it carries no foreign keys to the live rows: history must
// survive a later force-delete of the lot it describes. Back-references are
// plain uuids, correlation across branches happens on engine/chassis.
type TransferredHistory struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OriginalInventoryID   uuid.UUID `gorm:"type:uuid;not null;index" json:"original_inventory_id"`
	OriginalVehicleUnitID uuid.UUID `gorm:"type:uuid;not null" json:"original_vehicle_unit_id"`

	BranchID     uuid.UUID  `gorm:"type:uuid;not null" json:"branch_id"`
	ItemID       uuid.UUID  `gorm:"type:uuid;not null" json:"item_id"`
	SupplierID   *uuid.UUID `gorm:"type:uuid" json:"supplier_id"`
	ReceivedDate time.Time  `json:"received_date"`
	DRNo         *string    `gorm:"column:dr_no" json:"dr_no"`
	SINo         *string    `gorm:"column:si_no" json:"si_no"`

	UnitCost decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_cost"`
	SRP      decimal.Decimal `gorm:"column:srp;type:decimal(12,2)" json:"srp"`
	Color    string          `json:"color"`
	Remarks  string          `json:"remarks"`

	BeginningQty   int `json:"beginning_qty"`
	PurchasedQty   int `json:"purchased_qty"`
	TransferredQty int `json:"transferred_qty"`
	SoldQty        int `json:"sold_qty"`
	EndingQty      int `json:"ending_qty"`

	EngineNo   *string `gorm:"index" json:"engine_no"`
	ChassisNo  *string `gorm:"index" json:"chassis_no"`
	UnitNumber int     `json:"unit_number"`
	// Status is always "transferred" on snapshots regardless of the live
	// unit's sale status at transfer time.
	Status string `gorm:"not null;default:'transferred'" json:"status"`

	CreatedAt time.Time `json:"created_at"`

	Branch *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Item   *Item   `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (TransferredHistory) TableName() string { return "transferred_histories" }
