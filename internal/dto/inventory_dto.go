package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// UnitInput is one serialized vehicle in a create/update payload. On update,
// an entry matching an existing unit (same engine+chassis pair) is left
// untouched; unmatched entries become new units.
type UnitInput struct {
	ID        *string `json:"id"         validate:"omitempty,uuid"`
	EngineNo  *string `json:"engine_no"`
	ChassisNo *string `json:"chassis_no"`
	Status    string  `json:"status"     validate:"omitempty,oneof=available sold reserved"`
}

type CreateLotRequest struct {
	BranchID     string           `json:"branch_id"     validate:"required,uuid"`
	ItemID       string           `json:"item_id"       validate:"required,uuid"`
	SupplierID   *string          `json:"supplier_id"   validate:"omitempty,uuid"`
	ReceivedDate *time.Time       `json:"received_date"`
	DRNo         *string          `json:"dr_no"`
	SINo         *string          `json:"si_no"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	SRP          decimal.Decimal  `json:"srp"`
	Color        string           `json:"color"         validate:"required"`
	Remarks      string           `json:"remarks"`
	BeginningQty int              `json:"beginning_qty" validate:"min=0"`
	PurchasedQty int              `json:"purchased_qty" validate:"min=0"`
	Units        []UnitInput      `json:"units"`
}

// UpdateLotRequest carries a partial set of lot fields: nil pointers are
// dropped, never written as null. Engine/chassis numbers are unit-level
// attributes and have no place here. VehicleUnits is preferred; Units is a
// legacy alias kept for older clients — whichever is non-empty wins.
type UpdateLotRequest struct {
	SupplierID   *string          `json:"supplier_id"   validate:"omitempty,uuid"`
	ReceivedDate *time.Time       `json:"received_date"`
	DRNo         *string          `json:"dr_no"`
	SINo         *string          `json:"si_no"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	SRP          *decimal.Decimal `json:"srp"`
	Color        *string          `json:"color"`
	Remarks      *string          `json:"remarks"`
	BeginningQty *int             `json:"beginning_qty" validate:"omitempty,min=0"`
	PurchasedQty *int             `json:"purchased_qty" validate:"omitempty,min=0"`
	VehicleUnits []UnitInput      `json:"vehicle_units"`
	Units        []UnitInput      `json:"units"`
}

// IncomingUnits resolves the vehicle_units/units alias.
func (r UpdateLotRequest) IncomingUnits() []UnitInput {
	if len(r.VehicleUnits) > 0 {
		return r.VehicleUnits
	}
	return r.Units
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UnitResponse struct {
	ID          string  `json:"id"`
	EngineNo    *string `json:"engine_no"`
	ChassisNo   *string `json:"chassis_no"`
	UnitNumber  int     `json:"unit_number"`
	Status      string  `json:"status"`
	Transferred bool    `json:"transferred"`
}

type LotResponse struct {
	ID           string          `json:"id"`
	BranchID     string          `json:"branch_id"`
	BranchName   string          `json:"branch_name,omitempty"`
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name,omitempty"`
	SupplierID   *string         `json:"supplier_id"`
	SupplierName *string         `json:"supplier_name,omitempty"`
	ReceivedDate time.Time       `json:"received_date"`
	DRNo         *string         `json:"dr_no"`
	SINo         *string         `json:"si_no"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SRP          decimal.Decimal `json:"srp"`
	Color        string          `json:"color"`
	Remarks      string          `json:"remarks"`

	BeginningQty   int `json:"beginning_qty"`
	PurchasedQty   int `json:"purchased_qty"`
	TransferredQty int `json:"transferred_qty"`
	SoldQty        int `json:"sold_qty"`
	EndingQty      int `json:"ending_qty"`

	// HasTransferred is derived, not stored: true when at least one unit of
	// this lot has been transferred out (those units are filtered from
	// VehicleUnits).
	HasTransferred bool           `json:"has_transferred"`
	VehicleUnits   []UnitResponse `json:"vehicle_units"`
}

// PendingLineResponse is an undelivered purchase-order line reshaped to look
// like an inventory row, so callers can render expected stock alongside real
// stock. Status is always "pending".
type PendingLineResponse struct {
	PONo     string          `json:"po_no"`
	BranchID string          `json:"branch_id"`
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name,omitempty"`
	Color    string          `json:"color"`
	Qty      int             `json:"qty"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Status   string          `json:"status"`
}

type ListInventoryResponse struct {
	Current []LotResponse         `json:"current"`
	Pending []PendingLineResponse `json:"pending"`
}

type MarkSoldResponse struct {
	Success bool         `json:"success"`
	Unit    UnitResponse `json:"unit"`
}
