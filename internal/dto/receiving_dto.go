package dto

import "time"

// ReceivePOItemInput pairs a purchase-order line with the serial numbers that
// actually arrived for it. When Units is shorter than the outstanding
// quantity the line is received partially.
type ReceivePOItemInput struct {
	POItemID string      `json:"po_item_id" validate:"required,uuid"`
	Units    []UnitInput `json:"units"`
}

// ReceivePORequest converts a purchase order's outstanding lines into
// inventory lots. Delivery paperwork numbers apply to every lot created.
type ReceivePORequest struct {
	DRNo         *string              `json:"dr_no"`
	SINo         *string              `json:"si_no"`
	ReceivedDate *time.Time           `json:"received_date"`
	Items        []ReceivePOItemInput `json:"items" validate:"required,min=1,dive"`
}

type ReceivePOResponse struct {
	Success bool          `json:"success"`
	Status  string        `json:"status"` // resulting PO status: partial | completed
	Lots    []LotResponse `json:"lots"`
}

// UnitLookupResponse is the serial-search result served at the counter.
type UnitLookupResponse struct {
	Units []UnitLookupHit `json:"units"`
}

type UnitLookupHit struct {
	UnitResponse
	InventoryID string `json:"inventory_id"`
	BranchID    string `json:"branch_id"`
	BranchName  string `json:"branch_name,omitempty"`
	ItemName    string `json:"item_name,omitempty"`
	Color       string `json:"color,omitempty"`
}
