package dto

import "time"

type TransferRequest struct {
	UnitID     string `json:"unit_id"      validate:"required,uuid"`
	ToBranchID string `json:"to_branch_id" validate:"required,uuid"`
	Remarks    string `json:"remarks"`
}

type TransferResponse struct {
	Success        bool        `json:"success"`
	OriginalUnitID string      `json:"original_unit_id"`
	NewInventory   LotResponse `json:"new_inventory"`
}

// TransferredCounterpart is a sibling record of the same physical unit seen
// from another transfer event or another branch.
type TransferredCounterpart struct {
	InventoryID   string     `json:"inventory_id"`
	BranchID      string     `json:"branch_id"`
	BranchName    string     `json:"branch_name,omitempty"`
	Status        string     `json:"status"`
	Source        string     `json:"source"` // "history" | "live"
	TransferredAt *time.Time `json:"transferred_at,omitempty"`
}

// TransferredEntry is one row of the reconciled transfer view. Entries come
// from two signal sources (history snapshots and live cross-branch units) and
// are deduplicated by engine|chassis|branch|inventory, history winning ties.
type TransferredEntry struct {
	EngineNo      *string                  `json:"engine_no"`
	ChassisNo     *string                  `json:"chassis_no"`
	InventoryID   string                   `json:"inventory_id"`
	BranchID      string                   `json:"branch_id"`
	BranchName    string                   `json:"branch_name,omitempty"`
	Status        string                   `json:"status"`
	Color         string                   `json:"color,omitempty"`
	Source        string                   `json:"source"`
	TransferredAt *time.Time               `json:"transferred_at,omitempty"`
	Counterparts  []TransferredCounterpart `json:"counterparts"`
}

type ListTransferredResponse struct {
	Transferred []TransferredEntry `json:"transferred"`
}
