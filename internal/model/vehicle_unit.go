package model

import (
	"time"

	"github.com/google/uuid"
)

// Unit status values. Transferred is NOT a status: it is an orthogonal flag,
// so a sold unit that later moves branches keeps status "sold".
const (
	UnitStatusAvailable = "available"
	UnitStatusSold      = "sold"
	UnitStatusReserved  = "reserved"
)

// VehicleUnit is one physical serialized vehicle inside a lot. The
// (engine_no, chassis_no) pair is the natural key used to correlate records
// across branches and history snapshots; it is deliberately not a uniqueness
// constraint because historical imports contain duplicates.
type VehicleUnit struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InventoryMovementID uuid.UUID `gorm:"type:uuid;not null;index" json:"inventory_movement_id"`
	EngineNo            *string   `gorm:"index" json:"engine_no"`
	ChassisNo           *string   `gorm:"index" json:"chassis_no"`
	// UnitNumber is the 1-based sequence within the owning lot.
	UnitNumber int    `gorm:"not null;default:1" json:"unit_number"`
	Status     string `gorm:"not null;default:'available'" json:"status"`
	// Transferred marks the unit as moved out of its original branch. The row
	// is frozen in place for audit; a shadow unit is created at the destination.
	Transferred bool      `gorm:"not null;default:false" json:"transferred"`
	CreatedAt   time.Time `json:"created_at"`

	Lot *InventoryMovement `gorm:"foreignKey:InventoryMovementID" json:"-"`
}

// Deletable reports whether edit reconciliation may remove this unit.
// Sold, reserved, and transferred units survive any incoming unit list.
func (u *VehicleUnit) Deletable() bool {
	if u.Transferred {
		return false
	}
	return u.Status == "" || u.Status == UnitStatusAvailable
}
