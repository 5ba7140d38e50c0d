package model

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a physical dealership location. Lots and transfers always
// reference a branch; nothing in the ledger owns or mutates branches.
type Branch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Branch) TableName() string { return "branches" }
