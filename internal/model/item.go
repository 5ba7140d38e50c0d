package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a vehicle model in the catalog (e.g. "XRM 125 DSX").
// Individual serialized units point at an Item through their owning lot.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string          `gorm:"index;not null" json:"name"`
	Brand       *string         `json:"brand"`
	Description *string         `json:"description"`
	// ListPrice is the catalog SRP; a lot may override it per receipt.
	ListPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"list_price"`
	Active    bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
