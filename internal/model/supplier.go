package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the counterparty a lot was purchased from. Nullable on lots:
// transfer-in lots have no supplier.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	TIN       *string   `gorm:"column:tin" json:"tin"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
