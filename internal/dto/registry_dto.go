package dto

import "github.com/shopspring/decimal"

// Registry DTOs for the branch/item/supplier reference entities. These are
// plain CRUD shells around the ledger; responses reuse the models directly.

type CreateBranchRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=120"`
	Brand       *string         `json:"brand"`
	Description *string         `json:"description"`
	ListPrice   decimal.Decimal `json:"list_price"`
}

type CreateSupplierRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	TIN     *string `json:"tin"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}
