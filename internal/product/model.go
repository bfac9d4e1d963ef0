package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product prices are fixed-point decimals; stock never drops below zero.
type Product struct {
	ID             int64
	Description    string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	StockQuantity  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateInput struct {
	Description    string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	StockQuantity  int
}

// UpdateInput carries only the fields the caller wants to change.
type UpdateInput struct {
	Description    *string
	WholesalePrice *decimal.Decimal
	RetailPrice    *decimal.Decimal
	StockQuantity  *int
}
