package order

import (
	"time"

	"onlinemart-be/internal/apperr"

	"github.com/shopspring/decimal"
)

type Status string

// PROCESSING is the only non-terminal state. COMPLETED and CANCELED are
// terminal; no edge leaves them.
const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
)

// EnsureCancelable guards the PROCESSING -> CANCELED edge.
func (s Status) EnsureCancelable() error {
	switch s {
	case StatusCompleted:
		return apperr.Conflict("Completed order cannot be canceled.")
	case StatusCanceled:
		return apperr.Conflict("Order is already canceled.")
	}
	return nil
}

// EnsureCompletable guards the PROCESSING -> COMPLETED edge.
func (s Status) EnsureCompletable() error {
	switch s {
	case StatusCanceled:
		return apperr.Conflict("Canceled order cannot be completed.")
	case StatusCompleted:
		return apperr.Conflict("Order is already completed.")
	}
	return nil
}

type Order struct {
	ID            int64
	BuyerID       int64
	BuyerUsername string
	Status        Status
	PlacedAt      time.Time
	UpdatedAt     time.Time
	Items         []Item
}

// Item snapshots the product prices at purchase time; later product edits
// never change these values.
type Item struct {
	ID                 int64
	OrderID            int64
	ProductID          int64
	Description        string
	Quantity           int
	UnitWholesalePrice decimal.Decimal
	UnitRetailPrice    decimal.Decimal
}

// ItemInput is one requested line of a new order.
type ItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Report rows.
type ProductProfit struct {
	ProductID   int64
	Description string
	Profit      decimal.Decimal
}

type ProductQuantity struct {
	ProductID   int64
	Description string
	Quantity    int64
}

type RecentPurchase struct {
	ProductID       int64
	Description     string
	LastPurchasedAt time.Time
}
