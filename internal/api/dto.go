package api

import (
	"time"

	"onlinemart-be/internal/order"
	"onlinemart-be/internal/product"

	"github.com/shopspring/decimal"
)

type authResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
	UserID   int64  `json:"userId"`
}

// productSummary is the buyer-facing view: wholesale price and stock levels
// stay hidden.
type productSummary struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	RetailPrice decimal.Decimal `json:"retailPrice"`
}

type adminProductDetail struct {
	ID             int64           `json:"id"`
	Description    string          `json:"description"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	StockQuantity  int             `json:"stockQuantity"`
}

type buyerOrderSummary struct {
	ID       int64        `json:"id"`
	PlacedAt time.Time    `json:"placedAt"`
	Status   order.Status `json:"status"`
}

type buyerOrderItem struct {
	ProductID       int64           `json:"productId"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitRetailPrice decimal.Decimal `json:"unitRetailPrice"`
}

type buyerOrderDetail struct {
	ID       int64            `json:"id"`
	PlacedAt time.Time        `json:"placedAt"`
	Status   order.Status     `json:"status"`
	Items    []buyerOrderItem `json:"items"`
}

type adminOrderSummary struct {
	ID            int64        `json:"id"`
	PlacedAt      time.Time    `json:"placedAt"`
	Status        order.Status `json:"status"`
	BuyerUsername string       `json:"buyerUsername"`
}

type adminOrderItem struct {
	ProductID          int64           `json:"productId"`
	Description        string          `json:"description"`
	Quantity           int             `json:"quantity"`
	UnitWholesalePrice decimal.Decimal `json:"unitWholesalePrice"`
	UnitRetailPrice    decimal.Decimal `json:"unitRetailPrice"`
}

type adminOrderDetail struct {
	ID            int64            `json:"id"`
	PlacedAt      time.Time        `json:"placedAt"`
	Status        order.Status     `json:"status"`
	BuyerUsername string           `json:"buyerUsername"`
	Items         []adminOrderItem `json:"items"`
}

type orderStatusResponse struct {
	OrderID int64        `json:"orderId"`
	Status  order.Status `json:"status"`
}

type mostProfitableProduct struct {
	ProductID   int64           `json:"productId"`
	Description string          `json:"description"`
	Profit      decimal.Decimal `json:"profit"`
}

type popularProduct struct {
	ProductID     int64  `json:"productId"`
	Description   string `json:"description"`
	TotalQuantity int64  `json:"totalQuantity"`
}

type totalItemsSold struct {
	TotalItemsSold int64 `json:"totalItemsSold"`
}

type productFrequency struct {
	ProductID     int64  `json:"productId"`
	Description   string `json:"description"`
	TotalQuantity int64  `json:"totalQuantity"`
}

type recentPurchase struct {
	ProductID       int64     `json:"productId"`
	Description     string    `json:"description"`
	LastPurchasedAt time.Time `json:"lastPurchasedAt"`
}

func toProductSummary(p product.Product) productSummary {
	return productSummary{ID: p.ID, Description: p.Description, RetailPrice: p.RetailPrice}
}

func toProductSummaries(products []product.Product) []productSummary {
	out := make([]productSummary, 0, len(products))
	for _, p := range products {
		out = append(out, toProductSummary(p))
	}
	return out
}

func toAdminProductDetail(p product.Product) adminProductDetail {
	return adminProductDetail{
		ID:             p.ID,
		Description:    p.Description,
		WholesalePrice: p.WholesalePrice,
		RetailPrice:    p.RetailPrice,
		StockQuantity:  p.StockQuantity,
	}
}

func toBuyerOrderDetail(o *order.Order) buyerOrderDetail {
	items := make([]buyerOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, buyerOrderItem{
			ProductID:       it.ProductID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitRetailPrice: it.UnitRetailPrice,
		})
	}
	return buyerOrderDetail{ID: o.ID, PlacedAt: o.PlacedAt, Status: o.Status, Items: items}
}

func toAdminOrderDetail(o *order.Order) adminOrderDetail {
	items := make([]adminOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, adminOrderItem{
			ProductID:          it.ProductID,
			Description:        it.Description,
			Quantity:           it.Quantity,
			UnitWholesalePrice: it.UnitWholesalePrice,
			UnitRetailPrice:    it.UnitRetailPrice,
		})
	}
	return adminOrderDetail{
		ID:            o.ID,
		PlacedAt:      o.PlacedAt,
		Status:        o.Status,
		BuyerUsername: o.BuyerUsername,
		Items:         items,
	}
}
