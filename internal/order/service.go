package order

import (
	"context"
	"fmt"
	"sort"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/logger"
	"onlinemart-be/internal/metrics"

	"go.uber.org/zap"
)

// adminPageSize is the fixed page size for the admin order listing.
const adminPageSize = 5

// topItemsLimit caps the per-buyer and storewide top-N reports.
const topItemsLimit = 3

type Service interface {
	Create(ctx context.Context, buyerID int64, items []ItemInput) (*Order, error)

	ListForBuyer(ctx context.Context, buyerID int64) ([]Order, error)
	GetForBuyer(ctx context.Context, buyerID, orderID int64) (*Order, error)
	CancelForBuyer(ctx context.Context, buyerID, orderID int64) (*Order, error)

	ListForAdmin(ctx context.Context, page int) ([]Order, error)
	GetForAdmin(ctx context.Context, orderID int64) (*Order, error)
	Complete(ctx context.Context, orderID int64) (*Order, error)
	CancelForAdmin(ctx context.Context, orderID int64) (*Order, error)

	MostProfitableProduct(ctx context.Context) (*ProductProfit, error)
	TopPopularProducts(ctx context.Context) ([]ProductQuantity, error)
	TotalItemsSold(ctx context.Context) (int64, error)
	TopPurchasedItems(ctx context.Context, buyerID int64) ([]ProductQuantity, error)
	RecentPurchasedItems(ctx context.Context, buyerID int64) ([]RecentPurchase, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create validates and normalizes the request, then hands the merged item
// list to the repository's transactional reservation path.
func (s *service) Create(ctx context.Context, buyerID int64, items []ItemInput) (*Order, error) {
	if len(items) == 0 {
		return nil, apperr.BadRequest("Order must contain at least one item.")
	}

	var details []string
	for i, it := range items {
		if it.ProductID <= 0 {
			details = append(details, fmt.Sprintf("items[%d].productId: must be positive", i))
		}
		if it.Quantity <= 0 {
			details = append(details, fmt.Sprintf("items[%d].quantity: must be positive", i))
		}
	}
	if len(details) > 0 {
		return nil, apperr.Validation("Validation failed", details)
	}

	merged := mergeItems(items)

	o, err := s.repo.Create(ctx, buyerID, merged)
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	logger.FromCtx(ctx).Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.Int64("buyer_id", buyerID),
		zap.Int("line_items", len(merged)),
	)
	return o, nil
}

// mergeItems coalesces duplicate product lines by summing quantities and
// returns them sorted by product id, the lock acquisition order.
func mergeItems(items []ItemInput) []ItemInput {
	byProduct := make(map[int64]int, len(items))
	for _, it := range items {
		byProduct[it.ProductID] += it.Quantity
	}

	merged := make([]ItemInput, 0, len(byProduct))
	for id, qty := range byProduct {
		merged = append(merged, ItemInput{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged
}

func (s *service) ListForBuyer(ctx context.Context, buyerID int64) ([]Order, error) {
	return s.repo.FindByBuyer(ctx, buyerID)
}

// GetForBuyer checks existence before ownership: a buyer probing another
// buyer's order id gets Forbidden, not NotFound.
func (s *service) GetForBuyer(ctx context.Context, buyerID, orderID int64) (*Order, error) {
	o, err := s.repo.FindWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("Order not found.")
	}
	if o.BuyerID != buyerID {
		return nil, apperr.Forbidden("Cannot access another user's order.")
	}
	return o, nil
}

func (s *service) CancelForBuyer(ctx context.Context, buyerID, orderID int64) (*Order, error) {
	o, err := s.repo.FindWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("Order not found.")
	}
	if o.BuyerID != buyerID {
		return nil, apperr.Forbidden("Cannot cancel another user's order.")
	}
	return s.cancel(ctx, orderID)
}

func (s *service) ListForAdmin(ctx context.Context, page int) ([]Order, error) {
	if page < 0 {
		page = 0
	}
	return s.repo.FindAllPaged(ctx, page*adminPageSize, adminPageSize)
}

func (s *service) GetForAdmin(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.repo.FindWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("Order not found.")
	}
	return o, nil
}

func (s *service) Complete(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.repo.Complete(ctx, orderID)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCompleted.Inc()
	return o, nil
}

func (s *service) CancelForAdmin(ctx context.Context, orderID int64) (*Order, error) {
	return s.cancel(ctx, orderID)
}

func (s *service) cancel(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.repo.Cancel(ctx, orderID)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCanceled.Inc()
	return o, nil
}

func (s *service) MostProfitableProduct(ctx context.Context) (*ProductProfit, error) {
	p, err := s.repo.MostProfitableProduct(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("No completed orders yet.")
	}
	return p, nil
}

func (s *service) TopPopularProducts(ctx context.Context) ([]ProductQuantity, error) {
	return s.repo.TopPopularProducts(ctx, topItemsLimit)
}

func (s *service) TotalItemsSold(ctx context.Context) (int64, error) {
	return s.repo.TotalItemsSold(ctx)
}

func (s *service) TopPurchasedItems(ctx context.Context, buyerID int64) ([]ProductQuantity, error) {
	return s.repo.TopPurchasedItems(ctx, buyerID, topItemsLimit)
}

func (s *service) RecentPurchasedItems(ctx context.Context, buyerID int64) ([]RecentPurchase, error) {
	return s.repo.RecentPurchasedItems(ctx, buyerID, topItemsLimit)
}
