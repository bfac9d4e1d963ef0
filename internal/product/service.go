package product

import (
	"context"
	"strings"
	"time"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	ListAvailable(ctx context.Context) ([]Product, error)
	GetForBuyer(ctx context.Context, id int64) (Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	GetForAdmin(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, input CreateInput) (Product, error)
	Update(ctx context.Context, id int64, input UpdateInput) (Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListAvailable(ctx context.Context) ([]Product, error) {
	return s.repo.FindInStock(ctx)
}

// GetForBuyer hides exhausted products: a product with zero stock is reported
// as absent, not as out of stock.
func (s *service) GetForBuyer(ctx context.Context, id int64) (Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if p == nil || p.StockQuantity == 0 {
		return Product{}, apperr.NotFound("Product not found.")
	}
	return *p, nil
}

func (s *service) ListAll(ctx context.Context) ([]Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) GetForAdmin(ctx context.Context, id int64) (Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if p == nil {
		return Product{}, apperr.NotFound("Product not found.")
	}
	return *p, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (Product, error) {
	if details := validateFields(input.Description, input.WholesalePrice, input.RetailPrice, input.StockQuantity); len(details) > 0 {
		return Product{}, apperr.Validation("Validation failed", details)
	}

	now := time.Now().UTC()
	p, err := s.repo.Insert(ctx, Product{
		Description:    input.Description,
		WholesalePrice: input.WholesalePrice,
		RetailPrice:    input.RetailPrice,
		StockQuantity:  input.StockQuantity,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return Product{}, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.Int64("product_id", p.ID),
		zap.Int("stock", p.StockQuantity),
	)
	return p, nil
}

// Update applies only the provided fields. The merge with the stored row
// happens in the repository under a row lock, so a stock debit committed by a
// concurrent order is never overwritten.
func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (Product, error) {
	if details := validateUpdate(input); len(details) > 0 {
		return Product{}, apperr.Validation("Validation failed", details)
	}

	p, err := s.repo.UpdateFields(ctx, id, input)
	if err != nil {
		return Product{}, err
	}
	if p == nil {
		return Product{}, apperr.NotFound("Product not found.")
	}

	return *p, nil
}

// validateUpdate checks the provided fields only; absent fields keep their
// stored, already-valid values.
func validateUpdate(input UpdateInput) []string {
	var details []string
	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		details = append(details, "description: must not be blank")
	}
	if input.WholesalePrice != nil && input.WholesalePrice.IsNegative() {
		details = append(details, "wholesalePrice: must not be negative")
	}
	if input.RetailPrice != nil && input.RetailPrice.IsNegative() {
		details = append(details, "retailPrice: must not be negative")
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		details = append(details, "stockQuantity: must not be negative")
	}
	return details
}

func validateFields(description string, wholesale, retail decimal.Decimal, stock int) []string {
	var details []string
	if strings.TrimSpace(description) == "" {
		details = append(details, "description: must not be blank")
	}
	if wholesale.IsNegative() {
		details = append(details, "wholesalePrice: must not be negative")
	}
	if retail.IsNegative() {
		details = append(details, "retailPrice: must not be negative")
	}
	if stock < 0 {
		details = append(details, "stockQuantity: must not be negative")
	}
	return details
}
