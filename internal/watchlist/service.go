package watchlist

import (
	"context"
	"time"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/logger"
	"onlinemart-be/internal/product"
	"onlinemart-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
	List(ctx context.Context, userID int64) ([]product.Product, error)
}

type service struct {
	repo     Repository
	users    user.Repository
	products product.Repository
}

func NewService(repo Repository, users user.Repository, products product.Repository) Service {
	return &service{repo: repo, users: users, products: products}
}

// Add rejects duplicates and verifies both sides of the pair exist before
// persisting it.
func (s *service) Add(ctx context.Context, userID, productID int64) error {
	existing, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Conflict("Product already in watchlist.")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("User not found.")
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("Product not found.")
	}

	_, err = s.repo.Insert(ctx, Entry{
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("watchlist entry added",
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
	)
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID int64) error {
	removed, err := s.repo.Delete(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.NotFound("Product is not in watchlist.")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID int64) ([]product.Product, error) {
	return s.repo.FindInStockProducts(ctx, userID)
}
