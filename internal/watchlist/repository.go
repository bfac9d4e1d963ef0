package watchlist

import (
	"context"
	"database/sql"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/product"

	"github.com/lib/pq"
)

type Repository interface {
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (*Entry, error)
	Insert(ctx context.Context, e Entry) (Entry, error)
	Delete(ctx context.Context, userID, productID int64) (bool, error)
	// FindInStockProducts returns the watched products that currently have
	// stock, ordered by product id. Entries for exhausted products remain
	// stored but are not listed.
	FindInStockProducts(ctx context.Context, userID int64) ([]product.Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByUserAndProduct(ctx context.Context, userID, productID int64) (*Entry, error) {
	var e Entry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, product_id, created_at
		 FROM watchlist_entries
		 WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Insert(ctx context.Context, e Entry) (Entry, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO watchlist_entries (user_id, product_id, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		e.UserID, e.ProductID, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return Entry{}, apperr.Conflict("Product already in watchlist.")
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *repository) Delete(ctx context.Context, userID, productID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM watchlist_entries WHERE user_id = $1 AND product_id = $2",
		userID, productID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) FindInStockProducts(ctx context.Context, userID int64) ([]product.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.description, p.wholesale_price, p.retail_price, p.stock_quantity, p.created_at, p.updated_at
		 FROM watchlist_entries w
		 JOIN products p ON p.id = w.product_id
		 WHERE w.user_id = $1 AND p.stock_quantity > 0
		 ORDER BY p.id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.Description, &p.WholesalePrice, &p.RetailPrice,
			&p.StockQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
