package product

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindInStock(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	Insert(ctx context.Context, p Product) (Product, error)
	// UpdateFields merges the provided fields into the stored row under a
	// row lock, so a stock debit committed in between is never clobbered.
	// Returns nil when the product does not exist.
	UpdateFields(ctx context.Context, id int64, input UpdateInput) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = "id, description, wholesale_price, retail_price, stock_quantity, created_at, updated_at"

func (r *repository) FindAll(ctx context.Context) ([]Product, error) {
	return r.findMany(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id")
}

func (r *repository) FindInStock(ctx context.Context) ([]Product, error) {
	return r.findMany(ctx,
		"SELECT "+productColumns+" FROM products WHERE stock_quantity > 0 ORDER BY id")
}

func (r *repository) findMany(ctx context.Context, query string) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Description, &p.WholesalePrice, &p.RetailPrice,
			&p.StockQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.Description, &p.WholesalePrice, &p.RetailPrice,
		&p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Insert(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (description, wholesale_price, retail_price, stock_quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.Description, p.WholesalePrice, p.RetailPrice, p.StockQuantity, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	return p, err
}

func (r *repository) UpdateFields(ctx context.Context, id int64, input UpdateInput) (*Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var p Product
	err = tx.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id,
	).Scan(&p.ID, &p.Description, &p.WholesalePrice, &p.RetailPrice,
		&p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.WholesalePrice != nil {
		p.WholesalePrice = *input.WholesalePrice
	}
	if input.RetailPrice != nil {
		p.RetailPrice = *input.RetailPrice
	}
	if input.StockQuantity != nil {
		p.StockQuantity = *input.StockQuantity
	}
	p.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE products
		 SET description = $1, wholesale_price = $2, retail_price = $3, stock_quantity = $4, updated_at = $5
		 WHERE id = $6`,
		p.Description, p.WholesalePrice, p.RetailPrice, p.StockQuantity, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &p, nil
}
