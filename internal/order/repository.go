package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// Create runs the whole inventory-reservation sequence in one
	// transaction: lock products, check stock, debit, snapshot prices,
	// insert order and items. Input items must be deduplicated and sorted
	// by product id.
	Create(ctx context.Context, buyerID int64, items []ItemInput) (*Order, error)
	FindWithItems(ctx context.Context, id int64) (*Order, error)
	FindByBuyer(ctx context.Context, buyerID int64) ([]Order, error)
	FindAllPaged(ctx context.Context, offset, limit int) ([]Order, error)
	// Cancel and Complete re-check the status transition under a row lock
	// before applying it; Cancel restocks every item in the same transaction.
	Cancel(ctx context.Context, id int64) (*Order, error)
	Complete(ctx context.Context, id int64) (*Order, error)

	MostProfitableProduct(ctx context.Context) (*ProductProfit, error)
	TopPopularProducts(ctx context.Context, limit int) ([]ProductQuantity, error)
	TotalItemsSold(ctx context.Context) (int64, error)
	TopPurchasedItems(ctx context.Context, buyerID int64, limit int) ([]ProductQuantity, error)
	RecentPurchasedItems(ctx context.Context, buyerID int64, limit int) ([]RecentPurchase, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, buyerID int64, items []ItemInput) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	// Lock every referenced product row before looking at stock. Callers
	// pass items sorted by product id, which keeps lock acquisition ordered
	// and deadlock-free between concurrent orders.
	lockedItems := make([]Item, 0, len(items))
	stocks := make([]int, 0, len(items))
	for _, in := range items {
		var it Item
		it.ProductID = in.ProductID
		it.Quantity = in.Quantity

		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT description, wholesale_price, retail_price, stock_quantity
			 FROM products
			 WHERE id = $1
			 FOR UPDATE`,
			in.ProductID,
		).Scan(&it.Description, &it.UnitWholesalePrice, &it.UnitRetailPrice, &stock)
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("Product not found.")
		}
		if err != nil {
			return nil, err
		}

		lockedItems = append(lockedItems, it)
		stocks = append(stocks, stock)
	}

	// All products resolved; now verify inventory under the locks.
	for i, it := range lockedItems {
		if stocks[i] < it.Quantity {
			return nil, apperr.NotEnoughInventory(
				fmt.Sprintf("Not enough inventory for product %d", it.ProductID))
		}
	}

	o := &Order{
		BuyerID:   buyerID,
		Status:    StatusProcessing,
		PlacedAt:  now,
		UpdatedAt: now,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (buyer_id, status, placed_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 RETURNING id`,
		buyerID, o.Status, now,
	).Scan(&o.ID)
	if err != nil {
		return nil, err
	}

	for i := range lockedItems {
		it := &lockedItems[i]
		it.OrderID = o.ID

		_, err = tx.ExecContext(ctx,
			`UPDATE products
			 SET stock_quantity = stock_quantity - $1, updated_at = $2
			 WHERE id = $3`,
			it.Quantity, now, it.ProductID)
		if err != nil {
			return nil, err
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_wholesale_price, unit_retail_price)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			o.ID, it.ProductID, it.Quantity, it.UnitWholesalePrice, it.UnitRetailPrice,
		).Scan(&it.ID)
		if err != nil {
			return nil, err
		}
	}
	o.Items = lockedItems

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) FindWithItems(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx,
		`SELECT o.id, o.buyer_id, u.username, o.status, o.placed_at, o.updated_at
		 FROM orders o
		 JOIN users u ON u.id = o.buyer_id
		 WHERE o.id = $1`,
		id,
	).Scan(&o.ID, &o.BuyerID, &o.BuyerUsername, &o.Status, &o.PlacedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, p.description, oi.quantity,
		        oi.unit_wholesale_price, oi.unit_retail_price
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = $1
		 ORDER BY oi.id`,
		id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitWholesalePrice, &it.UnitRetailPrice); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) FindByBuyer(ctx context.Context, buyerID int64) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, buyer_id, status, placed_at, updated_at
		 FROM orders
		 WHERE buyer_id = $1
		 ORDER BY placed_at DESC`,
		buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows, false)
}

func (r *repository) FindAllPaged(ctx context.Context, offset, limit int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.buyer_id, u.username, o.status, o.placed_at, o.updated_at
		 FROM orders o
		 JOIN users u ON u.id = o.buyer_id
		 ORDER BY o.placed_at DESC
		 OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows, true)
}

func scanOrders(rows *sql.Rows, withUsername bool) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		var o Order
		var err error
		if withUsername {
			err = rows.Scan(&o.ID, &o.BuyerID, &o.BuyerUsername, &o.Status, &o.PlacedAt, &o.UpdatedAt)
		} else {
			err = rows.Scan(&o.ID, &o.BuyerID, &o.Status, &o.PlacedAt, &o.UpdatedAt)
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Cancel transitions the order to CANCELED and credits every item's quantity
// back to its product, all inside one transaction.
func (r *repository) Cancel(ctx context.Context, id int64) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := lockOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Status.EnsureCancelable(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE products p
		 SET stock_quantity = p.stock_quantity + oi.quantity, updated_at = $2
		 FROM order_items oi
		 WHERE oi.order_id = $1 AND oi.product_id = p.id`,
		id, now)
	if err != nil {
		return nil, err
	}

	if err := setStatus(ctx, tx, id, StatusCanceled, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order canceled", zap.Int64("order_id", id))
	o.Status = StatusCanceled
	o.UpdatedAt = now
	return o, nil
}

func (r *repository) Complete(ctx context.Context, id int64) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := lockOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Status.EnsureCompletable(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := setStatus(ctx, tx, id, StatusCompleted, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order completed", zap.Int64("order_id", id))
	o.Status = StatusCompleted
	o.UpdatedAt = now
	return o, nil
}

func lockOrder(ctx context.Context, tx *sql.Tx, id int64) (*Order, error) {
	var o Order
	err := tx.QueryRowContext(ctx,
		`SELECT id, buyer_id, status, placed_at, updated_at
		 FROM orders
		 WHERE id = $1
		 FOR UPDATE`,
		id,
	).Scan(&o.ID, &o.BuyerID, &o.Status, &o.PlacedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Order not found.")
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func setStatus(ctx context.Context, tx *sql.Tx, id int64, status Status, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		status, now, id)
	return err
}

func (r *repository) MostProfitableProduct(ctx context.Context) (*ProductProfit, error) {
	var p ProductProfit
	err := r.db.QueryRowContext(ctx,
		`SELECT oi.product_id, pr.description,
		        SUM(oi.unit_retail_price * oi.quantity) - SUM(oi.unit_wholesale_price * oi.quantity) AS profit
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 JOIN products pr ON pr.id = oi.product_id
		 WHERE o.status = $1
		 GROUP BY oi.product_id, pr.description
		 ORDER BY profit DESC, oi.product_id ASC
		 LIMIT 1`,
		StatusCompleted,
	).Scan(&p.ProductID, &p.Description, &p.Profit)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) TopPopularProducts(ctx context.Context, limit int) ([]ProductQuantity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT oi.product_id, pr.description, SUM(oi.quantity) AS total
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 JOIN products pr ON pr.id = oi.product_id
		 WHERE o.status = $1
		 GROUP BY oi.product_id, pr.description
		 ORDER BY total DESC, oi.product_id ASC
		 LIMIT $2`,
		StatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProductQuantities(rows)
}

func (r *repository) TotalItemsSold(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(oi.quantity), 0)
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.status = $1`,
		StatusCompleted,
	).Scan(&total)
	return total, err
}

// TopPurchasedItems counts PROCESSING and COMPLETED orders; only canceled
// purchases are excluded.
func (r *repository) TopPurchasedItems(ctx context.Context, buyerID int64, limit int) ([]ProductQuantity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT oi.product_id, pr.description, SUM(oi.quantity) AS total
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 JOIN products pr ON pr.id = oi.product_id
		 WHERE o.buyer_id = $1 AND o.status <> $2
		 GROUP BY oi.product_id, pr.description
		 ORDER BY total DESC, oi.product_id ASC
		 LIMIT $3`,
		buyerID, StatusCanceled, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProductQuantities(rows)
}

func (r *repository) RecentPurchasedItems(ctx context.Context, buyerID int64, limit int) ([]RecentPurchase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT oi.product_id, pr.description, MAX(o.placed_at) AS last_purchase
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 JOIN products pr ON pr.id = oi.product_id
		 WHERE o.buyer_id = $1 AND o.status <> $2
		 GROUP BY oi.product_id, pr.description
		 ORDER BY last_purchase DESC, oi.product_id ASC
		 LIMIT $3`,
		buyerID, StatusCanceled, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []RecentPurchase
	for rows.Next() {
		var p RecentPurchase
		if err := rows.Scan(&p.ProductID, &p.Description, &p.LastPurchasedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func scanProductQuantities(rows *sql.Rows) ([]ProductQuantity, error) {
	var quantities []ProductQuantity
	for rows.Next() {
		var q ProductQuantity
		if err := rows.Scan(&q.ProductID, &q.Description, &q.Quantity); err != nil {
			return nil, err
		}
		quantities = append(quantities, q)
	}
	return quantities, rows.Err()
}
