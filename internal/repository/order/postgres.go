package order

import (
	"context"
	"errors"
	"log"

	"petmarket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, customer_id::text, seller_id::text, status, items_price, shipping_fee, discount, total, coupon_code, address, created_at, updated_at`

func (r *postgresRepo) CreateFromCart(ctx context.Context, cartID string, orders []domain.Order) ([]domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		for _, l := range o.Lines {
			cmd, err := tx.Exec(ctx, `
UPDATE pets
SET stock = stock - $1
WHERE id = $2 AND stock >= $1
`, l.Quantity, l.PetID)
			if err != nil {
				return nil, err
			}
			if cmd.RowsAffected() == 0 {
				return nil, ErrNotEnoughStock
			}
		}

		out := o
		err := tx.QueryRow(ctx, `
INSERT INTO orders (customer_id, seller_id, status, items_price, shipping_fee, discount, total, coupon_code, address)
VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7, $8)
RETURNING id::text, status, created_at, updated_at
`, o.CustomerID, o.SellerID, o.ItemsPrice, o.ShippingFee, o.Discount, o.Total, o.CouponCode, o.Address).
			Scan(&out.ID, &out.Status, &out.CreatedAt, &out.UpdatedAt)
		if err != nil {
			return nil, err
		}

		out.Lines = make([]domain.OrderLine, 0, len(o.Lines))
		for _, l := range o.Lines {
			line := l
			line.OrderID = out.ID
			err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, pet_id, name, unit_price, quantity, image)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, out.ID, l.PetID, l.Name, l.UnitPrice, l.Quantity, l.Image).Scan(&line.ID)
			if err != nil {
				return nil, err
			}
			out.Lines = append(out.Lines, line)
		}
		created = append(created, out)
	}

	cmd, err := tx.Exec(ctx, `UPDATE carts SET state = 'ordered' WHERE id = $1 AND state = 'active'`, cartID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).Scan(
		&o.ID, &o.CustomerID, &o.SellerID, &o.Status, &o.ItemsPrice, &o.ShippingFee, &o.Discount, &o.Total, &o.CouponCode, &o.Address, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *postgresRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
}

func (r *postgresRepo) SetStatus(ctx context.Context, id, from, to string) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
`, to, id, from)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Cancel(ctx context.Context, id, from string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE orders
SET status = 'cancelled', updated_at = now()
WHERE id = $1 AND status = $2
`, id, from)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	// Listings may have been deleted since the order was placed; restore what
	// still exists.
	if _, err := tx.Exec(ctx, `
UPDATE pets
SET stock = stock + l.quantity
FROM order_lines l
WHERE l.order_id = $1 AND pets.id = l.pet_id
`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.SellerID, &o.Status, &o.ItemsPrice, &o.ShippingFee, &o.Discount, &o.Total, &o.CouponCode, &o.Address, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.loadLines(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) loadLines(ctx context.Context, o *domain.Order) error {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, pet_id::text, name, unit_price, quantity, image
FROM order_lines
WHERE order_id = $1
`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Lines = []domain.OrderLine{}
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.PetID, &l.Name, &l.UnitPrice, &l.Quantity, &l.Image); err != nil {
			return err
		}
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}
