package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/campus-eats/internal/order"
)

type OrderRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

const orderColumns = `id, COALESCE(student_id, ''), COALESCE(stall_id, ''), stall_name, name, items, total::text,
	status, status_message, pickup_time, payment_status, transaction_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	var total, status, payment string
	err := row.Scan(&o.ID, &o.StudentID, &o.StallID, &o.StallName, &o.Name, &o.Items, &total,
		&status, &o.StatusMessage, &o.PickupTime, &payment, &o.TransactionID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, errors.Wrap(err, "order total")
	}
	o.Total = d
	o.Status = order.Status(status)
	o.PaymentStatus = order.PaymentStatus(payment)
	if o.Items == nil {
		o.Items = []order.Item{}
	}
	return &o, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items := o.Items
	if items == nil {
		items = []order.Item{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, student_id, stall_id, stall_name, name, items, total, status, status_message,
			pickup_time, payment_status, transaction_id, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, o.ID, o.StudentID, o.StallID, o.StallName, o.Name, items, o.Total.String(),
		string(o.Status), o.StatusMessage, o.PickupTime, string(o.PaymentStatus), o.TransactionID,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUnique(err) {
			return order.ErrExists
		}
		return wrap(err, "insert order")
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, wrap(err, "find order")
	}
	return o, nil
}

func (r *OrderRepo) list(ctx context.Context, column, id string) ([]order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE `+column+`=$1 ORDER BY created_at DESC
	`, id)
	if err != nil {
		return nil, wrap(err, "list orders")
	}
	defer rows.Close()
	out := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrap(err, "scan order")
		}
		out = append(out, *o)
	}
	return out, wrap(rows.Err(), "iterate orders")
}

func (r *OrderRepo) ListByStudent(ctx context.Context, studentID string) ([]order.Order, error) {
	return r.list(ctx, "student_id", studentID)
}

func (r *OrderRepo) ListByStall(ctx context.Context, stallID string) ([]order.Order, error) {
	return r.list(ctx, "stall_id", stallID)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to order.Status, message string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var got string
	err := r.db.QueryRow(ctx, `
		WITH upd AS (
			UPDATE orders SET status=$3, status_message=$4, updated_at=NOW()
			WHERE id=$1 AND status=$2
			RETURNING id
		)
		SELECT COALESCE((SELECT 'updated' FROM upd), (SELECT 'exists' FROM orders WHERE id=$1), 'missing')
	`, id, string(from), string(to), message).Scan(&got)
	if err != nil {
		return wrap(err, "update order status")
	}
	switch got {
	case "updated":
		return nil
	case "missing":
		return order.ErrNotFound
	}
	return order.ErrStatusConflict
}

func (r *OrderRepo) Delete(ctx context.Context, id string, owner order.Owner) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		DELETE FROM orders
		WHERE id=$1 AND ($2::text = '' OR student_id=$2) AND ($3::text = '' OR stall_id=$3)
	`, id, owner.StudentID, owner.StallID)
	if err != nil {
		return false, wrap(err, "delete order")
	}
	return tag.RowsAffected() == 1, nil
}
