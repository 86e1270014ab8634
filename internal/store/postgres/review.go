package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/MikeMC777/campus-eats/internal/review"
)

type ReviewRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

const reviewColumns = `id, student_id, stall_id, menu_item_id, rating, review, images, created_at, updated_at`

func scanReview(row pgx.Row) (*review.Review, error) {
	var rv review.Review
	if err := row.Scan(&rv.ID, &rv.StudentID, &rv.StallID, &rv.MenuItemID, &rv.Rating, &rv.Review,
		&rv.Images, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	if rv.Images == nil {
		rv.Images = []string{}
	}
	return &rv, nil
}

func images(rv *review.Review) []string {
	if rv.Images == nil {
		return []string{}
	}
	return rv.Images
}

func (r *ReviewRepo) Create(ctx context.Context, rv *review.Review) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (id, student_id, stall_id, menu_item_id, rating, review, images, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, rv.ID, rv.StudentID, rv.StallID, rv.MenuItemID, rv.Rating, rv.Review, images(rv), rv.CreatedAt, rv.UpdatedAt)
	return wrap(err, "insert review")
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*review.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rv, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, review.ErrNotFound
		}
		return nil, wrap(err, "find review")
	}
	return rv, nil
}

func (r *ReviewRepo) Update(ctx context.Context, rv *review.Review) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE reviews SET rating=$2, review=$3, images=$4, updated_at=$5 WHERE id=$1
	`, rv.ID, rv.Rating, rv.Review, images(rv), rv.UpdatedAt)
	if err != nil {
		return wrap(err, "update review")
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return false, wrap(err, "delete review")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReviewRepo) ListByStall(ctx context.Context, stallID, menuItemID string) ([]review.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE stall_id=$1 AND ($2::text = '' OR menu_item_id=$2)
		ORDER BY created_at DESC
	`, stallID, menuItemID)
	if err != nil {
		return nil, wrap(err, "list reviews")
	}
	defer rows.Close()
	out := []review.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, wrap(err, "scan review")
		}
		out = append(out, *rv)
	}
	return out, wrap(rows.Err(), "iterate reviews")
}
