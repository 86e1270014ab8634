package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/campus-eats/internal/stall"
)

type StallRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

const stallColumns = `id, name, email, password_hash, description, cuisine_type, kind,
	rating_sum, total_reviews, created_at, updated_at`

func scanStall(row pgx.Row) (*stall.Stall, error) {
	var s stall.Stall
	var kind string
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Description, &s.CuisineType, &kind,
		&s.Rating.Sum, &s.Rating.Count, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Kind = stall.Kind(kind)
	return &s, nil
}

func (r *StallRepo) Create(ctx context.Context, s *stall.Stall) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO stalls (id, name, email, password_hash, description, cuisine_type, kind,
			rating_sum, total_reviews, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, s.ID, s.Name, s.Email, s.PasswordHash, s.Description, s.CuisineType, string(s.Kind),
		s.Rating.Sum, s.Rating.Count, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUnique(err) {
			return stall.ErrEmailTaken
		}
		return wrap(err, "insert stall")
	}
	return nil
}

// menus loads the menus of the given stalls in insertion order.
func (r *StallRepo) menus(ctx context.Context, ids []string) (map[string][]stall.MenuItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT stall_id, id, name, price::text, description, category, image, is_available,
			rating_sum, total_reviews, nutrition, customization
		FROM menu_items WHERE stall_id = ANY($1) ORDER BY seq
	`, ids)
	if err != nil {
		return nil, wrap(err, "find menu")
	}
	defer rows.Close()
	out := make(map[string][]stall.MenuItem, len(ids))
	for rows.Next() {
		var stallID, price string
		var it stall.MenuItem
		if err := rows.Scan(&stallID, &it.ID, &it.Name, &price, &it.Description, &it.Category, &it.Image,
			&it.IsAvailable, &it.Rating.Sum, &it.Rating.Count, &it.NutritionInfo, &it.CustomizationOptions); err != nil {
			return nil, wrap(err, "scan menu item")
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, errors.Wrap(err, "menu item price")
		}
		it.Price = p
		out[stallID] = append(out[stallID], it)
	}
	return out, wrap(rows.Err(), "iterate menu")
}

func (r *StallRepo) get(ctx context.Context, where, arg string) (*stall.Stall, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	s, err := scanStall(r.db.QueryRow(ctx, `SELECT `+stallColumns+` FROM stalls WHERE `+where+`=$1`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stall.ErrNotFound
		}
		return nil, wrap(err, "find stall")
	}
	menus, err := r.menus(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Menu = menus[s.ID]
	if s.Menu == nil {
		s.Menu = []stall.MenuItem{}
	}
	return s, nil
}

func (r *StallRepo) GetByID(ctx context.Context, id string) (*stall.Stall, error) {
	return r.get(ctx, "id", id)
}

func (r *StallRepo) GetByEmail(ctx context.Context, email string) (*stall.Stall, error) {
	return r.get(ctx, "email", email)
}

func (r *StallRepo) List(ctx context.Context) ([]stall.Stall, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+stallColumns+` FROM stalls ORDER BY name`)
	if err != nil {
		return nil, wrap(err, "list stalls")
	}
	out := []stall.Stall{}
	ids := []string{}
	for rows.Next() {
		s, err := scanStall(rows)
		if err != nil {
			rows.Close()
			return nil, wrap(err, "scan stall")
		}
		out = append(out, *s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "iterate stalls")
	}
	if len(ids) == 0 {
		return out, nil
	}
	menus, err := r.menus(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Menu = menus[out[i].ID]
		if out[i].Menu == nil {
			out[i].Menu = []stall.MenuItem{}
		}
	}
	return out, nil
}

func (r *StallRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM stalls WHERE id=$1`, id)
	if err != nil {
		return false, wrap(err, "delete stall")
	}
	return tag.RowsAffected() == 1, nil
}

// options keeps a nil slice from being stored as JSON null.
func options(item stall.MenuItem) []stall.CustomizationOption {
	if item.CustomizationOptions == nil {
		return []stall.CustomizationOption{}
	}
	return item.CustomizationOptions
}

func (r *StallRepo) touch(ctx context.Context, tx pgx.Tx, stallID string) error {
	tag, err := tx.Exec(ctx, `UPDATE stalls SET updated_at=NOW() WHERE id=$1`, stallID)
	if err != nil {
		return wrap(err, "touch stall")
	}
	if tag.RowsAffected() == 0 {
		return stall.ErrNotFound
	}
	return nil
}

func (r *StallRepo) AddMenuItem(ctx context.Context, stallID string, item stall.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.touch(ctx, tx, stallID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO menu_items (id, stall_id, name, price, description, category, image, is_available,
			nutrition, customization)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, item.ID, stallID, item.Name, item.Price.String(), item.Description, item.Category,
		item.Image, item.IsAvailable, item.NutritionInfo, options(item)); err != nil {
		return wrap(err, "insert menu item")
	}
	return wrap(tx.Commit(ctx), "commit")
}

func (r *StallRepo) UpdateMenuItem(ctx context.Context, stallID string, item stall.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.touch(ctx, tx, stallID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE menu_items
		SET name=$3, price=$4, description=$5, category=$6, image=$7, is_available=$8,
			nutrition=$9, customization=$10,
			rating_sum    = CASE WHEN name=$3 THEN rating_sum ELSE 0 END,
			total_reviews = CASE WHEN name=$3 THEN total_reviews ELSE 0 END
		WHERE id=$1 AND stall_id=$2
	`, item.ID, stallID, item.Name, item.Price.String(), item.Description, item.Category,
		item.Image, item.IsAvailable, item.NutritionInfo, options(item))
	if err != nil {
		return wrap(err, "update menu item")
	}
	if tag.RowsAffected() == 0 {
		return stall.ErrMenuItemNotFound
	}
	return wrap(tx.Commit(ctx), "commit")
}

func (r *StallRepo) DeleteMenuItem(ctx context.Context, stallID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.touch(ctx, tx, stallID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE id=$1 AND stall_id=$2`, itemID, stallID)
	if err != nil {
		return wrap(err, "delete menu item")
	}
	if tag.RowsAffected() == 0 {
		return stall.ErrMenuItemNotFound
	}
	return wrap(tx.Commit(ctx), "commit")
}

// IncRating applies the stall and item deltas in one transaction.
func (r *StallRepo) IncRating(ctx context.Context, stallID, menuItem string, sum, count int) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE stalls SET rating_sum = rating_sum + $2, total_reviews = total_reviews + $3 WHERE id=$1
	`, stallID, sum, count)
	if err != nil {
		return wrap(err, "inc stall rating")
	}
	if tag.RowsAffected() == 0 {
		return stall.ErrNotFound
	}
	if menuItem != "" {
		if _, err := tx.Exec(ctx, `
			UPDATE menu_items SET rating_sum = rating_sum + $3, total_reviews = total_reviews + $4
			WHERE stall_id=$1 AND name=$2
		`, stallID, menuItem, sum, count); err != nil {
			return wrap(err, "inc item rating")
		}
	}
	return wrap(tx.Commit(ctx), "commit")
}

func (r *StallRepo) SetRatings(ctx context.Context, stallID string, total stall.Rating, items map[string]stall.Rating) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE stalls SET rating_sum=$2, total_reviews=$3 WHERE id=$1
	`, stallID, total.Sum, total.Count)
	if err != nil {
		return wrap(err, "set stall rating")
	}
	if tag.RowsAffected() == 0 {
		return stall.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `
		UPDATE menu_items SET rating_sum=0, total_reviews=0 WHERE stall_id=$1
	`, stallID); err != nil {
		return wrap(err, "reset item ratings")
	}
	batch := &pgx.Batch{}
	for name, rt := range items {
		batch.Queue(`
			UPDATE menu_items SET rating_sum=$3, total_reviews=$4 WHERE stall_id=$1 AND name=$2
		`, stallID, name, rt.Sum, rt.Count)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return wrap(err, "set item ratings")
		}
	}
	return wrap(tx.Commit(ctx), "commit")
}
