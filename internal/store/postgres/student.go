package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/MikeMC777/campus-eats/internal/student"
)

type StudentRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func (r *StudentRepo) Create(ctx context.Context, s *student.Student) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO students (id, name, email, password_hash, theme, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, s.ID, s.Name, s.Email, s.PasswordHash, string(s.Theme), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUnique(err) {
			return student.ErrEmailTaken
		}
		return wrap(err, "insert student")
	}
	return nil
}

func (r *StudentRepo) get(ctx context.Context, where string, arg string) (*student.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var s student.Student
	var theme string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, theme, created_at, updated_at
		FROM students WHERE `+where+`=$1
	`, arg).Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &theme, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrNotFound
		}
		return nil, wrap(err, "find student")
	}
	s.Theme = student.Theme(theme)

	rows, err := r.db.Query(ctx, `
		SELECT stall_id, menu_item_id, added_at
		FROM student_favorites WHERE student_id=$1 ORDER BY seq
	`, s.ID)
	if err != nil {
		return nil, wrap(err, "find favorites")
	}
	defer rows.Close()
	s.Favorites = []student.Favorite{}
	for rows.Next() {
		var f student.Favorite
		if err := rows.Scan(&f.StallID, &f.MenuItemID, &f.AddedAt); err != nil {
			return nil, wrap(err, "scan favorite")
		}
		s.Favorites = append(s.Favorites, f)
	}
	return &s, wrap(rows.Err(), "iterate favorites")
}

func (r *StudentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	return r.get(ctx, "id", id)
}

func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*student.Student, error) {
	return r.get(ctx, "email", email)
}

func (r *StudentRepo) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM students WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, wrap(err, "find students")
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, wrap(err, "scan student")
		}
		out[id] = name
	}
	return out, wrap(rows.Err(), "iterate students")
}

func (r *StudentRepo) SetTheme(ctx context.Context, id string, theme student.Theme) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE students SET theme=$2, updated_at=NOW() WHERE id=$1
	`, id, string(theme))
	if err != nil {
		return wrap(err, "set theme")
	}
	if tag.RowsAffected() == 0 {
		return student.ErrNotFound
	}
	return nil
}

// AddFavorite locks the student row so concurrent adds for one student run one at a time.
func (r *StudentRepo) AddFavorite(ctx context.Context, id string, f student.Favorite) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM students WHERE id=$1 FOR UPDATE`, id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return student.ErrNotFound
		}
		return wrap(err, "lock student")
	}
	var blocked bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM student_favorites
			WHERE student_id=$1 AND stall_id=$2 AND menu_item_id IN ($3, $4)
		)
	`, id, f.StallID, f.MenuItemID, student.AllItems).Scan(&blocked); err != nil {
		return wrap(err, "check favorite")
	}
	if blocked {
		return student.ErrDuplicateFavorite
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO student_favorites (student_id, stall_id, menu_item_id, added_at)
		VALUES ($1,$2,$3,$4)
	`, id, f.StallID, f.MenuItemID, f.AddedAt); err != nil {
		return wrap(err, "insert favorite")
	}
	if _, err := tx.Exec(ctx, `UPDATE students SET updated_at=NOW() WHERE id=$1`, id); err != nil {
		return wrap(err, "touch student")
	}
	return wrap(tx.Commit(ctx), "commit")
}

func (r *StudentRepo) RemoveFavorites(ctx context.Context, id, stallID, menuItemID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE students SET updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return wrap(err, "touch student")
	}
	if tag.RowsAffected() == 0 {
		return student.ErrNotFound
	}
	if menuItemID == student.AllItems {
		_, err = r.db.Exec(ctx, `DELETE FROM student_favorites WHERE student_id=$1 AND stall_id=$2`, id, stallID)
	} else {
		_, err = r.db.Exec(ctx, `
			DELETE FROM student_favorites WHERE student_id=$1 AND stall_id=$2 AND menu_item_id=$3
		`, id, stallID, menuItemID)
	}
	return wrap(err, "delete favorites")
}

func (r *StudentRepo) PurgeStallFavorites(ctx context.Context, stallID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	err := r.db.QueryRow(ctx, `
		WITH gone AS (
			DELETE FROM student_favorites WHERE stall_id=$1 RETURNING student_id
		)
		SELECT COUNT(DISTINCT student_id) FROM gone
	`, stallID).Scan(&n)
	if err != nil {
		return 0, wrap(err, "purge favorites")
	}
	return n, nil
}
