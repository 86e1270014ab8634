// Package postgres implements the repositories on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	_ "embed"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/campus-eats/internal/apperr"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Store struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func Connect(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "postgres pool")
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.Ping(pctx); err != nil {
		db.Close()
		return nil, apperr.Unavailable(errors.Wrap(err, "postgres ping"))
	}
	return &Store{db: db, timeout: timeout}, nil
}

// Migrate applies the embedded schema statement by statement. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migrate: %.60s", stmt)
		}
	}
	log.Info("[postgres] schema up to date")
	return nil
}

func (s *Store) Close() { s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.Ping(ctx)
}

func (s *Store) Students() *StudentRepo { return &StudentRepo{db: s.db, timeout: s.timeout} }
func (s *Store) Stalls() *StallRepo     { return &StallRepo{db: s.db, timeout: s.timeout} }
func (s *Store) Orders() *OrderRepo     { return &OrderRepo{db: s.db, timeout: s.timeout} }
func (s *Store) Reviews() *ReviewRepo   { return &ReviewRepo{db: s.db, timeout: s.timeout} }

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// wrap tags dial failures and timeouts as unavailable and annotates the rest.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if pgconn.Timeout(err) || errors.As(err, &netErr) {
		return apperr.Unavailable(errors.Wrap(err, op))
	}
	return errors.Wrap(err, op)
}
