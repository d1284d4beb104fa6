package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"
	"watcher/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// Options holds the connection settings of the registry database.
type Options struct {
	Username string
	Password string
	Host     string
	Port     int
	Database string
	// SslMode is passed through as the sslmode connection parameter.
	SslMode string

	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	MaxOpenConnections int
	MaxIdleConnections int
}

// URL renders the options as a postgres connection URL.
func (o Options) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.Username, o.Password),
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:   "/" + o.Database,
	}
	if o.SslMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{o.SslMode}}.Encode()
	}

	return u.String()
}

// PgSQL is a registry backed by the registry_items table.
type PgSQL struct {
	pool *pgxpool.Pool
	db   *sql.DB
	q    *goqu.Database
}

var _ storage.Storage = (*PgSQL)(nil)

// New opens a pgx pool and wraps it with database/sql so goqu and goose can
// share it.
func New(ctx context.Context, options Options) (*PgSQL, error) {
	cfg, err := pgxpool.ParseConfig(options.URL())
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if options.MaxOpenConnections > 0 {
		cfg.MaxConns = int32(options.MaxOpenConnections) //nolint: gosec
	}
	if options.MaxIdleConnections > 0 {
		cfg.MinConns = int32(options.MaxIdleConnections) //nolint: gosec
	}
	if options.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = options.ConnMaxLifetime
	}
	if options.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = options.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)

	return &PgSQL{
		pool: pool,
		db:   db,
		q:    goqu.New("postgres", db),
	}, nil
}

// DB exposes the database/sql handle.
func (p *PgSQL) DB() *sql.DB {
	return p.db
}

// Migrate applies every pending goose migration found at the root of fsys.
// It returns the versions that were applied.
func (p *PgSQL) Migrate(ctx context.Context, fsys fs.FS) ([]int64, error) {
	provider, err := goose.NewProvider(database.DialectPostgres, p.db, fsys)
	if err != nil {
		return nil, fmt.Errorf("could not create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not apply migrations: %w", err)
	}

	versions := make([]int64, 0, len(results))
	for _, r := range results {
		versions = append(versions, r.Source.Version)
	}

	return versions, nil
}

// withTx runs cb inside a transaction. The transaction is rolled back when cb
// fails or panics.
func (p *PgSQL) withTx(ctx context.Context, cb func(tx *goqu.TxDatabase) error) error {
	tx, err := p.q.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin tx: %w", err)
	}

	return tx.Wrap(func() error { return cb(tx) }) //nolint: wrapcheck
}

// Close releases the pool.
func (p *PgSQL) Close() error {
	err := p.db.Close()
	p.pool.Close()

	return err //nolint: wrapcheck
}
