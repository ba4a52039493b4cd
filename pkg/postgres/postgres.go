package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	URL          string        `envconfig:"URL" split_words:"true" required:"true"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"1"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" split_words:"true" default:"5s"`
	AutoMigrate  bool          `envconfig:"AUTO_MIGRATE" split_words:"true" default:"true"`
	QueryLog     bool          `envconfig:"QUERY_LOG" split_words:"true" default:"false"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("database url is required")
	}
	if c.MaxOpenConns < 0 {
		return errors.New("database max open conns must be >= 0")
	}
	return nil
}

// New opens a bun handle over pgdriver and verifies the connection.
func New(ctx context.Context, cfg Config) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []pgdriver.Option{pgdriver.WithDSN(strings.TrimSpace(cfg.URL))}
	if cfg.DialTimeout > 0 {
		opts = append(opts, pgdriver.WithDialTimeout(cfg.DialTimeout))
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.QueryLog {
		db.AddQueryHook(queryLogger{})
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func MustNew(ctx context.Context, cfg Config) *bun.DB {
	db, err := New(ctx, cfg)
	if err != nil {
		panic(err)
	}
	return db
}

type queryLogger struct{}

var _ bun.QueryHook = queryLogger{}

func (queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (queryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	ev := log.Debug()
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		ev = log.Warn().Err(event.Err)
	}
	ev.Str("operation", event.Operation()).
		Dur("duration", time.Since(event.StartTime)).
		Str("query", event.Query).
		Msg("sql query")
}
