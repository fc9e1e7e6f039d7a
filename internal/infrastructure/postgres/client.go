package postgres

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lifelogger/backend/internal/config"
)

// NewPool creates and validates a pgx connection pool.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pgxCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		pgxCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pgxCfg.MinConns = int32(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	}
	if cfg.MaxConnLifetime > 0 {
		pgxCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres",
		zap.String("host", pgxCfg.ConnConfig.Host),
		zap.String("db", pgxCfg.ConnConfig.Database),
		zap.Int32("max_conns", pgxCfg.MaxConns))
	return pool, nil
}

// Close releases the pool and logs the result.
func Close(pool *pgxpool.Pool, logger *zap.Logger) {
	if pool == nil {
		return
	}
	pool.Close()
	if logger != nil {
		logger.Info("postgres pool closed")
	}
}

// ResolveRootCA turns DB_SSL_CA into a certificate file path. The value is
// either an existing file path or a base64 encoded PEM, which is written to a
// temporary file that cleanup removes.
func ResolveRootCA(value string) (path string, cleanup func(), err error) {
	cleanup = func() {}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", cleanup, nil
	}
	if info, statErr := os.Stat(value); statErr == nil && !info.IsDir() {
		return value, cleanup, nil
	}

	pem, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", cleanup, fmt.Errorf("DB_SSL_CA is neither a file nor base64: %w", err)
	}

	f, err := os.CreateTemp("", "lifelogger-ca-*.pem")
	if err != nil {
		return "", cleanup, err
	}
	if _, err := f.Write(pem); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", cleanup, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", cleanup, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

// WithRootCA adds sslrootcert to a postgres URL. A disabled or missing
// sslmode becomes verify-ca.
func WithRootCA(dsn, caPath string) (string, error) {
	if caPath == "" {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("sslrootcert", caPath)
	switch q.Get("sslmode") {
	case "", "disable", "allow", "prefer":
		q.Set("sslmode", "verify-ca")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
