package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Options describes the MySQL endpoint and how the pool is sized. The
// limits come from configuration so a small clinic deployment and a large
// one can tune them without a rebuild.
type Options struct {
	User string
	Pass string
	Host string
	Port string
	Name string

	MaxConns     int           // caps both open and idle connections
	ConnLifetime time.Duration // connections older than this are recycled
}

// Startup fails fast when the server is unreachable.
const pingTimeout = 5 * time.Second

// Open dials MySQL, applies the pool limits and verifies the server is
// reachable before anything else starts.
func Open(opts Options) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(opts.Host, opts.Port)
	cfg.DBName = opts.Name
	// DATETIME columns scan into time.Time, pinned to UTC so admission and
	// appointment timestamps round-trip regardless of the server zone.
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(opts.MaxConns)
	db.SetMaxIdleConns(opts.MaxConns)
	db.SetConnMaxLifetime(opts.ConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
