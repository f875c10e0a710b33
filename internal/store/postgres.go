// Package store provides URL-unique article persistence on PostgreSQL.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Pool defaults, applied when the corresponding Config field is zero.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

// pingTimeout bounds the connectivity check at startup.
const pingTimeout = 5 * time.Second

// Config holds database configuration.
type Config struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`

	// MaxOpenConns caps the connection pool; zero applies the default.
	MaxOpenConns int `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	// MaxIdleConns caps idle pooled connections; zero applies the default.
	MaxIdleConns int `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	// ConnMaxLifetime recycles connections after this age; zero applies the
	// default.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string for the configuration.
func (c Config) DSN() string {
	params := []string{
		"host=" + c.Host,
		"port=" + c.Port,
		"user=" + c.User,
		"password=" + c.Password,
		"dbname=" + c.DBName,
		"sslmode=" + c.SSLMode,
	}
	return strings.Join(params, " ")
}

// poolSettings returns the effective pool limits with defaults applied.
func (c Config) poolSettings() (maxOpen, maxIdle int, maxLifetime time.Duration) {
	maxOpen = c.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle = c.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	maxLifetime = c.ConnMaxLifetime
	if maxLifetime <= 0 {
		maxLifetime = defaultConnMaxLifetime
	}
	return maxOpen, maxIdle, maxLifetime
}

// NewConnection creates a new PostgreSQL database connection pool.
func NewConnection(cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	maxOpen, maxIdle, maxLifetime := cfg.poolSettings()
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}
