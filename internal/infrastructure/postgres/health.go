package postgres

import (
	"context"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker reports database reachability for the readiness probe.
type Checker struct {
	db Pinger
}

// NewChecker creates a new Checker.
func NewChecker(db Pinger) *Checker {
	return &Checker{db: db}
}

// Name identifies the dependency in readiness output.
func (c *Checker) Name() string { return "postgres" }

// Check pings the pool.
func (c *Checker) Check(ctx context.Context) error {
	return c.db.Ping(ctx)
}
