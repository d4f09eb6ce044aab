package repository

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	comments
	reactions
	projects
	users
	Ping() error
}

// Repository defines the app's repository layer.
type repository struct {
	db *sql.DB
}

// New creates a new instance of Repository.
func New(db *sql.DB) *repository {
	return &repository{db: db}
}

// Ping checks that the database is reachable.
func (r *repository) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
