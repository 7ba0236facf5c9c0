package db

import (
	"context"

	"quiz_webapp/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the Postgres pool. An empty dsn returns nil: the service
// then runs without a users table or audit trail.
func Connect(dsn string) *pgxpool.Pool {
	if dsn == "" {
		logger.Warn("DATABASE_URL is not set, running without database")
		return nil
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return db
}
