package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"quiz_webapp/internal/db"
	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/logger"
	"quiz_webapp/internal/repository"
	"quiz_webapp/internal/service"

	"github.com/jackc/pgx/v5"
)

// issue_token prints a session token for local testing. With DATABASE_URL
// set the user is created (or updated) in the users table first.
func main() {
	email := flag.String("email", "tester@example.com", "user email")
	name := flag.String("name", "Tester", "display name")
	role := flag.String("role", "user", "role: admin, user or empty")
	id := flag.Int64("id", 1, "user id when running without a database")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"), false)
	service.InitJWT()

	u := &domain.User{
		ID:    *id,
		Name:  *name,
		Email: *email,
		Role:  domain.ParseRole(*role),
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool := db.Connect(dsn)
		defer pool.Close()

		if err := upsert(context.Background(), repository.NewUserRepository(pool), u); err != nil {
			logger.Fatal("prepare user failed", "error", err)
		}
	}

	token, err := service.GenerateJWT(u)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}

	logger.Info("token issued", "user_id", u.ID, "role", u.Role)
	fmt.Println(token)
}

func upsert(ctx context.Context, repo *repository.UserRepository, u *domain.User) error {
	existing, err := repo.GetByEmail(ctx, u.Email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return repo.Create(ctx, u)
	case err != nil:
		return err
	}

	u.ID = existing.ID
	u.CreatedAt = existing.CreatedAt
	if existing.Role != u.Role {
		return repo.SetRole(ctx, u.ID, u.Role)
	}
	return nil
}
