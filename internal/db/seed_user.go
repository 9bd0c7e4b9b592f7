package db

import (
	"context"
	"errors"
	"time"

	"github.com/ftsilveira/dailydiet/internal/config"
	"github.com/ftsilveira/dailydiet/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSeedUser provisions a single owner record for environments where no
// external identity system has written one yet. Users are otherwise never
// created by this service.
func EnsureSeedUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedUserSubject == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE subject = $1`, cfg.SeedUserSubject).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	u := user.User{
		ID:        uuid.NewString(),
		Subject:   cfg.SeedUserSubject,
		Name:      cfg.SeedUserName,
		CreatedAt: time.Now().UTC(),
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, subject, name, created_at)
		VALUES ($1,$2,$3,$4)
		`,
		u.ID, u.Subject, u.Name, u.CreatedAt,
	)

	return err
}
