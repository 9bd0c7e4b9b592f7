package postgres

import (
	"context"

	"github.com/ftsilveira/dailydiet/internal/domain/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

// GetBySubject maps a verified token subject to the internal user record.
// Zero rows and multiple rows are both surfaced explicitly: a subject that
// resolves to nothing is an authentication failure, a subject that resolves
// to two users is a data integrity problem and must never pick one silently.
func (r *UsersRepo) GetBySubject(ctx context.Context, subject string) (user.User, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, subject, name, created_at
         FROM users
         WHERE subject = $1
         LIMIT 2`,
		subject,
	)

	if err != nil {
		return user.User{}, err
	}

	defer rows.Close()

	var matches []user.User

	for rows.Next() {
		var u user.User

		err = rows.Scan(&u.ID, &u.Subject, &u.Name, &u.CreatedAt)

		if err != nil {
			return user.User{}, err
		}

		matches = append(matches, u)
	}

	err = rows.Err()

	if err != nil {
		return user.User{}, err
	}

	switch len(matches) {
	case 0:
		return user.User{}, user.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return user.User{}, user.ErrAmbiguousSubject
	}
}
