package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ftsilveira/dailydiet/internal/domain/meal"
	"github.com/ftsilveira/dailydiet/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MealsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function; prom may be nil (tests)

func NewMealsRepo(pool *pgxpool.Pool, prom *observability.Prom) *MealsRepo {
	return &MealsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *MealsRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}

	return r.prom.ObserveDB(op, fn)
}

func (r *MealsRepo) Create(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error) {
	m := meal.NewFromCreateRequest(userID, req)

	err := r.observe("meals.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO meals(id, user_id, name, description, meal_date, meal_hour, is_on_the_diet) VALUES($1,$2,$3,$4,$5,$6,$7)`,
			m.ID, m.UserID, m.Name, m.Description, m.MealDate, m.MealHour, m.IsOnTheDiet)

		return err
	})

	if err != nil {
		return meal.Meal{}, err
	}

	return m, nil
}

func (r *MealsRepo) ListByUser(ctx context.Context, userID string) ([]meal.Meal, error) {
	var output []meal.Meal

	err := r.observe("meals.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, name, user_id, description, meal_date, meal_hour, is_on_the_diet
			FROM meals
			WHERE user_id = $1`, userID)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]meal.Meal, 0)

		for rows.Next() {
			var m meal.Meal

			err = rows.Scan(&m.ID, &m.Name, &m.UserID, &m.Description, &m.MealDate, &m.MealHour, &m.IsOnTheDiet)

			if err != nil {
				return err
			}

			output = append(output, m)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// GetByID filters on id AND user_id so a missing row and a foreign row are
// the same ErrNotFound. Every id-scoped query below uses the same two
// predicates.
func (r *MealsRepo) GetByID(ctx context.Context, userID, id string) (meal.Meal, error) {
	var m meal.Meal
	notFound := false

	err := r.observe("meals.get", func() error {
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, user_id, description, meal_date, meal_hour, is_on_the_diet
			FROM meals
			WHERE id = $1 AND user_id = $2`, id, userID,
		).Scan(&m.ID, &m.Name, &m.UserID, &m.Description, &m.MealDate, &m.MealHour, &m.IsOnTheDiet)

		// a scoped miss is an expected outcome, not a storage error
		if errors.Is(err, pgx.ErrNoRows) {
			notFound = true
			return nil
		}

		return err
	})

	if err != nil {
		return meal.Meal{}, err
	}

	if notFound {
		return meal.Meal{}, meal.ErrNotFound
	}

	return m, nil
}

func (r *MealsRepo) Update(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
	// An empty patch still has to answer exists/not-exists for the caller.
	if req.Empty() {
		_, err := r.GetByID(ctx, userID, id)
		return err
	}

	var sets []string
	var args []interface{}

	argsPosition := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argsPosition))
		args = append(args, *req.Name)
		argsPosition++
	}

	if req.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argsPosition))
		args = append(args, *req.Description)
		argsPosition++
	}

	if req.MealDate != nil {
		sets = append(sets, fmt.Sprintf("meal_date = $%d", argsPosition))
		args = append(args, *req.MealDate)
		argsPosition++
	}

	if req.IsOnTheDiet != nil {
		sets = append(sets, fmt.Sprintf("is_on_the_diet = $%d", argsPosition))
		args = append(args, *req.IsOnTheDiet)
		argsPosition++
	}

	query := fmt.Sprintf(
		"UPDATE meals SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), argsPosition, argsPosition+1,
	)

	args = append(args, id, userID)

	var affected int64

	err := r.observe("meals.update", func() error {
		tag, err := r.pool.Exec(ctx, query, args...)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// a scoped miss is not a storage error, keep it out of the error metrics
	if affected == 0 {
		return meal.ErrNotFound
	}

	return nil
}

func (r *MealsRepo) Delete(ctx context.Context, userID, id string) error {
	var affected int64

	err := r.observe("meals.delete", func() error {
		tag, err := r.pool.Exec(ctx, `
			DELETE FROM meals WHERE id = $1 AND user_id = $2
		`, id, userID)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return meal.ErrNotFound
	}

	return nil
}

// Summary counts all three figures in one pass so the on/off split always
// adds up to the total for the snapshot the query saw.
func (r *MealsRepo) Summary(ctx context.Context, userID string) (meal.Summary, error) {
	var s meal.Summary

	err := r.observe("meals.summary", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT COUNT(*),
				COUNT(*) FILTER (WHERE is_on_the_diet),
				COUNT(*) FILTER (WHERE NOT is_on_the_diet)
			FROM meals
			WHERE user_id = $1`, userID,
		).Scan(&s.TotalMeals, &s.TotalOnTheDiet, &s.TotalOutsideTheDiet)
	})

	if err != nil {
		return meal.Summary{}, err
	}

	return s, nil
}
