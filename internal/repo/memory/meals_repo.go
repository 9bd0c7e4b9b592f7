package memory

import (
	"context"
	"sync"

	"github.com/ftsilveira/dailydiet/internal/domain/meal"
	"github.com/ftsilveira/dailydiet/internal/domain/user"
	"github.com/google/uuid"
)

// MealsRepo mirrors the postgres contract in memory, for tests and for
// running the API without a database.
type MealsRepo struct {
	mu    sync.RWMutex
	items map[string]meal.Meal
}

func NewMealsRepo() *MealsRepo {
	return &MealsRepo{
		items: make(map[string]meal.Meal),
	}
}

func (r *MealsRepo) Create(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error) {
	m := meal.NewFromCreateRequest(userID, req)

	r.mu.Lock()
	r.items[m.ID] = m
	r.mu.Unlock()

	return m, nil
}

func (r *MealsRepo) ListByUser(ctx context.Context, userID string) ([]meal.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]meal.Meal, 0)

	for _, m := range r.items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *MealsRepo) GetByID(ctx context.Context, userID, id string) (meal.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]

	// foreign rows look exactly like absent rows
	if !ok || m.UserID != userID {
		return meal.Meal{}, meal.ErrNotFound
	}

	return m, nil
}

func (r *MealsRepo) Update(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]

	if !ok || m.UserID != userID {
		return meal.ErrNotFound
	}

	if req.Name != nil {
		m.Name = *req.Name
	}

	if req.Description != nil {
		m.Description = *req.Description
	}

	if req.MealDate != nil {
		m.MealDate = *req.MealDate
	}

	if req.IsOnTheDiet != nil {
		m.IsOnTheDiet = *req.IsOnTheDiet
	}

	// mealHour never changes after creation

	r.items[id] = m

	return nil
}

func (r *MealsRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]

	if !ok || m.UserID != userID {
		return meal.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *MealsRepo) Summary(ctx context.Context, userID string) (meal.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s meal.Summary

	for _, m := range r.items {
		if m.UserID != userID {
			continue
		}

		s.TotalMeals++

		if m.IsOnTheDiet {
			s.TotalOnTheDiet++
		} else {
			s.TotalOutsideTheDiet++
		}
	}

	return s, nil
}

// UsersRepo is the in-memory counterpart of the subject lookup.
type UsersRepo struct {
	mu    sync.RWMutex
	users map[string][]user.User // keyed by subject
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		users: make(map[string][]user.User),
	}
}

func (r *UsersRepo) Add(subject, name string) user.User {
	u := user.User{
		ID:      uuid.NewString(),
		Subject: subject,
		Name:    name,
	}

	r.mu.Lock()
	r.users[subject] = append(r.users[subject], u)
	r.mu.Unlock()

	return u
}

func (r *UsersRepo) GetBySubject(ctx context.Context, subject string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.users[subject]

	switch len(matches) {
	case 0:
		return user.User{}, user.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return user.User{}, user.ErrAmbiguousSubject
	}
}
