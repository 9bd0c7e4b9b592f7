package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ftsilveira/dailydiet/internal/actorctx"
	"github.com/ftsilveira/dailydiet/internal/cache"
	"github.com/ftsilveira/dailydiet/internal/domain/meal"
	"github.com/ftsilveira/dailydiet/internal/domain/user"
	"github.com/ftsilveira/dailydiet/internal/http/middlewares"
	"github.com/ftsilveira/dailydiet/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MealsStore is everything the handlers need from the store. Every id-scoped
// operation takes the owning user id and must never answer for foreign rows.
type MealsStore interface {
	Create(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error)
	ListByUser(ctx context.Context, userID string) ([]meal.Meal, error)
	GetByID(ctx context.Context, userID, id string) (meal.Meal, error)
	Update(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID string) (meal.Summary, error)
}

type UserResolver interface {
	GetBySubject(ctx context.Context, subject string) (user.User, error)
}

type MealsHandler struct {
	users UserResolver
	meals MealsStore
	cache cache.Store
	prom  *observability.Prom
}

func NewMealsHandler(users UserResolver, meals MealsStore) *MealsHandler {
	return &MealsHandler{users: users, meals: meals}
}

func NewMealsHandlerWithCache(users UserResolver, meals MealsStore, c cache.Store, prom *observability.Prom) *MealsHandler {
	return &MealsHandler{users: users, meals: meals, cache: c, prom: prom}
}

// resolveUser maps the verified subject on the request to the owning user
// record. An unknown subject is an authentication failure, not an empty
// owner; an ambiguous one is a data problem and must not pick a row.
func (h *MealsHandler) resolveUser(ctx *gin.Context) (user.User, bool) {
	subject, ok := middlewares.SubjectFromContext(ctx)

	if !ok || subject == "" {
		RespondUnauthorized(ctx, "Missing authenticated subject")
		return user.User{}, false
	}

	u, err := h.users.GetBySubject(ctx.Request.Context(), subject)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnauthorized(ctx, "Unknown user")
			return user.User{}, false
		}

		if errors.Is(err, user.ErrAmbiguousSubject) {
			RespondInternal(ctx, "User record is ambiguous")
			return user.User{}, false
		}

		RespondInternal(ctx, "Could not resolve user")
		return user.User{}, false
	}

	// downstream consumers (request log included) see the acting user id
	ctx.Request = ctx.Request.WithContext(actorctx.WithUserID(ctx.Request.Context(), u.ID))

	return u, true
}

// mealID validates the :id param before it ever reaches the store.
func mealID(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		RespondBadRequest(ctx, "Meal id must be a valid UUID", nil)
		return "", false
	}

	return id, true
}

func (h *MealsHandler) ListMeals(ctx *gin.Context) {
	u, ok := h.resolveUser(ctx)

	if !ok {
		return
	}

	meals, err := h.meals.ListByUser(ctx.Request.Context(), u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not list meals")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"meals": meals,
	})
}

func (h *MealsHandler) CreateMeal(ctx *gin.Context) {
	u, ok := h.resolveUser(ctx)

	if !ok {
		return
	}

	var req meal.CreateMealRequest

	if !BindJSON(ctx, &req) {
		return
	}

	_, err := h.meals.Create(ctx.Request.Context(), u.ID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create meal")
		return
	}

	h.invalidateSummary(ctx.Request.Context(), u.ID)

	ctx.Status(http.StatusCreated)
}

func (h *MealsHandler) GetMealByID(ctx *gin.Context) {
	u, ok := h.resolveUser(ctx)

	if !ok {
		return
	}

	id, ok := mealID(ctx)

	if !ok {
		return
	}

	m, err := h.meals.GetByID(ctx.Request.Context(), u.ID, id)

	if err != nil {
		// absent and foreign rows answer identically
		if errors.Is(err, meal.ErrNotFound) {
			RespondNotFound(ctx, "Meal not found")
			return
		}
		RespondInternal(ctx, "Could not fetch meal")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"meal": m,
	})
}

func (h *MealsHandler) UpdateMeal(ctx *gin.Context) {
	u, ok := h.resolveUser(ctx)

	if !ok {
		return
	}

	id, ok := mealID(ctx)

	if !ok {
		return
	}

	var req meal.UpdateMealRequest

	if !BindJSON(ctx, &req) {
		return
	}

	err := h.meals.Update(ctx.Request.Context(), u.ID, id, req)

	if err != nil {
		if errors.Is(err, meal.ErrNotFound) {
			RespondNotFound(ctx, "Meal not found")
			return
		}
		RespondInternal(ctx, "Could not update meal")
		return
	}

	h.invalidateSummary(ctx.Request.Context(), u.ID)

	ctx.Status(http.StatusAccepted)
}

func (h *MealsHandler) DeleteMeal(ctx *gin.Context) {
	u, ok := h.resolveUser(ctx)

	if !ok {
		return
	}

	id, ok := mealID(ctx)

	if !ok {
		return
	}

	err := h.meals.Delete(ctx.Request.Context(), u.ID, id)

	if err != nil {
		if errors.Is(err, meal.ErrNotFound) {
			RespondNotFound(ctx, "Meal not found")
			return
		}
		RespondInternal(ctx, "Could not delete meal")
		return
	}

	h.invalidateSummary(ctx.Request.Context(), u.ID)

	ctx.Status(http.StatusAccepted)
}

func (h *MealsHandler) Summary(ctx *gin.Context) {
	u, ok := h.resolveUser(ctx)

	if !ok {
		return
	}

	key := summaryKey(u.ID)

	if h.cache != nil {
		raw, hit, err := h.cache.Get(ctx.Request.Context(), key)

		if err != nil {
			// a broken cache never fails the request
			h.countCache("error")
		} else if hit {
			h.countCache("hit")
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		} else {
			h.countCache("miss")
		}
	}

	s, err := h.meals.Summary(ctx.Request.Context(), u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not compute summary")
		return
	}

	body, err := json.Marshal(gin.H{"summary": s})

	if err != nil {
		RespondInternal(ctx, "Could not compute summary")
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx.Request.Context(), key, body)
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *MealsHandler) invalidateSummary(ctx context.Context, userID string) {
	if h.cache == nil {
		return
	}

	_ = h.cache.Delete(ctx, summaryKey(userID))
}

func (h *MealsHandler) countCache(result string) {
	if h.prom == nil {
		return
	}

	h.prom.CacheResults.WithLabelValues(result).Inc()
}

func summaryKey(userID string) string {
	return "summary:" + userID
}
