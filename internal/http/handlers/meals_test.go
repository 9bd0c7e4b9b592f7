package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ftsilveira/dailydiet/internal/auth"
	"github.com/ftsilveira/dailydiet/internal/cache"
	"github.com/ftsilveira/dailydiet/internal/domain/meal"
	"github.com/ftsilveira/dailydiet/internal/domain/user"
	"github.com/ftsilveira/dailydiet/internal/http/handlers"
	"github.com/ftsilveira/dailydiet/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func newUUID() string {
	return uuid.NewString()
}

const testSubject = "auth0|subject-1"

// Fake store implementations of the handlers interfaces

type fakeMealsRepo struct {
	createFn  func(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error)
	listFn    func(ctx context.Context, userID string) ([]meal.Meal, error)
	getFn     func(ctx context.Context, userID, id string) (meal.Meal, error)
	updateFn  func(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error
	deleteFn  func(ctx context.Context, userID, id string) error
	summaryFn func(ctx context.Context, userID string) (meal.Summary, error)
}

func (f *fakeMealsRepo) Create(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error) {
	if f.createFn != nil {
		return f.createFn(ctx, userID, req)
	}

	return meal.Meal{}, nil
}

func (f *fakeMealsRepo) ListByUser(ctx context.Context, userID string) ([]meal.Meal, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}

	return []meal.Meal{}, nil
}

func (f *fakeMealsRepo) GetByID(ctx context.Context, userID, id string) (meal.Meal, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID, id)
	}

	return meal.Meal{}, nil
}

func (f *fakeMealsRepo) Update(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, id, req)
	}

	return nil
}

func (f *fakeMealsRepo) Delete(ctx context.Context, userID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, id)
	}

	return nil
}

func (f *fakeMealsRepo) Summary(ctx context.Context, userID string) (meal.Summary, error) {
	if f.summaryFn != nil {
		return f.summaryFn(ctx, userID)
	}

	return meal.Summary{}, nil
}

type fakeUsers struct {
	getFn func(ctx context.Context, subject string) (user.User, error)
}

func (f *fakeUsers) GetBySubject(ctx context.Context, subject string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, subject)
	}

	return user.User{ID: "user-1", Subject: subject}, nil
}

// fake verifier behind the auth middleware's TokenVerifier seam

type fakeVerifier struct {
	err error
}

func (f *fakeVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &auth.Claims{Subject: testSubject, TokenType: "access"}, nil
}

// setupRouter mounts one handler behind the real auth middleware so the
// request pipeline matches production: verify token, then resolve, then act.
func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	authMW := middlewares.NewAuthMiddleware(&fakeVerifier{})

	r.Handle(method, path, authMW.RequireAuth(), h)

	return r
}

func authedRequest(method, url string, body string) *http.Request {
	var req *http.Request

	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	req.Header.Set("Authorization", "Bearer test-token")

	return req
}

// Create meal tests

func TestCreateMealHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		usersSetUp     func(*fakeUsers)
		repoSetUp      func(*fakeMealsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"name": "Lunch",
				"description": "Rice and beans",
				"mealDate": "2024-01-01",
				"mealHour": "12:00",
				"isOnTheDiet": true
			}`,
			repoSetUp: func(f *fakeMealsRepo) {
				f.createFn = func(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error) {
					if userID != "user-1" {
						return meal.Meal{}, errors.New("wrong owner")
					}
					return meal.NewFromCreateRequest(userID, req), nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "explicit_false_is_still_valid",
			body: `{
				"name": "Dessert",
				"description": "Chocolate cake",
				"mealDate": "2024-01-01",
				"mealHour": "16:00",
				"isOnTheDiet": false
			}`,
			repoSetUp: func(f *fakeMealsRepo) {
				f.createFn = func(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error) {
					if req.IsOnTheDiet == nil || *req.IsOnTheDiet {
						return meal.Meal{}, errors.New("false flag lost in binding")
					}
					return meal.NewFromCreateRequest(userID, req), nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "validation_error_missing_fields",
			body: `{"name": "Lunch"}`,
			repoSetUp: func(f *fakeMealsRepo) {
				// the store must not be touched on a bad payload
				f.createFn = func(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error) {
					t.Error("store called for invalid payload")
					return meal.Meal{}, nil
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "validation_error_wrong_type",
			body:           `{"name":"Lunch","description":"x","mealDate":"2024-01-01","mealHour":"12:00","isOnTheDiet":"yes"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unknown_subject_is_unauthorized",
			body: `{
				"name": "Lunch",
				"description": "Rice and beans",
				"mealDate": "2024-01-01",
				"mealHour": "12:00",
				"isOnTheDiet": true
			}`,
			usersSetUp: func(f *fakeUsers) {
				f.getFn = func(ctx context.Context, subject string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "ambiguous_subject_is_internal",
			body: `{
				"name": "Lunch",
				"description": "Rice and beans",
				"mealDate": "2024-01-01",
				"mealHour": "12:00",
				"isOnTheDiet": true
			}`,
			usersSetUp: func(f *fakeUsers) {
				f.getFn = func(ctx context.Context, subject string) (user.User, error) {
					return user.User{}, user.ErrAmbiguousSubject
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name: "repo_error",
			body: `{
				"name": "Lunch",
				"description": "Rice and beans",
				"mealDate": "2024-01-01",
				"mealHour": "12:00",
				"isOnTheDiet": true
			}`,
			repoSetUp: func(f *fakeMealsRepo) {
				f.createFn = func(ctx context.Context, userID string, req meal.CreateMealRequest) (meal.Meal, error) {
					return meal.Meal{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeMealsRepo{}
			users := &fakeUsers{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			if tt.usersSetUp != nil {
				tt.usersSetUp(users)
			}

			h := handlers.NewMealsHandler(users, fakeRepo)

			r := setupRouter(http.MethodPost, "/meals", h.CreateMeal)

			req := authedRequest(http.MethodPost, "/meals", tt.body)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusCreated && w.Body.Len() != 0 {
				t.Fatalf("expected empty body on create, got %q", w.Body.String())
			}
		})
	}
}

func TestCreateMealHandler_Unauthenticated(t *testing.T) {
	h := handlers.NewMealsHandler(&fakeUsers{}, &fakeMealsRepo{})
	r := setupRouter(http.MethodPost, "/meals", h.CreateMeal)

	req := httptest.NewRequest(http.MethodPost, "/meals", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// List meal tests

func TestListMealsHandler(t *testing.T) {
	tests := []struct {
		name           string
		repoSetUp      func(*fakeMealsRepo)
		wantStatusCode int
		wantCount      int
	}{
		{
			name: "success",
			repoSetUp: func(f *fakeMealsRepo) {
				f.listFn = func(ctx context.Context, userID string) ([]meal.Meal, error) {
					return []meal.Meal{
						{
							ID:          newUUID(),
							Name:        "Lunch",
							UserID:      userID,
							Description: "Rice and beans",
							MealDate:    "2024-01-01",
							MealHour:    "12:00",
							IsOnTheDiet: true,
						},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      1,
		},
		{
			name: "empty_list_is_still_a_list",
			repoSetUp: func(f *fakeMealsRepo) {
				f.listFn = func(ctx context.Context, userID string) ([]meal.Meal, error) {
					return []meal.Meal{}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name: "repo_error",
			repoSetUp: func(f *fakeMealsRepo) {
				f.listFn = func(ctx context.Context, userID string) ([]meal.Meal, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeMealsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewMealsHandler(&fakeUsers{}, fakeRepo)
			r := setupRouter(http.MethodGet, "/meals", h.ListMeals)

			req := authedRequest(http.MethodGet, "/meals", "")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Meals []meal.Meal `json:"meals"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if len(resp.Meals) != tt.wantCount {
					t.Fatalf("got %d meals, want %d", len(resp.Meals), tt.wantCount)
				}
			}
		})
	}
}

func TestGetMealByIDHandler(t *testing.T) {
	validID := newUUID()
	missingID := newUUID()

	tests := []struct {
		name           string
		url            string
		repoSetUp      func(*fakeMealsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/meals/" + validID,
			repoSetUp: func(f *fakeMealsRepo) {
				f.getFn = func(ctx context.Context, userID, id string) (meal.Meal, error) {
					return meal.Meal{
						ID:          id,
						Name:        "Lunch",
						UserID:      userID,
						Description: "Rice and beans",
						MealDate:    "2024-01-01",
						MealHour:    "12:00",
						IsOnTheDiet: true,
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			url:  "/meals/" + missingID,
			repoSetUp: func(f *fakeMealsRepo) {
				f.getFn = func(ctx context.Context, userID, id string) (meal.Meal, error) {
					return meal.Meal{}, meal.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "malformed_id",
			url:            "/meals/not-a-uuid",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			url:  "/meals/" + validID,
			repoSetUp: func(f *fakeMealsRepo) {
				f.getFn = func(ctx context.Context, userID, id string) (meal.Meal, error) {
					return meal.Meal{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeMealsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewMealsHandler(&fakeUsers{}, fakeRepo)
			r := setupRouter(http.MethodGet, "/meals/:id", h.GetMealByID)

			req := authedRequest(http.MethodGet, tt.url, "")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Meal meal.Meal `json:"meal"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Meal.ID != validID {
					t.Fatalf("got meal id %q, want %q", resp.Meal.ID, validID)
				}
			}
		})
	}
}

func TestUpdateMealHandler(t *testing.T) {
	validID := newUUID()
	missingID := newUUID()

	tests := []struct {
		name           string
		url            string
		body           string
		repoSetUp      func(*fakeMealsRepo)
		wantStatusCode int
	}{
		{
			name: "success_partial_patch",
			url:  "/meals/" + validID,
			body: `{"name": "New name"}`,
			repoSetUp: func(f *fakeMealsRepo) {
				f.updateFn = func(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
					if req.Name == nil || *req.Name != "New name" {
						return errors.New("name not forwarded")
					}
					// absent fields must arrive as nil, not zero values
					if req.Description != nil || req.MealDate != nil || req.IsOnTheDiet != nil {
						return errors.New("absent fields were populated")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusAccepted,
		},
		{
			name: "flip_diet_flag_only",
			url:  "/meals/" + validID,
			body: `{"isOnTheDiet": false}`,
			repoSetUp: func(f *fakeMealsRepo) {
				f.updateFn = func(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
					if req.IsOnTheDiet == nil || *req.IsOnTheDiet {
						return errors.New("diet flag not forwarded")
					}
					if req.Name != nil {
						return errors.New("name should be nil")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusAccepted,
		},
		{
			name: "empty_patch_still_checks_existence",
			url:  "/meals/" + missingID,
			body: `{}`,
			repoSetUp: func(f *fakeMealsRepo) {
				f.updateFn = func(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
					if !req.Empty() {
						return errors.New("expected empty patch")
					}
					return meal.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// the not-found/foreign outcome is 404, not the source's 401
			name: "not_found",
			url:  "/meals/" + missingID,
			body: `{"name": "New name"}`,
			repoSetUp: func(f *fakeMealsRepo) {
				f.updateFn = func(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
					return meal.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "malformed_id",
			url:            "/meals/42",
			body:           `{"name": "New name"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			url:  "/meals/" + validID,
			body: `{"name": "New name"}`,
			repoSetUp: func(f *fakeMealsRepo) {
				f.updateFn = func(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeMealsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewMealsHandler(&fakeUsers{}, fakeRepo)
			r := setupRouter(http.MethodPut, "/meals/:id", h.UpdateMeal)

			req := authedRequest(http.MethodPut, tt.url, tt.body)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusAccepted && w.Body.Len() != 0 {
				t.Fatalf("expected empty body on update, got %q", w.Body.String())
			}
		})
	}
}

func TestDeleteMealHandler(t *testing.T) {
	validID := newUUID()
	missingID := newUUID()

	tests := []struct {
		name           string
		url            string
		repoSetUp      func(*fakeMealsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/meals/" + validID,
			repoSetUp: func(f *fakeMealsRepo) {
				f.deleteFn = func(ctx context.Context, userID, id string) error {
					return nil
				}
			},
			wantStatusCode: http.StatusAccepted,
		},
		{
			name: "not_found",
			url:  "/meals/" + missingID,
			repoSetUp: func(f *fakeMealsRepo) {
				f.deleteFn = func(ctx context.Context, userID, id string) error {
					return meal.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "malformed_id",
			url:            "/meals/oops",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			url:  "/meals/" + validID,
			repoSetUp: func(f *fakeMealsRepo) {
				f.deleteFn = func(ctx context.Context, userID, id string) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeMealsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewMealsHandler(&fakeUsers{}, fakeRepo)
			r := setupRouter(http.MethodDelete, "/meals/:id", h.DeleteMeal)

			req := authedRequest(http.MethodDelete, tt.url, "")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestSummaryHandler(t *testing.T) {
	fakeRepo := &fakeMealsRepo{}
	fakeRepo.summaryFn = func(ctx context.Context, userID string) (meal.Summary, error) {
		return meal.Summary{TotalMeals: 3, TotalOnTheDiet: 2, TotalOutsideTheDiet: 1}, nil
	}

	h := handlers.NewMealsHandler(&fakeUsers{}, fakeRepo)
	r := setupRouter(http.MethodGet, "/meals/summary", h.Summary)

	req := authedRequest(http.MethodGet, "/meals/summary", "")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Summary meal.Summary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Summary.TotalMeals != 3 || resp.Summary.TotalOnTheDiet != 2 || resp.Summary.TotalOutsideTheDiet != 1 {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}

	if resp.Summary.TotalOnTheDiet+resp.Summary.TotalOutsideTheDiet != resp.Summary.TotalMeals {
		t.Fatalf("summary does not add up: %+v", resp.Summary)
	}
}

func TestSummaryHandler_CacheHit(t *testing.T) {
	fakeRepo := &fakeMealsRepo{}
	c := cache.New(30 * time.Second)

	calls := 0
	fakeRepo.summaryFn = func(ctx context.Context, userID string) (meal.Summary, error) {
		calls++
		return meal.Summary{TotalMeals: 1, TotalOnTheDiet: 1}, nil
	}

	h := handlers.NewMealsHandlerWithCache(&fakeUsers{}, fakeRepo, c, nil)
	r := setupRouter(http.MethodGet, "/meals/summary", h.Summary)

	// First request: cache miss -> store called
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, authedRequest(http.MethodGet, "/meals/summary", ""))

	if w1.Code != http.StatusOK {
		t.Fatalf("first call got %d body=%s", w1.Code, w1.Body.String())
	}

	// Second request: cache hit -> store should NOT be called again
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, authedRequest(http.MethodGet, "/meals/summary", ""))

	if w2.Code != http.StatusOK {
		t.Fatalf("second call got %d body=%s", w2.Code, w2.Body.String())
	}

	if calls != 1 {
		t.Fatalf("expected store calls=1, got %d", calls)
	}

	if w1.Body.String() != w2.Body.String() {
		t.Fatalf("cached body differs: %q vs %q", w1.Body.String(), w2.Body.String())
	}
}

func TestSummaryHandler_WriteInvalidatesCache(t *testing.T) {
	validID := newUUID()

	fakeRepo := &fakeMealsRepo{}
	c := cache.New(30 * time.Second)

	calls := 0
	fakeRepo.summaryFn = func(ctx context.Context, userID string) (meal.Summary, error) {
		calls++
		return meal.Summary{TotalMeals: calls}, nil
	}
	fakeRepo.updateFn = func(ctx context.Context, userID, id string, req meal.UpdateMealRequest) error {
		return nil
	}

	h := handlers.NewMealsHandlerWithCache(&fakeUsers{}, fakeRepo, c, nil)

	r := gin.New()
	authMW := middlewares.NewAuthMiddleware(&fakeVerifier{})
	r.GET("/meals/summary", authMW.RequireAuth(), h.Summary)
	r.PUT("/meals/:id", authMW.RequireAuth(), h.UpdateMeal)

	// warm the cache
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, authedRequest(http.MethodGet, "/meals/summary", ""))

	// a write drops the cached summary
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, authedRequest(http.MethodPut, "/meals/"+validID, `{"isOnTheDiet": false}`))

	if w2.Code != http.StatusAccepted {
		t.Fatalf("update got %d body=%s", w2.Code, w2.Body.String())
	}

	// next read recomputes
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, authedRequest(http.MethodGet, "/meals/summary", ""))

	if calls != 2 {
		t.Fatalf("expected summary recompute after write, store calls=%d", calls)
	}
}
