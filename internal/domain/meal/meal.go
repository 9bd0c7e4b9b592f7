package meal

import "errors"

// Meal is one dietary log entry, always owned by exactly one user.
// mealDate and mealHour stay strings on the wire, same as the source of
// record: the API never does date math on them.
type Meal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	UserID      string `json:"user_id"`
	Description string `json:"description"`
	MealDate    string `json:"mealDate"`
	MealHour    string `json:"mealHour"`
	IsOnTheDiet bool   `json:"isOnTheDiet"`
}

var ErrNotFound = errors.New("meal not found")

type CreateMealRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	MealDate    string `json:"mealDate" binding:"required"`
	MealHour    string `json:"mealHour" binding:"required"`
	// pointer so an explicit false still passes required
	IsOnTheDiet *bool `json:"isOnTheDiet" binding:"required"`
}

// UpdateMealRequest is a patch: nil means "leave unchanged", never
// "overwrite with zero value". There is deliberately no mealHour field,
// the hour is write-once at creation.
type UpdateMealRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MealDate    *string `json:"mealDate"`
	IsOnTheDiet *bool   `json:"isOnTheDiet"`
}

// Empty reports whether the patch carries no fields at all.
func (r UpdateMealRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.MealDate == nil && r.IsOnTheDiet == nil
}

type Summary struct {
	TotalMeals          int `json:"totalMeals"`
	TotalOnTheDiet      int `json:"totalOnTheDiet"`
	TotalOutsideTheDiet int `json:"totalOutsideTheDiet"`
}
