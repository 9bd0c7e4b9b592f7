package meal

import "github.com/google/uuid"

func NewFromCreateRequest(userID string, req CreateMealRequest) Meal {
	return Meal{
		ID:          uuid.NewString(),
		Name:        req.Name,
		UserID:      userID,
		Description: req.Description,
		MealDate:    req.MealDate,
		MealHour:    req.MealHour,
		IsOnTheDiet: *req.IsOnTheDiet,
	}
}
