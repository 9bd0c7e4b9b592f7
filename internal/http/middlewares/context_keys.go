package middlewares

type ctxKey string

// KeyUserID carries the resolved owner id on the request context.
const KeyUserID ctxKey = "user_id"
