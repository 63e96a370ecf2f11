package middleware

// ContextKey is a private key type so context values cannot collide with
// other packages.
type ContextKey string

// UserIDCtxKey carries the authenticated user id set by JWTAuth.
const UserIDCtxKey = ContextKey("user_id")
