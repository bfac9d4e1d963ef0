package middleware

import (
	"context"
	"net/http"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/auth"
	"onlinemart-be/internal/httputil"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
)

// SetUserContext stores the authenticated identity on the context.
func SetUserContext(ctx context.Context, userID int64, username, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UsernameKey, username)
	return context.WithValue(ctx, RoleKey, role)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

func UsernameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UsernameKey).(string)
	return name
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

// Authenticate verifies the bearer token and loads the identity into context.
func Authenticate(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				httputil.WriteError(w, apperr.InvalidCredentials("Missing bearer token."))
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				httputil.WriteError(w, apperr.InvalidCredentials("Invalid or expired token."))
				return
			}

			ctx := SetUserContext(r.Context(), claims.UserID, claims.Subject, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a subtree on the role claim set by Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				httputil.WriteError(w, apperr.Forbidden("Insufficient privileges."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
