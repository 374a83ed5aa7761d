package auth

import (
	"context"
	"net/http"
	"time"
)

// CookieName is the cookie carrying the JWT.
const CookieName = "token"

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of this type, so nothing else can read
// or shadow the user id stored under it.
type contextKey string

const userIDKey contextKey = "userID"

// Sessions reports which user is currently logged in, or "" for nobody.
type Sessions interface {
	ActiveUserID() string
}

// RequireAuth enforces authentication on protected routes.
//
// The request passes only when the "token" cookie holds a valid JWT whose
// subject is the active session's user. Otherwise it answers 401 and stops
// the chain.
func RequireAuth(tokens *TokenService, sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := authenticate(r, tokens, sessions)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthenticated","message":"valid authentication required"}` + "\n"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth attaches the user id when RequireAuth would have accepted the
// request, and lets anonymous requests through untouched.
func OptionalAuth(tokens *TokenService, sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := authenticate(r, tokens, sessions); ok {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func authenticate(r *http.Request, tokens *TokenService, sessions Sessions) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	userID, err := tokens.Validate(cookie.Value)
	if err != nil {
		return "", false
	}
	if active := sessions.ActiveUserID(); active == "" || active != userID {
		return "", false
	}
	return userID, true
}

// SetTokenCookie stores token in an HttpOnly cookie that expires with it.
func SetTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie tells the client to drop the token cookie.
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
