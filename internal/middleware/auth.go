package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"podbooker/internal/db"
)

type contextKey string

// HostContextKey is the key for the authenticated host in the context.
const HostContextKey = contextKey("host")

// HostClaims are the token claims the console login issues for a host.
type HostClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Auth validates console bearer tokens and upserts the host record.
type Auth struct {
	store  *db.Store
	secret []byte
}

func NewAuth(store *db.Store, secret []byte) *Auth {
	return &Auth{store: store, secret: secret}
}

// Middleware requires a valid "Bearer <jwt>" Authorization header, upserts
// the host from its claims and stores it in the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Authorization header format must be 'Bearer <token>'", http.StatusUnauthorized)
			return
		}

		claims := &HostClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			log.Printf("Invalid token: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if claims.Subject == "" {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		host, err := a.store.UpsertHost(claims.Subject, claims.Email, claims.Name)
		if err != nil {
			http.Error(w, "Failed to authenticate host", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), HostContextKey, host)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
