package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"CODIGOCERTO_BACK-END/internal/config"
	"CODIGOCERTO_BACK-END/internal/utils"
)

const (
	issuer       = "codigocerto"
	subjectAdmin = "admin"
)

type contextKey string

const adminEmailKey contextKey = "admin_email"

// AdminClaims represents the claims in the admin JWT token
type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateAdminToken generates a JWT token for the admin with the given email
func GenerateAdminToken(email string, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subjectAdmin,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ValidateAdminToken validates an admin JWT token and returns the claims
func ValidateAdminToken(tokenString string, cfg *config.JWTConfig) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(cfg),
		jwt.WithSubject(subjectAdmin),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// AdminAuthMiddleware validates admin JWT tokens in the Authorization header
func AdminAuthMiddleware(next http.HandlerFunc, cfg *config.JWTConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Não autorizado", "Cabeçalho Authorization obrigatório")
			return
		}

		// Extract token from "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Não autorizado", "Formato do cabeçalho Authorization inválido")
			return
		}

		claims, err := ValidateAdminToken(tokenParts[1], cfg)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Não autorizado", "Token inválido")
			return
		}

		ctx := context.WithValue(r.Context(), adminEmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminEmailFromContext returns the email of the authenticated admin
func AdminEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(adminEmailKey).(string)
	return email, ok
}

func hmacKey(cfg *config.JWTConfig) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.Secret), nil
	}
}
