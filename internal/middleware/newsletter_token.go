package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"CODIGOCERTO_BACK-END/internal/config"
)

const subjectNewsletter = "newsletter_unsubscribe"

// NewsletterTokenClaims represents the JWT claims carried by unsubscribe links
type NewsletterTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateNewsletterToken signs an unsubscribe token bound to email
func GenerateNewsletterToken(email string, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := &NewsletterTokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.NewsletterTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subjectNewsletter,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ValidateNewsletterToken validates the token and checks it was issued for email
func ValidateNewsletterToken(tokenString, email string, cfg *config.JWTConfig) (*NewsletterTokenClaims, error) {
	claims := &NewsletterTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(cfg),
		jwt.WithSubject(subjectNewsletter),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if claims.Email != email {
		return nil, errors.New("token issued for another email")
	}

	return claims, nil
}
