package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CODIGOCERTO_BACK-END/internal/config"
)

func TestNewsletterToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateNewsletterToken("ana@x.com", cfg)
	require.NoError(t, err)

	claims, err := ValidateNewsletterToken(token, "ana@x.com", cfg)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, "newsletter_unsubscribe", claims.Subject)

	_, err = ValidateNewsletterToken(token, "bruno@x.com", cfg)
	assert.EqualError(t, err, "token issued for another email")
}

func TestNewsletterTokenRejectsAdminToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateAdminToken("ana@x.com", cfg)
	require.NoError(t, err)

	_, err = ValidateNewsletterToken(token, "ana@x.com", cfg)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidSubject)
}

func TestNewsletterTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	expired := &config.JWTConfig{Secret: cfg.Secret, NewsletterTTL: -time.Minute}

	token, err := GenerateNewsletterToken("ana@x.com", expired)
	require.NoError(t, err)

	_, err = ValidateNewsletterToken(token, "ana@x.com", cfg)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
