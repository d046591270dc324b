package jwt

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// JWTClaims represents the claims in a JWT token. Email is the identity key
// for all per-user records; there is no numeric user id.
type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// defaultExpiry is the session length when no expiry is configured.
const defaultExpiry = 24 * time.Hour

// GenerateToken generates a new JWT token for a user
func GenerateToken(email, name string) (string, error) {
	return generateToken(email, name, getSecretKey(), defaultExpiry)
}

func generateToken(email, name, secretKey string, expiry time.Duration) (string, error) {
	// Set expiration time
	expirationTime := time.Now().Add(expiry)

	// Create claims
	claims := &JWTClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	// Create token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Sign token with secret key
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*JWTClaims, error) {
	return validateToken(tokenString, getSecretKey())
}

func validateToken(tokenString, secretKey string) (*JWTClaims, error) {
	// Parse the token
	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	// Extract claims
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// secretOverride pins the key for the package level helpers. The container
// sets it at startup so tokens minted by the Service and tokens checked by
// the middleware and the websocket handler agree on the key.
var secretOverride string

// SetSecret overrides the environment-provided signing key.
func SetSecret(key string) {
	secretOverride = key
}

// getSecretKey gets the JWT secret key, preferring the configured override
// over environment variables
func getSecretKey() string {
	if secretOverride != "" {
		return secretOverride
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Fallback to a default secret for development (not recommended for production)
		secret = "devJwtSecretDoNotUseInProduction"
	}
	return secret
}
