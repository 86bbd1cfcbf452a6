package tokens

import (
	"fmt"
	"time"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// SessionClaims данные access и refresh токенов сессии. Роль кладется в
// access токен чтобы не ходить в базу на каждый запрос; refresh токен
// несет только идентификатор пользователя.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID uint        `json:"uid"`
	Role   models.Role `json:"role,omitempty"`
}

// GenerateAccessJWT создает короткоживущий access токен.
func GenerateAccessJWT(userID uint, role models.Role, expire time.Duration, key []byte) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Role:   role,
	}
	token, err := generateJWT(claims, key)
	if err != nil {
		return "", fmt.Errorf("generating access jwt token: %w", err)
	}
	return token, nil
}

// GenerateRefreshJWT создает долгоживущий refresh токен. Подписывается
// отдельным ключом, чтобы access токен нельзя было предъявить на refresh.
func GenerateRefreshJWT(userID uint, expire time.Duration, key []byte) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}
	token, err := generateJWT(claims, key)
	if err != nil {
		return "", fmt.Errorf("generating refresh jwt token: %w", err)
	}
	return token, nil
}

// ValidateSessionJWT проверяет токен сессии и возвращает его claims.
func ValidateSessionJWT(tokenString string, key []byte) (*SessionClaims, error) {
	token, err := validateJWT(tokenString, new(SessionClaims), key)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func generateJWT(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("generating jwt token: %w", err)
	}
	return tokenString, nil
}

func validateJWT(tokenString string, claims jwt.Claims, key []byte) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrTokenInvalid
	}

	return token, nil
}
