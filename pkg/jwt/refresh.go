package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshClaims claims del refresh token: el jti (ID) debe coincidir con el
// refresh_token_id almacenado en el usuario, y token_version con su versión vigente.
type RefreshClaims struct {
	jwt.RegisteredClaims
	TokenVersion int `json:"token_version"`
}

// GenerateRefresh genera un refresh token firmado (HS256) con jti = refreshID.
func GenerateRefresh(secret, userID, refreshID string, tokenVersion int, issuer string, expDays int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        refreshID,
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expDays) * 24 * time.Hour)),
		},
		TokenVersion: tokenVersion,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseRefresh valida el refresh token y devuelve (userID, refreshID, tokenVersion).
func ParseRefresh(secret, tokenString string) (string, string, int, error) {
	if secret == "" {
		return "", "", 0, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", 0, err
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return "", "", 0, fmt.Errorf("claims inválidos")
	}
	return claims.Subject, claims.ID, claims.TokenVersion, nil
}
