package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"nutiai.com/nutiai-server/internal/config"
)

const tokenLifetime = 24 * time.Hour

func GenerateJWT(userID string) (string, error) {
	return generateJWT(userID, []byte(config.AppConfig.JWTSecret), time.Now())
}

func generateJWT(userID string, secret []byte, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateJWT(tokenString string) (string, error) {
	return validateJWT(tokenString, []byte(config.AppConfig.JWTSecret))
}

func validateJWT(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return "", fmt.Errorf("token has no subject")
		}
		return sub, nil
	}

	return "", fmt.Errorf("invalid token")
}
