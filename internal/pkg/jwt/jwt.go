package jwt

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"

	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type JSONWebToken struct {
	privateKeyPEM []byte
	publicKeyPEM  []byte
}

func NewJSONWebToken(privateKeyPEM, publicKeyPEM []byte) *JSONWebToken {
	return &JSONWebToken{
		privateKeyPEM: privateKeyPEM,
		publicKeyPEM:  publicKeyPEM,
	}
}

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (j *JSONWebToken) Parse(tokenString string) (Claims, error) {
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(j.publicKeyPEM)
	if err != nil {
		return Claims{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while parsing the token verification key")
	}

	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return publicKey, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "invalid or expired session token")
	}

	return claims, nil
}
