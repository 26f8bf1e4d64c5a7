package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"marketplace/config"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const (
	devSecret   = "marketplace-dev-secret"
	tokenIssuer = "marketplace"
)

var ErrInvalidToken = errors.New("invalid token")

// VendorClaims are carried by every vendor access token. Subject is the vendor id.
type VendorClaims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

func secretKey() []byte {
	if s := config.AppConfig.JWTSecret; s != "" {
		return []byte(s)
	}
	return []byte(devSecret)
}

// GenerateToken signs a vendor token valid for duration. Each call yields a distinct token.
func GenerateToken(vendorID, email string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := VendorClaims{
		Email: email,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   vendorID,
			Issuer:    tokenIssuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ParseVendorToken verifies signature, expiry and issuer.
func ParseVendorToken(tokenString string) (*VendorClaims, error) {
	claims := &VendorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || !claims.VerifyIssuer(tokenIssuer, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractIDFromToken returns the vendor id of a valid token.
func ExtractIDFromToken(tokenString string) (string, error) {
	claims, err := ParseVendorToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
