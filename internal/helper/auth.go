package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

type Auth struct {
	Secret string
	TTL    time.Duration
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func SetupAuth(secret string, ttl time.Duration) Auth {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return Auth{
		Secret: secret,
		TTL:    ttl,
	}
}

func (a Auth) GenerateToken(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
		},
	})

	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

// VerifyToken validates a raw token (no scheme prefix). Expired tokens yield
// domain.ErrExpiredToken; anything else that fails validation yields
// domain.ErrInvalidSignature.
func (a Auth) VerifyToken(tokenString string) (dto.AuthResponse, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.AuthResponse{}, domain.ErrUnauthenticated
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dto.AuthResponse{}, domain.ErrExpiredToken
		}
		return dto.AuthResponse{}, domain.ErrInvalidSignature
	}
	if !token.Valid || strings.TrimSpace(claims.Email) == "" {
		return dto.AuthResponse{}, domain.ErrInvalidSignature
	}

	out := dto.AuthResponse{Email: claims.Email}
	if claims.ExpiresAt != nil {
		out.Expiry = float64(claims.ExpiresAt.Unix())
	}
	if claims.IssuedAt != nil {
		out.Iat = float64(claims.IssuedAt.Unix())
	}
	return out, nil
}

func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (dto.AuthResponse, error) {
	u := ctx.Locals("user")
	claims, ok := u.(dto.AuthResponse)
	if !ok || claims.Email == "" {
		return dto.AuthResponse{}, domain.ErrUnauthenticated
	}
	return claims, nil
}
