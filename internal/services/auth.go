package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/requestdata"
	"github.com/platewise/recipeledger/internal/utils"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// AuthService verifies chef identity tokens and stamps the chef id into the
// request context for the rest of the stack.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GenerateToken(chefID string) (string, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(baseLog *logger.Logger) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	secret := utils.GetEnv("JWT_SECRET_KEY", "", serviceLog)
	ttlMinutes := utils.GetEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 60, serviceLog)
	if secret == "" {
		serviceLog.Warn("JWT_SECRET_KEY is empty; tokens will not verify")
	}
	return &authService{
		log:          serviceLog,
		jwtSecretKey: secret,
		accessTTL:    time.Duration(ttlMinutes) * time.Minute,
	}
}

func (as *authService) GenerateToken(chefID string) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   chefID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	if claims.Subject == "" {
		return ctx, fmt.Errorf("token has no subject")
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		ChefID:      claims.Subject,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
