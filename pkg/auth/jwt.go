package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/colposcopia/colpo-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type tokenType string

const (
	accessTokenType  tokenType = "access"
	refreshTokenType tokenType = "refresh"
)

var (
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenInvalid      = errors.New("token is invalid")
	ErrTokenTypeMismatch = errors.New("wrong token type")
)

// Claims identifies the authenticated clinician.
type Claims struct {
	UserID uint
	Email  string
	Name   string
}

type apiClaims struct {
	jwt.RegisteredClaims
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	TokenType tokenType `json:"token_type"`
}

type JWTManager struct {
	cfg config.AuthConfig
}

func NewJWTManager(cfg config.AuthConfig) *JWTManager {
	return &JWTManager{cfg: cfg}
}

func (m *JWTManager) GenerateTokenPair(claims *Claims) (*domain.TokenPair, error) {
	accessToken, expiresAt, err := m.generateToken(claims, accessTokenType, m.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refreshToken, _, err := m.generateToken(claims, refreshTokenType, m.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateToken(tokenString, accessTokenType)
}

func (m *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validateToken(tokenString, refreshTokenType)
}

func (m *JWTManager) generateToken(claims *Claims, ttype tokenType, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	jwtClaims := apiClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			// NotBefore prevents a token from being used immediately after issuance
			// (skew tolerance of 10 seconds handles clock drift in distributed systems)
			NotBefore: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		},
		Email:     claims.Email,
		Name:      claims.Name,
		TokenType: ttype,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	signed, err := token.SignedString([]byte(m.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (m *JWTManager) validateToken(tokenString string, expectedType tokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&apiClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.cfg.JWTSecret), nil
		},
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*apiClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.TokenType != expectedType {
		return nil, ErrTokenTypeMismatch
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &Claims{
		UserID: uint(userID),
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
