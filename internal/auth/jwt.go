package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

// Claims son los claims de un token de la API de administración.
// Los usa nasrecoctl y cualquier integración server-to-server; la UI
// normal usa la cookie de sesión.
type Claims struct {
	TenantID string               `json:"tenantId,omitempty"`
	Role     repository.StaffRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer firma y valida tokens HS256.
type TokenIssuer struct {
	issuer string
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer crea un TokenIssuer.
func NewTokenIssuer(issuer, secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{issuer: issuer, secret: []byte(secret), ttl: ttl}
}

// Issue firma un token para el staff dado.
func (t *TokenIssuer) Issue(staffID, tenantID string, role repository.StaffRole) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("auth: jwt secret no configurado")
	}
	now := time.Now()
	claims := Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   staffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify valida un token y retorna sus claims.
func (t *TokenIssuer) Verify(raw string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("auth: método de firma inesperado")
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("auth: token inválido")
	}
	return &claims, nil
}
