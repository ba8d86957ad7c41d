package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie jwtauth.TokenFromCookie reads.
const SessionCookieName = "jwt"

var (
	TokenAuth *jwtauth.JWTAuth
	tokenTTL  time.Duration
)

func InitJWT(secret []byte, ttl time.Duration) {
	TokenAuth = jwtauth.New("HS256", secret, nil)
	tokenTTL = ttl
}

// SessionClaims is the decoded identity carried by a session token.
type SessionClaims struct {
	UserID    int64
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func GenerateToken(userID int64, role string) (string, *SessionClaims, error) {
	if TokenAuth == nil {
		return "", nil, errors.New("jwt not initialized")
	}
	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(userID, 10),
		"role":    role,
		"jti":     uuid.NewString(),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, tokenTTL)

	_, tokenString, err := TokenAuth.Encode(claims)
	if err != nil {
		return "", nil, err
	}
	sc, err := ClaimsFromMap(claims)
	if err != nil {
		return "", nil, err
	}
	return tokenString, sc, nil
}

// ClaimsFromMap converts verified token claims into SessionClaims.
func ClaimsFromMap(claims jwt.MapClaims) (*SessionClaims, error) {
	userID, err := GetUserIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil {
		return nil, err
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil, errors.New("jti claim is missing or not a string")
	}
	exp, err := expiryFromClaims(claims)
	if err != nil {
		return nil, err
	}
	return &SessionClaims{UserID: userID, Role: role, TokenID: jti, ExpiresAt: exp}, nil
}

func GetUserIDFromClaims(claims jwt.MapClaims) (int64, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return 0, errors.New("user_id claim is missing or not a string")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user_id claim is not numeric: %w", err)
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

// expiryFromClaims accepts both the raw unix seconds set at issue time and
// the time.Time the verifier produces after parsing.
func expiryFromClaims(claims jwt.MapClaims) (time.Time, error) {
	switch exp := claims["exp"].(type) {
	case time.Time:
		return exp, nil
	case int64:
		return time.Unix(exp, 0), nil
	case float64:
		return time.Unix(int64(exp), 0), nil
	default:
		return time.Time{}, errors.New("exp claim is missing")
	}
}
