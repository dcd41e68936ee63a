package utils // package utils mints and verifies operator tokens

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// RoleOperator is the only role the admin routes accept.
const RoleOperator = "OPERATOR"

// ErrInvalidToken covers every reason a token is refused.
var ErrInvalidToken = errors.New("invalid token")

// OperatorClaims are the claims carried by an operator token.  Subject is
// the operator's name as given to `ask token`.
type OperatorClaims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// AccessToken is a signed JWT along with its expiry.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// NewOperatorToken signs an HS256 token for operator that expires after ttl.
func NewOperatorToken(secret, operator string, ttl time.Duration, now time.Time) (AccessToken, error) {
    if secret == "" {
        return AccessToken{}, errors.New("empty signing secret")
    }
    if operator == "" {
        return AccessToken{}, errors.New("empty operator name")
    }
    exp := now.UTC().Add(ttl)
    claims := OperatorClaims{
        Role: RoleOperator,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   operator,
            IssuedAt:  jwt.NewNumericDate(now.UTC()),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseOperatorToken verifies raw and returns its claims.  Only HMAC
// signatures are accepted.
func ParseOperatorToken(secret, raw string) (*OperatorClaims, error) {
    claims := &OperatorClaims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    if claims.Subject == "" {
        return nil, ErrInvalidToken
    }
    return claims, nil
}
