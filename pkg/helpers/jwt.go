package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer is the fixed iss claim stamped on every session token. Token
// consumers (the frontend, /check_token) rely on it staying constant.
const TokenIssuer = "AnkiCC"

// TokenValidity is how long an issued session token remains valid. Sessions
// are stateless: there is no revocation list, so a token stays usable until
// this window elapses.
const TokenValidity = 180 * 24 * time.Hour

var (
	ErrMissingUserID = errors.New("jwt: user has no assigned id")
	ErrInvalidToken  = errors.New("jwt: invalid token")
)

// Claims is the session token payload: the registered claims plus the user's
// directory id as a custom claim.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies session tokens with a single symmetric secret.
type JWTManager struct {
	secret []byte
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret)}
}

// GenerateToken signs a session token for an authenticated user. The subject
// is always the username, regardless of which identifier was used to log in.
// userID must be the directory-assigned id; a user that was never inserted
// cannot get a token.
func (m *JWTManager) GenerateToken(userID, username string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// ParseToken validates a session token's signature and expiry and returns its
// claims. Used by the /check_token surface; issuance never depends on it.
func (m *JWTManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(TokenIssuer))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
